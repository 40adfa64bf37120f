// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package database prepares PostgreSQL for the application: local
// trust authentication, the application role and database, and the
// schema shipped with the application source.
package database

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/retry"

	"github.com/sessionfiles/sfdeploy/internal/config"
	"github.com/sessionfiles/sfdeploy/internal/service"
	"github.com/sessionfiles/sfdeploy/internal/system"
)

var logger = loggo.GetLogger("sfdeploy.database")

var (
	readyAttempts = 30
	readyDelay    = time.Second
)

// Provisioner creates the database objects and fetches the
// application source.
type Provisioner struct {
	cfg      config.Config
	catalog  Catalog
	runner   system.Runner
	services service.Manager
	clock    clock.Clock
}

// NewProvisioner returns a Provisioner for cfg.
func NewProvisioner(cfg config.Config, catalog Catalog, runner system.Runner, services service.Manager, clock clock.Clock) *Provisioner {
	return &Provisioner{
		cfg:      cfg,
		catalog:  catalog,
		runner:   runner,
		services: services,
		clock:    clock,
	}
}

// Run provisions the database. An existing role or database is an
// AlreadyExists error and nothing after that check is attempted.
func (p *Provisioner) Run(ctx context.Context) error {
	db := p.cfg.Database
	hba, err := FindHBAFile(db.HBASearch)
	if err != nil {
		return errors.Trace(err)
	}
	if _, err := TrustLocalConnections(hba); err != nil {
		return errors.Annotatef(err, "configuring %s", hba)
	}
	if err := p.services.Restart(ctx, db.Unit); err != nil {
		return errors.Trace(err)
	}
	if err := p.waitReady(ctx); err != nil {
		return errors.Trace(err)
	}

	role := p.cfg.DBUser()
	if err := p.createRole(ctx, role); err != nil {
		return errors.Trace(err)
	}
	if err := p.createDatabase(ctx, db.Name, role); err != nil {
		return errors.Trace(err)
	}
	if err := p.fetchSource(ctx); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(p.loadSchema(ctx, db.Name, role))
}

func (p *Provisioner) waitReady(ctx context.Context) error {
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			return p.catalog.Ping(ctx)
		},
		NotifyFunc: func(err error, attempt int) {
			logger.Debugf("waiting for postgresql (attempt %d): %v", attempt, err)
		},
		Attempts: readyAttempts,
		Delay:    readyDelay,
		Clock:    p.clock,
		Stop:     ctx.Done(),
	})
	if err != nil {
		return errors.Annotate(retry.LastError(err), "waiting for postgresql")
	}
	return nil
}

func (p *Provisioner) createRole(ctx context.Context, role string) error {
	exists, err := p.catalog.RoleExists(ctx, role)
	if err != nil {
		return errors.Trace(err)
	}
	if exists {
		return errors.AlreadyExistsf("database role %q", role)
	}
	if err := p.catalog.CreateRole(ctx, role); err != nil {
		return errors.Trace(err)
	}
	logger.Infof("created database role %q", role)
	return nil
}

func (p *Provisioner) createDatabase(ctx context.Context, name, owner string) error {
	exists, err := p.catalog.DatabaseExists(ctx, name)
	if err != nil {
		return errors.Trace(err)
	}
	if exists {
		return errors.AlreadyExistsf("database %q", name)
	}
	if err := p.catalog.CreateDatabase(ctx, name, owner); err != nil {
		return errors.Trace(err)
	}
	logger.Infof("created database %q owned by %q", name, owner)
	return nil
}

func (p *Provisioner) fetchSource(ctx context.Context) error {
	dir := p.cfg.AppDir()
	exists, err := system.Exists(dir)
	if err != nil {
		return errors.Trace(err)
	}
	if exists {
		logger.Infof("%s already exists, skipping clone", dir)
		return nil
	}
	_, err = p.runner.RunAs(ctx, p.cfg.Operator, "git", "clone", "--", p.cfg.RepoURL, dir)
	return errors.Annotatef(err, "cloning %s", p.cfg.RepoURL)
}

func (p *Provisioner) loadSchema(ctx context.Context, db, role string) error {
	marker := p.cfg.Database.MarkerTable
	loaded, err := p.catalog.TableExists(ctx, db, marker)
	if err != nil {
		return errors.Trace(err)
	}
	if loaded {
		logger.Infof("table %q present, skipping schema load and grants", marker)
		return nil
	}

	path := filepath.Join(p.cfg.AppDir(), p.cfg.Database.SchemaFile)
	schema, err := os.ReadFile(path)
	if err != nil {
		return errors.Annotate(err, "reading schema")
	}
	if err := p.catalog.LoadSchema(ctx, db, string(schema)); err != nil {
		return errors.Trace(err)
	}
	if err := p.catalog.GrantAll(ctx, db, role); err != nil {
		return errors.Trace(err)
	}
	logger.Infof("loaded schema into %q", db)
	return nil
}
