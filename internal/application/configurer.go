// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package application prepares the checked out application: its python
// environment, its configuration file and fixes to its source.
package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/utils/v4"

	"github.com/sessionfiles/sfdeploy/internal/config"
	"github.com/sessionfiles/sfdeploy/internal/system"
	"github.com/sessionfiles/sfdeploy/internal/textedit"
)

var logger = loggo.GetLogger("sfdeploy.application")

var (
	lookupAccount = system.LookupAccount
	chownTree     = system.ChownTree
)

// Configurer sets up the application checkout.
type Configurer struct {
	cfg    config.Config
	runner system.Runner
}

// NewConfigurer returns a Configurer for cfg.
func NewConfigurer(cfg config.Config, runner system.Runner) *Configurer {
	return &Configurer{cfg: cfg, runner: runner}
}

// Run creates the virtualenv, installs the python libraries, writes the
// active configuration and patches the source.
func (c *Configurer) Run(ctx context.Context) error {
	if err := c.createVenv(ctx); err != nil {
		return errors.Trace(err)
	}
	if err := c.installLibraries(ctx); err != nil {
		return errors.Trace(err)
	}
	if err := c.writeConfig(); err != nil {
		return errors.Trace(err)
	}
	if err := c.patchSource(); err != nil {
		return errors.Trace(err)
	}
	account, err := lookupAccount(c.cfg.Operator)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(chownTree(c.cfg.AppDir(), account.UID, account.GID))
}

func (c *Configurer) createVenv(ctx context.Context) error {
	venv := c.cfg.VenvDir()
	exists, err := system.Exists(filepath.Join(venv, "bin", "python"))
	if err != nil {
		return errors.Trace(err)
	}
	if exists {
		logger.Infof("virtualenv %s already exists", venv)
		return nil
	}
	_, err = c.runner.Run(ctx, "python3", "-m", "venv", "--system-site-packages", venv)
	return errors.Annotate(err, "creating virtualenv")
}

func (c *Configurer) installLibraries(ctx context.Context) error {
	if len(c.cfg.App.PipPackages) == 0 {
		return nil
	}
	args := []string{filepath.Join(c.cfg.VenvDir(), "bin", "pip"), "install", "--quiet"}
	args = append(args, c.cfg.App.PipPackages...)
	_, err := c.runner.Run(ctx, args...)
	return errors.Annotate(err, "installing python libraries")
}

// writeConfig copies the sample configuration over the active one and
// adds the database user after the anchor.
func (c *Configurer) writeConfig() error {
	app := c.cfg.App
	sample := filepath.Join(c.cfg.AppDir(), app.SampleConfig)
	data, err := os.ReadFile(sample)
	if os.IsNotExist(err) {
		return errors.NotFoundf("sample configuration %s", sample)
	} else if err != nil {
		return errors.Trace(err)
	}

	content, err := InsertUser(string(data), app.UserAnchor, c.cfg.DBUser())
	if err != nil {
		return errors.Annotatef(err, "editing %s", app.ActiveConfig)
	}
	active := filepath.Join(c.cfg.AppDir(), app.ActiveConfig)
	if err := utils.AtomicWriteFile(active, []byte(content), 0640); err != nil {
		return errors.Annotatef(err, "writing %s", active)
	}
	logger.Infof("wrote %s", active)
	return nil
}

// InsertUser adds a "user" entry for name on the line after anchor,
// indented like the anchor's line.
func InsertUser(content, anchor, name string) (string, error) {
	if !system.ValidUserName(name) {
		return "", errors.NotValidf("user name %q", name)
	}
	indent, ok := textedit.LineIndent(content, anchor)
	if !ok {
		return "", errors.NotFoundf("pattern %q", anchor)
	}
	patch := textedit.Patch{
		Old: anchor,
		New: fmt.Sprintf("%s,\n%s\"user\": %q", anchor, indent, name),
	}
	content, _, err := patch.Apply(content)
	return content, errors.Trace(err)
}

func (c *Configurer) patchSource() error {
	for _, p := range c.cfg.App.Patches {
		path := filepath.Join(c.cfg.AppDir(), p.File)
		outcomes, err := textedit.PatchFile(path, textedit.Patch{Old: p.Old, New: p.New})
		if err != nil {
			return errors.Trace(err)
		}
		logger.Infof("%s: %s", p.File, outcomes[0])
	}
	return nil
}
