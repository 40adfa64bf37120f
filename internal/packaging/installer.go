// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package packaging installs the system packages the application
// depends on, including those from a signed third-party repository.
package packaging

import (
	"context"

	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/sessionfiles/sfdeploy/internal/config"
)

var logger = loggo.GetLogger("sfdeploy.packaging")

// Installer refreshes apt, adds the extra repository and installs the
// configured packages.
type Installer struct {
	cfg    config.Packages
	apt    *Apt
	client HTTPClient
}

// NewInstaller returns an Installer for cfg.
func NewInstaller(cfg config.Packages, apt *Apt, client HTTPClient) *Installer {
	return &Installer{cfg: cfg, apt: apt, client: client}
}

// Run installs everything. The index is refreshed a second time only
// when the repository source changed.
func (i *Installer) Run(ctx context.Context) error {
	packages, err := ExpandPackages(i.cfg.System)
	if err != nil {
		return errors.Trace(err)
	}
	if err := i.apt.Update(ctx); err != nil {
		return errors.Trace(err)
	}

	codename, err := ReleaseCodename()
	if err != nil {
		return errors.Trace(err)
	}
	repo := i.cfg.Repository
	changed, err := AddSource(ctx, i.client, Source{
		Name:       repo.Name,
		URL:        repo.URL,
		KeyURL:     repo.KeyURL,
		Suite:      codename + repo.Suffix,
		Component:  repo.Component,
		KeyringDir: repo.KeyringDir,
		SourceDir:  repo.SourceDir,
	})
	if err != nil {
		return errors.Annotatef(err, "adding %s repository", repo.Name)
	}
	if changed {
		if err := i.apt.Update(ctx); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(i.apt.Install(ctx, packages...))
}
