// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package packaging

import (
	"context"
	"strings"

	"github.com/juju/errors"

	"github.com/sessionfiles/sfdeploy/internal/system"
)

// This is the apt-get invocation used in cloud-init; these options
// mean apt won't block waiting for a prompt from the user.
var aptGetCommand = []string{
	"env", "DEBIAN_FRONTEND=noninteractive",
	"apt-get", "--option=Dpkg::Options::=--force-confold",
	"--option=Dpkg::options::=--force-unsafe-io", "--assume-yes", "--quiet",
}

// Apt installs Debian packages.
type Apt struct {
	runner system.Runner
}

// NewApt returns an Apt running its commands through runner.
func NewApt(runner system.Runner) *Apt {
	return &Apt{runner: runner}
}

// Update refreshes the package index.
func (a *Apt) Update(ctx context.Context) error {
	args := append(append([]string(nil), aptGetCommand...), "update")
	_, err := a.runner.Run(ctx, args...)
	return errors.Annotate(err, "updating package index")
}

// Installed reports whether pkg is fully installed.
func (a *Apt) Installed(ctx context.Context, pkg string) (bool, error) {
	out, err := a.runner.Run(ctx, "dpkg-query", "--show", "--showformat=${db:Status-Status}", pkg)
	if code, ok := system.ExitCode(err); ok && code == 1 {
		// dpkg-query exits 1 for packages it has never heard of.
		return false, nil
	} else if err != nil {
		return false, errors.Annotatef(err, "querying status of %s", pkg)
	}
	return strings.TrimSpace(out) == "installed", nil
}

// Install installs those of packages that are not yet installed.
func (a *Apt) Install(ctx context.Context, packages ...string) error {
	var missing []string
	for _, pkg := range packages {
		installed, err := a.Installed(ctx, pkg)
		if err != nil {
			return errors.Trace(err)
		}
		if installed {
			logger.Debugf("%s already installed", pkg)
			continue
		}
		missing = append(missing, pkg)
	}
	if len(missing) == 0 {
		logger.Infof("all %d packages already installed", len(packages))
		return nil
	}
	logger.Infof("installing %s", strings.Join(missing, " "))
	args := append(append([]string(nil), aptGetCommand...), "install")
	args = append(args, missing...)
	_, err := a.runner.Run(ctx, args...)
	return errors.Annotate(err, "installing packages")
}
