// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package provision runs the provisioning stages in order.
package provision

import (
	"context"
	"fmt"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/sessionfiles/sfdeploy/internal/application"
	"github.com/sessionfiles/sfdeploy/internal/config"
	"github.com/sessionfiles/sfdeploy/internal/database"
	"github.com/sessionfiles/sfdeploy/internal/domaincheck"
	"github.com/sessionfiles/sfdeploy/internal/nginx"
	"github.com/sessionfiles/sfdeploy/internal/packaging"
	"github.com/sessionfiles/sfdeploy/internal/service"
	"github.com/sessionfiles/sfdeploy/internal/system"
	"github.com/sessionfiles/sfdeploy/internal/uwsgi"
)

var logger = loggo.GetLogger("sfdeploy.provision")

var (
	isRoot       = system.IsRoot
	invokingUser = system.InvokingUser
)

// Step is one provisioning stage.
type Step interface {
	// Description is a human readable description of what the step does.
	Description() string

	// Run executes the step.
	Run(ctx context.Context) error
}

type step struct {
	description string
	run         func(context.Context) error
}

// NewStep returns a Step running f.
func NewStep(description string, f func(context.Context) error) Step {
	return &step{description: description, run: f}
}

func (s *step) Description() string           { return s.description }
func (s *step) Run(ctx context.Context) error { return s.run(ctx) }

// stepError records the description of the step being performed and
// the error.
type stepError struct {
	description string
	err         error
}

func (e *stepError) Error() string {
	return fmt.Sprintf("%s: %v", e.description, e.err)
}

func (e *stepError) Unwrap() error {
	return e.err
}

// Run executes steps in order and stops at the first failure. Nothing
// done by earlier steps is undone.
func Run(ctx context.Context, steps []Step) error {
	for i, s := range steps {
		if err := ctx.Err(); err != nil {
			return &stepError{description: s.Description(), err: err}
		}
		logger.Infof("[%d/%d] %s", i+1, len(steps), s.Description())
		if err := s.Run(ctx); err != nil {
			logger.Debugf("step %q failed: %s", s.Description(), errors.ErrorStack(err))
			return &stepError{description: s.Description(), err: err}
		}
	}
	return nil
}

// CheckPermissions makes sure the process runs as root and returns the
// unprivileged user that invoked it.
func CheckPermissions() (string, error) {
	if !isRoot() {
		return "", errors.Unauthorizedf("this command must be run as root")
	}
	operator, err := invokingUser()
	if err != nil {
		return "", errors.Annotate(err, "detecting operator user")
	}
	return operator, nil
}

// Deps holds the collaborators shared by the stages.
type Deps struct {
	Runner   system.Runner
	Services service.Manager
	Catalog  database.Catalog
	HTTP     packaging.HTTPClient
	Clock    clock.Clock
}

// Stages returns the provisioning stages that follow the permission
// check, in the order they must run.
func Stages(cfg config.Config, deps Deps) []Step {
	installer := packaging.NewInstaller(cfg.Packages, packaging.NewApt(deps.Runner), deps.HTTP)
	provisioner := database.NewProvisioner(cfg, deps.Catalog, deps.Runner, deps.Services, deps.Clock)
	app := application.NewConfigurer(cfg, deps.Runner)
	vassal := uwsgi.NewConfigurer(cfg, deps.Services)
	site := nginx.NewConfigurer(cfg, deps.Runner, deps.Services, domaincheck.NewChecker(deps.HTTP, cfg.PublicIPURL))
	return []Step{
		NewStep("install dependencies", installer.Run),
		NewStep("provision database", provisioner.Run),
		NewStep("configure application", app.Run),
		NewStep("configure uwsgi", vassal.Run),
		NewStep("configure nginx", site.Run),
	}
}
