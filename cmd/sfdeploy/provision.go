// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/juju/clock"
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	jujuhttp "github.com/juju/http/v2"
	"github.com/juju/proxy"

	"github.com/sessionfiles/sfdeploy/internal/config"
	"github.com/sessionfiles/sfdeploy/internal/database"
	"github.com/sessionfiles/sfdeploy/internal/logging"
	"github.com/sessionfiles/sfdeploy/internal/provision"
	"github.com/sessionfiles/sfdeploy/internal/service"
	"github.com/sessionfiles/sfdeploy/internal/system"
	"github.com/sessionfiles/sfdeploy/version"
)

const provisionDoc = `
sfdeploy prepares a fresh Ubuntu host to serve the sessionfiles web
application under the given domain name. It installs the system
packages, creates the PostgreSQL role and database, checks out and
configures the application in the operator's home directory, and puts
it behind uWSGI and nginx.

The command must be run with sudo by the operator who will own the
application checkout. Steps that find their work already done are
skipped, so a failed run can be repeated once the cause is fixed.

Examples:

    sudo sfdeploy --domain files.example.com
    sudo sfdeploy -d files.example.com
`

func newProvisionCommand() *provisionCommand {
	return &provisionCommand{
		checkPermissions: provision.CheckPermissions,
		lookupAccount:    system.LookupAccount,
		startLogging: func(path string) (func(), error) {
			return logging.Start(path, "sfdeploy")
		},
		provision: provisionHost,
	}
}

// provisionCommand provisions the local host for a single domain.
type provisionCommand struct {
	cmd.CommandBase

	domain string

	checkPermissions func() (string, error)
	lookupAccount    func(string) (system.Account, error)
	startLogging     func(string) (func(), error)
	provision        func(context.Context, config.Config) error

	stopLogging func()
}

// Info implements Command.Info.
func (c *provisionCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "sfdeploy",
		Purpose: "Provision this host to serve sessionfiles for a domain.",
		Doc:     provisionDoc,
	}
}

// SetFlags implements Command.SetFlags.
func (c *provisionCommand) SetFlags(f *gnuflag.FlagSet) {
	c.CommandBase.SetFlags(f)
	f.StringVar(&c.domain, "d", "", "Domain name the site is served under")
	f.StringVar(&c.domain, "domain", "", "")
}

// Init implements Command.Init.
func (c *provisionCommand) Init(args []string) error {
	if len(args) > 0 {
		return errors.Errorf("unknown argument %q", args[0])
	}
	if c.domain == "" {
		return errors.New("missing --domain")
	}
	return config.ValidateDomain(c.domain)
}

// Run implements Command.Run.
func (c *provisionCommand) Run(ctx *cmd.Context) error {
	if err := logging.SetupTerminal(ctx.Stderr, os.Getenv(config.LoggingConfigEnvKey)); err != nil {
		return errors.Trace(err)
	}
	defer func() {
		if c.stopLogging != nil {
			c.stopLogging()
		}
	}()

	sigCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := c.run(sigCtx); err != nil {
		logger.Errorf("%v", err)
		return cmd.ErrSilent
	}
	logger.Infof("%s is provisioned, the site is served at http://%s/", c.domain, c.domain)
	return nil
}

func (c *provisionCommand) run(ctx context.Context) error {
	operator, err := c.checkPermissions()
	if err != nil {
		return errors.Trace(err)
	}
	account, err := c.lookupAccount(operator)
	if err != nil {
		return errors.Annotatef(err, "looking up operator %q", operator)
	}
	cfg, err := config.New(c.domain, operator, account.Home)
	if err != nil {
		return errors.Trace(err)
	}
	if c.stopLogging, err = c.startLogging(cfg.LogFile); err != nil {
		return errors.Trace(err)
	}
	logger.Infof("sfdeploy %s provisioning %s for operator %s", version.Current, cfg.Domain, cfg.Operator)
	return c.provision(ctx, cfg)
}

// provisionHost wires the production collaborators and runs every stage.
func provisionHost(ctx context.Context, cfg config.Config) error {
	proxies := proxy.DetectProxies()
	if proxies.HasProxySet() {
		logger.Debugf("passing proxy settings from the environment to commands")
	}
	deps := provision.Deps{
		Runner:   system.NewRunner(proxies.AsEnvironmentValues()...),
		Services: service.NewSystemd(service.NewDBusAPI),
		Catalog:  database.NewCatalog(cfg.Database.SocketDir, cfg.Database.Superuser),
		HTTP:     jujuhttp.NewClient(),
		Clock:    clock.WallClock,
	}
	return provision.Run(ctx, provision.Stages(cfg, deps))
}
