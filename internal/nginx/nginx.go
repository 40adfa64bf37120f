// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package nginx publishes the application through nginx.
package nginx

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/utils/v4"

	"github.com/sessionfiles/sfdeploy/internal/config"
	"github.com/sessionfiles/sfdeploy/internal/service"
	"github.com/sessionfiles/sfdeploy/internal/system"
)

var logger = loggo.GetLogger("sfdeploy.nginx")

var (
	lookupAccount = system.LookupAccount
	lookupGroupID = system.LookupGroupID
	chownTree     = system.ChownTree
	addMode       = system.AddMode
)

// domainCheckTimeout bounds the advisory domain check.
var domainCheckTimeout = 15 * time.Second

var siteT = template.Must(template.New("site").Option("missingkey=error").Parse(`
server {
    listen 80;
    listen [::]:80;
    server_name {{.Domain}};

    client_max_body_size 100M;

    location / {
        include uwsgi_params;
        uwsgi_pass unix:{{.Socket}};
    }
}
`[1:]))

// DomainChecker reports whether a domain points at this machine.
type DomainChecker interface {
	Check(ctx context.Context, domain string) (string, error)
}

// SitePath is the site file in sites-available.
func SitePath(cfg config.Config) string {
	return filepath.Join(cfg.Nginx.SitesAvailable, cfg.AppName)
}

// LinkPath is the symlink in sites-enabled.
func LinkPath(cfg config.Config) string {
	return filepath.Join(cfg.Nginx.SitesEnabled, cfg.AppName)
}

// Render returns the site file for cfg.
func Render(cfg config.Config) (string, error) {
	var buf bytes.Buffer
	err := siteT.Execute(&buf, struct {
		Domain string
		Socket string
	}{
		Domain: cfg.Domain,
		Socket: cfg.SocketPath(),
	})
	return buf.String(), errors.Trace(err)
}

// Configurer installs the site, restarts the services and opens the
// firewall.
type Configurer struct {
	cfg      config.Config
	runner   system.Runner
	services service.Manager
	checker  DomainChecker
}

// NewConfigurer returns a Configurer for cfg.
func NewConfigurer(cfg config.Config, runner system.Runner, services service.Manager, checker DomainChecker) *Configurer {
	return &Configurer{
		cfg:      cfg,
		runner:   runner,
		services: services,
		checker:  checker,
	}
}

// Run is the reverse proxy stage.
func (c *Configurer) Run(ctx context.Context) error {
	c.checkDomain(ctx)

	if err := c.writeSite(); err != nil {
		return errors.Trace(err)
	}
	if err := EnableSite(SitePath(c.cfg), LinkPath(c.cfg)); err != nil {
		return errors.Trace(err)
	}
	if _, err := c.runner.Run(ctx, "nginx", "-t"); err != nil {
		return errors.Annotate(err, "testing nginx configuration")
	}
	if err := c.services.Restart(ctx, c.cfg.Nginx.Unit); err != nil {
		return errors.Trace(err)
	}
	if err := c.fixPermissions(); err != nil {
		return errors.Trace(err)
	}
	if err := c.services.Restart(ctx, c.cfg.UWSGI.Unit); err != nil {
		return errors.Trace(err)
	}
	_, err := c.runner.Run(ctx, "ufw", "allow", c.cfg.Nginx.FirewallRule)
	return errors.Annotatef(err, "opening firewall for %q", c.cfg.Nginx.FirewallRule)
}

// checkDomain only logs; a domain that does not point here yet must not
// stop provisioning.
func (c *Configurer) checkDomain(ctx context.Context) {
	if c.checker == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, domainCheckTimeout)
	defer cancel()
	ip, err := c.checker.Check(ctx, c.cfg.Domain)
	if err != nil {
		logger.Warningf("domain check for %s failed: %v", c.cfg.Domain, err)
		return
	}
	logger.Infof("%s points at this machine (%s)", c.cfg.Domain, ip)
}

func (c *Configurer) writeSite() error {
	content, err := Render(c.cfg)
	if err != nil {
		return errors.Trace(err)
	}
	path := SitePath(c.cfg)
	if err := utils.AtomicWriteFile(path, []byte(content), 0644); err != nil {
		return errors.Annotatef(err, "writing %s", path)
	}
	logger.Infof("wrote site %s", path)
	return nil
}

// EnableSite links target from link. A link already pointing at target
// is kept; anything else at link is an AlreadyExists error.
func EnableSite(target, link string) error {
	info, err := os.Lstat(link)
	switch {
	case os.IsNotExist(err):
		return errors.Trace(os.Symlink(target, link))
	case err != nil:
		return errors.Trace(err)
	case info.Mode()&os.ModeSymlink == 0:
		return errors.AlreadyExistsf("%s (not a symlink)", link)
	}
	current, err := os.Readlink(link)
	if err != nil {
		return errors.Trace(err)
	}
	if current != target {
		return errors.AlreadyExistsf("%s (links to %s)", link, current)
	}
	logger.Debugf("%s already enabled", link)
	return nil
}

// fixPermissions lets the web server group read the application and
// reach it through the operator's home directory.
func (c *Configurer) fixPermissions() error {
	account, err := lookupAccount(c.cfg.Operator)
	if err != nil {
		return errors.Trace(err)
	}
	gid, err := lookupGroupID(c.cfg.Nginx.Group)
	if err != nil {
		return errors.Trace(err)
	}
	appDir := c.cfg.AppDir()
	if err := chownTree(appDir, account.UID, gid); err != nil {
		return errors.Trace(err)
	}
	if err := addMode(appDir, 0050); err != nil {
		return errors.Annotatef(err, "making %s group readable", appDir)
	}
	return errors.Annotatef(addMode(c.cfg.OperatorHome, 0001), "making %s traversable", c.cfg.OperatorHome)
}
