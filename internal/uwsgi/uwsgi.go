// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package uwsgi installs the application as a uWSGI emperor vassal.
package uwsgi

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"text/template"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/utils/v4"

	"github.com/sessionfiles/sfdeploy/internal/config"
	"github.com/sessionfiles/sfdeploy/internal/service"
)

var logger = loggo.GetLogger("sfdeploy.uwsgi")

var vassalT = template.Must(template.New("vassal").Option("missingkey=error").Parse(`
[uwsgi]
plugins = {{.Plugin}}
chdir = {{.AppDir}}
virtualenv = {{.VenvDir}}
module = {{.Module}}
master = true
processes = {{.Processes}}
socket = {{.Socket}}
chmod-socket = 660
uid = {{.User}}
gid = {{.Group}}
vacuum = true
die-on-term = true
`[1:]))

type vassal struct {
	Plugin    string
	AppDir    string
	VenvDir   string
	Module    string
	Processes int
	Socket    string
	User      string
	Group     string
}

// VassalPath is where the vassal file for cfg is written.
func VassalPath(cfg config.Config) string {
	return filepath.Join(cfg.UWSGI.VassalDir, cfg.AppName+".ini")
}

// Render returns the vassal ini file for cfg.
func Render(cfg config.Config) (string, error) {
	var buf bytes.Buffer
	err := vassalT.Execute(&buf, vassal{
		Plugin:    cfg.UWSGI.Plugin,
		AppDir:    cfg.AppDir(),
		VenvDir:   cfg.VenvDir(),
		Module:    cfg.UWSGI.Module,
		Processes: cfg.UWSGI.Processes,
		Socket:    cfg.SocketPath(),
		User:      cfg.Operator,
		Group:     cfg.UWSGI.Group,
	})
	return buf.String(), errors.Trace(err)
}

// Configurer writes the vassal and (re)starts the emperor.
type Configurer struct {
	cfg      config.Config
	services service.Manager
}

// NewConfigurer returns a Configurer for cfg.
func NewConfigurer(cfg config.Config, services service.Manager) *Configurer {
	return &Configurer{cfg: cfg, services: services}
}

// Run is the process manager stage. The vassal file is always
// rewritten.
func (c *Configurer) Run(ctx context.Context) error {
	content, err := Render(c.cfg)
	if err != nil {
		return errors.Trace(err)
	}
	if err := os.MkdirAll(c.cfg.UWSGI.VassalDir, 0755); err != nil {
		return errors.Trace(err)
	}
	path := VassalPath(c.cfg)
	if err := utils.AtomicWriteFile(path, []byte(content), 0644); err != nil {
		return errors.Annotatef(err, "writing %s", path)
	}
	logger.Infof("wrote vassal %s", path)

	unit := c.cfg.UWSGI.Unit
	if err := c.services.Enable(ctx, unit); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(c.services.Restart(ctx, unit))
}
