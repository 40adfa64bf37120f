// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package service restarts and enables systemd units over D-Bus.
package service

import (
	"context"

	"github.com/coreos/go-systemd/v22/dbus"
	"github.com/juju/errors"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("sfdeploy.service")

// Manager controls system services.
type Manager interface {
	// Restart restarts the unit, starting it if it was stopped, and
	// waits for the job to finish.
	Restart(ctx context.Context, unit string) error

	// Enable makes the unit start at boot.
	Enable(ctx context.Context, unit string) error
}

// DBusAPI is the part of the systemd D-Bus connection used here.
type DBusAPI interface {
	Close()
	RestartUnitContext(ctx context.Context, name string, mode string, ch chan<- string) (int, error)
	EnableUnitFilesContext(ctx context.Context, files []string, runtime bool, force bool) (bool, []dbus.EnableUnitFileChange, error)
	ReloadContext(ctx context.Context) error
}

// DBusAPIFactory opens a new D-Bus connection.
type DBusAPIFactory = func(ctx context.Context) (DBusAPI, error)

// NewDBusAPI connects to the system bus.
var NewDBusAPI DBusAPIFactory = func(ctx context.Context) (DBusAPI, error) {
	return dbus.NewWithContext(ctx)
}

// Systemd is a Manager backed by systemd.
type Systemd struct {
	newDBus DBusAPIFactory
}

// NewSystemd returns a Manager that opens a connection through newDBus
// for each request.
func NewSystemd(newDBus DBusAPIFactory) *Systemd {
	return &Systemd{newDBus: newDBus}
}

// Restart is part of the Manager interface.
func (s *Systemd) Restart(ctx context.Context, unit string) error {
	conn, err := s.newDBus(ctx)
	if err != nil {
		return errorf(err, unit, "dbus connection failed")
	}
	defer conn.Close()

	statusCh := make(chan string, 1)
	if _, err := conn.RestartUnitContext(ctx, unit, "replace", statusCh); err != nil {
		return errorf(err, unit, "dbus restart request failed")
	}
	select {
	case status := <-statusCh:
		if status != "done" {
			return errorf(nil, unit, "failed to restart (job result %q)", status)
		}
	case <-ctx.Done():
		return errorf(ctx.Err(), unit, "waiting for restart")
	}
	logger.Infof("restarted %s", unit)
	return nil
}

// Enable is part of the Manager interface.
func (s *Systemd) Enable(ctx context.Context, unit string) error {
	conn, err := s.newDBus(ctx)
	if err != nil {
		return errorf(err, unit, "dbus connection failed")
	}
	defer conn.Close()

	const runtime, force = false, true
	if _, _, err := conn.EnableUnitFilesContext(ctx, []string{unit}, runtime, force); err != nil {
		return errorf(err, unit, "dbus enable request failed")
	}
	if err := conn.ReloadContext(ctx); err != nil {
		return errorf(err, unit, "dbus post-enable daemon reload request failed")
	}
	logger.Infof("enabled %s", unit)
	return nil
}

func errorf(err error, unit, msg string, args ...interface{}) error {
	msg += " for unit %q"
	args = append(args, unit)
	if err == nil {
		err = errors.Errorf(msg, args...)
	} else {
		err = errors.Annotatef(err, msg, args...)
	}
	err.(*errors.Err).SetLocation(1)
	logger.Debugf("stack trace:\n%s", errors.ErrorStack(err))
	return err
}
