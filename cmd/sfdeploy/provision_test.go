// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"context"

	"github.com/juju/cmd/v3"
	"github.com/juju/cmd/v3/cmdtesting"
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/sessionfiles/sfdeploy/internal/config"
	"github.com/sessionfiles/sfdeploy/internal/system"
)

type provisionCommandSuite struct {
	testing.IsolationSuite

	calls   []string
	config  config.Config
	failure error
}

var _ = gc.Suite(&provisionCommandSuite{})

func (s *provisionCommandSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.calls = nil
	s.config = config.Config{}
	s.failure = nil
	s.AddCleanup(func(*gc.C) { loggo.ResetLogging() })
}

func (s *provisionCommandSuite) newCommand(root bool) *provisionCommand {
	return &provisionCommand{
		checkPermissions: func() (string, error) {
			s.calls = append(s.calls, "permissions")
			if !root {
				return "", errors.Unauthorizedf("this command must be run as root")
			}
			return "alice", nil
		},
		lookupAccount: func(name string) (system.Account, error) {
			s.calls = append(s.calls, "account "+name)
			return system.Account{Name: name, UID: 1000, GID: 1000, Home: "/home/" + name}, nil
		},
		startLogging: func(path string) (func(), error) {
			s.calls = append(s.calls, "logging "+path)
			return func() { s.calls = append(s.calls, "stop logging") }, nil
		},
		provision: func(_ context.Context, cfg config.Config) error {
			s.calls = append(s.calls, "provision")
			s.config = cfg
			return s.failure
		},
	}
}

func (s *provisionCommandSuite) TestInitMissingDomain(c *gc.C) {
	err := cmdtesting.InitCommand(s.newCommand(true), nil)
	c.Assert(err, gc.ErrorMatches, "missing --domain")
}

func (s *provisionCommandSuite) TestInitInvalidDomain(c *gc.C) {
	err := cmdtesting.InitCommand(s.newCommand(true), []string{"--domain", "not a domain"})
	c.Assert(err, jc.ErrorIs, errors.NotValid)
}

func (s *provisionCommandSuite) TestInitUnknownArgument(c *gc.C) {
	err := cmdtesting.InitCommand(s.newCommand(true), []string{"-d", "files.example.com", "extra"})
	c.Assert(err, gc.ErrorMatches, `unknown argument "extra"`)
}

func (s *provisionCommandSuite) TestInitShortAndLongFlags(c *gc.C) {
	for _, flag := range []string{"-d", "--domain"} {
		command := s.newCommand(true)
		err := cmdtesting.InitCommand(command, []string{flag, "files.example.com"})
		c.Assert(err, jc.ErrorIsNil)
		c.Check(command.domain, gc.Equals, "files.example.com")
	}
}

func (s *provisionCommandSuite) TestRunNotRoot(c *gc.C) {
	ctx, err := cmdtesting.RunCommand(c, s.newCommand(false), "--domain", "files.example.com")
	c.Assert(err, gc.Equals, cmd.ErrSilent)
	c.Check(cmdtesting.Stderr(ctx), jc.Contains, "this command must be run as root")
	c.Check(s.calls, jc.DeepEquals, []string{"permissions"})
}

func (s *provisionCommandSuite) TestRunSuccess(c *gc.C) {
	ctx, err := cmdtesting.RunCommand(c, s.newCommand(true), "-d", "files.example.com")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(s.calls, jc.DeepEquals, []string{
		"permissions",
		"account alice",
		"logging /var/log/sfdeploy.log",
		"provision",
		"stop logging",
	})
	c.Check(s.config.Domain, gc.Equals, "files.example.com")
	c.Check(s.config.Operator, gc.Equals, "alice")
	c.Check(s.config.OperatorHome, gc.Equals, "/home/alice")
	c.Check(cmdtesting.Stderr(ctx), jc.Contains, "http://files.example.com/")
}

func (s *provisionCommandSuite) TestRunFailureIsLoggedBeforeLoggingStops(c *gc.C) {
	s.failure = errors.New(`provision database: database role "alice" already exists`)
	ctx, err := cmdtesting.RunCommand(c, s.newCommand(true), "-d", "files.example.com")
	c.Assert(err, gc.Equals, cmd.ErrSilent)
	c.Check(cmdtesting.Stderr(ctx), jc.Contains, `ERROR   provision database: database role "alice" already exists`)
	c.Check(s.calls[len(s.calls)-1], gc.Equals, "stop logging")
}

func (s *provisionCommandSuite) TestRunLoggingFailure(c *gc.C) {
	command := s.newCommand(true)
	command.startLogging = func(path string) (func(), error) {
		return nil, errors.Errorf("opening log file %s: permission denied", path)
	}
	ctx, err := cmdtesting.RunCommand(c, command, "-d", "files.example.com")
	c.Assert(err, gc.Equals, cmd.ErrSilent)
	c.Check(cmdtesting.Stderr(ctx), jc.Contains, "opening log file /var/log/sfdeploy.log")
	c.Check(s.calls, jc.DeepEquals, []string{"permissions", "account alice"})
}

type mainSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&mainSuite{})

func (s *mainSuite) TestUsageErrorsExitOne(c *gc.C) {
	c.Check(Main([]string{"sfdeploy"}), gc.Equals, exitErr)
	c.Check(Main([]string{"sfdeploy", "--domain", "bad_domain!"}), gc.Equals, exitErr)
	c.Check(Main([]string{"sfdeploy", "--bogus"}), gc.Equals, exitErr)
}

func (s *mainSuite) TestHelpExitsZero(c *gc.C) {
	c.Check(Main([]string{"sfdeploy", "--help"}), gc.Equals, exitOK)
}
