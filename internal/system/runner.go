// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package system

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/utils/v4/exec"
	"github.com/kballard/go-shellquote"
)

var logger = loggo.GetLogger("sfdeploy.system")

// Runner runs commands on the local machine.
type Runner interface {
	// Run executes the command made of args and returns its standard
	// output. A non-zero exit status is returned as a *CommandError.
	Run(ctx context.Context, args ...string) (string, error)

	// RunAs is like Run but executes the command as the given user.
	RunAs(ctx context.Context, user string, args ...string) (string, error)
}

// CommandError describes a command that ran but exited unsuccessfully.
type CommandError struct {
	Command string
	Code    int
	Stderr  string
}

// Error is part of the error interface.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: exit status %d", e.Command, e.Code)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// ExitCode returns the exit status carried by err, if err (or
// anything it wraps) is a *CommandError.
func ExitCode(err error) (int, bool) {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code, true
	}
	return 0, false
}

// runCommands is the overloading point used by tests to check what
// *would* be run without executing another program.
var runCommands = func(ctx context.Context, params exec.RunParams) (*exec.ExecResponse, error) {
	if err := params.Run(); err != nil {
		return nil, errors.Trace(err)
	}
	return params.WaitWithCancel(ctx.Done())
}

type runner struct {
	env []string
}

// NewRunner returns a Runner that executes commands with the current
// process environment extended by env.
func NewRunner(env ...string) Runner {
	return &runner{env: env}
}

// Run is part of the Runner interface.
func (r *runner) Run(ctx context.Context, args ...string) (string, error) {
	if len(args) == 0 {
		return "", errors.NotValidf("empty command")
	}
	display := shellquote.Join(args...)
	logger.Debugf("running: %s", display)

	params := exec.RunParams{
		Commands:    display,
		Environment: append(os.Environ(), r.env...),
	}
	resp, err := runCommands(ctx, params)
	if err != nil {
		return "", errors.Annotatef(err, "running %s", display)
	}
	stdout := string(resp.Stdout)
	if resp.Code != 0 {
		return stdout, &CommandError{
			Command: display,
			Code:    resp.Code,
			Stderr:  strings.TrimSpace(string(resp.Stderr)),
		}
	}
	logger.Tracef("%s: %s", args[0], stdout)
	return stdout, nil
}

// RunAs is part of the Runner interface.
func (r *runner) RunAs(ctx context.Context, user string, args ...string) (string, error) {
	if !ValidUserName(user) {
		return "", errors.NotValidf("user name %q", user)
	}
	return r.Run(ctx, append([]string{"runuser", "-u", user, "--"}, args...)...)
}
