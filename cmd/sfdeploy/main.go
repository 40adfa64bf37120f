// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/juju/cmd/v3"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("sfdeploy.cmd")

const (
	exitOK  = 0
	exitErr = 1
)

func main() {
	os.Exit(Main(os.Args))
}

// Main runs the provisioning command and returns the process exit
// code. Every failure, including bad usage, maps to exitErr.
func Main(args []string) (code int) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			buf = buf[:runtime.Stack(buf, false)]
			logger.Criticalf("Unhandled panic: \n%v\n%s", r, buf)
			code = exitErr
		}
	}()

	ctx, err := cmd.DefaultContext()
	if err != nil {
		cmd.WriteError(os.Stderr, err)
		return exitErr
	}
	if len(args) == 0 {
		fmt.Fprintln(ctx.Stderr, "missing program name")
		return exitErr
	}
	if cmd.Main(newProvisionCommand(), ctx, args[1:]) != exitOK {
		return exitErr
	}
	return exitOK
}
