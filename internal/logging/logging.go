// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package logging wires loggo to the terminal, a log file and the
// systemd journal.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/lumberjack/v2"
)

const (
	// DefaultConfig is used when no logging configuration is supplied.
	DefaultConfig = "<root>=INFO"

	fileWriterName    = "file"
	journalWriterName = "journal"
	timeLayout        = "2006-01-02 15:04:05"
)

var (
	journalEnabled = journal.Enabled
	journalSend    = journal.Send
)

// FileFormatter renders entries as "[timestamp] [LEVEL] message".
func FileFormatter(entry loggo.Entry) string {
	return fmt.Sprintf("[%s] [%s] %s", entry.Timestamp.Format(timeLayout), entry.Level, entry.Message)
}

// TerminalFormatter renders entries as "LEVEL message".
func TerminalFormatter(entry loggo.Entry) string {
	return fmt.Sprintf("%-7s %s", entry.Level, entry.Message)
}

// SetupTerminal sends log output to w and applies the loggo
// configuration string spec, or DefaultConfig when spec is empty.
func SetupTerminal(w io.Writer, spec string) error {
	// The default writer may already be gone, after loggo.ResetLogging.
	_, _ = loggo.RemoveWriter(loggo.DefaultWriterName)
	if err := loggo.RegisterWriter(loggo.DefaultWriterName, loggo.NewSimpleWriter(w, TerminalFormatter)); err != nil {
		return errors.Trace(err)
	}
	if strings.TrimSpace(spec) == "" {
		spec = DefaultConfig
	}
	return errors.Annotatef(loggo.ConfigureLoggers(spec), "configuring loggers %q", spec)
}

// Start adds the log file at path and, when available, the systemd
// journal as log destinations. The returned function removes them again.
// Failing to open the log file is an error; later write failures are
// ignored by the writers.
func Start(path, identifier string) (func(), error) {
	if err := primeLogFile(path); err != nil {
		return nil, errors.Annotatef(err, "opening log file %s", path)
	}
	ljLogger := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50,
		MaxBackups: 2,
		Compress:   true,
	}
	if err := loggo.RegisterWriter(fileWriterName, loggo.NewSimpleWriter(ljLogger, FileFormatter)); err != nil {
		_ = ljLogger.Close()
		return nil, errors.Trace(err)
	}
	journaling := false
	if journalEnabled() {
		if err := loggo.RegisterWriter(journalWriterName, &journalWriter{identifier: identifier}); err != nil {
			_, _ = loggo.RemoveWriter(fileWriterName)
			_ = ljLogger.Close()
			return nil, errors.Trace(err)
		}
		journaling = true
	}
	return func() {
		_, _ = loggo.RemoveWriter(fileWriterName)
		if journaling {
			_, _ = loggo.RemoveWriter(journalWriterName)
		}
		_ = ljLogger.Close()
	}, nil
}

// primeLogFile makes sure the log file exists and is only readable by
// its owner before anything is written to it.
func primeLogFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return errors.Trace(err)
	}
	if err := f.Close(); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(os.Chmod(path, 0600))
}

type journalWriter struct {
	identifier string
}

// Write is part of the loggo.Writer interface.
func (w *journalWriter) Write(entry loggo.Entry) {
	vars := map[string]string{
		"SYSLOG_IDENTIFIER": w.identifier,
		"CODE_FILE":         entry.Filename,
		"CODE_LINE":         fmt.Sprint(entry.Line),
		"LOGGER":            entry.Module,
	}
	// A journal that went away must not stop provisioning.
	_ = journalSend(entry.Message, priority(entry.Level), vars)
}

func priority(level loggo.Level) journal.Priority {
	switch level {
	case loggo.CRITICAL:
		return journal.PriCrit
	case loggo.ERROR:
		return journal.PriErr
	case loggo.WARNING:
		return journal.PriWarning
	case loggo.INFO:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}
