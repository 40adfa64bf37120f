// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package logging

import (
	"github.com/coreos/go-systemd/v22/journal"
)

type patcher interface {
	PatchValue(interface{}, interface{})
}

func PatchJournal(p patcher, enabled bool, send func(string, journal.Priority, map[string]string) error) {
	p.PatchValue(&journalEnabled, func() bool { return enabled })
	p.PatchValue(&journalSend, send)
}
