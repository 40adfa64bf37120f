// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package database

import "time"

type patcher interface {
	PatchValue(interface{}, interface{})
}

func PatchReadyWait(p patcher, attempts int, delay time.Duration) {
	p.PatchValue(&readyAttempts, attempts)
	p.PatchValue(&readyDelay, delay)
}

var Classify = classify
