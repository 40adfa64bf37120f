// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package application

import "github.com/sessionfiles/sfdeploy/internal/system"

type patcher interface {
	PatchValue(interface{}, interface{})
}

func PatchOwnership(p patcher, lookup func(string) (system.Account, error), chown func(string, int, int) error) {
	p.PatchValue(&lookupAccount, lookup)
	p.PatchValue(&chownTree, chown)
}
