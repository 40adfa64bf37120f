// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package packaging

type patcher interface {
	PatchValue(interface{}, interface{})
}

func PatchOSReleasePath(p patcher, path string) {
	p.PatchValue(&osReleasePath, path)
}
