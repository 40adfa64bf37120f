// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package domaincheck

import "context"

type patcher interface {
	PatchValue(interface{}, interface{})
}

func PatchLookupHost(p patcher, f func(context.Context, string) ([]string, error)) {
	p.PatchValue(&netLookupHost, f)
}
