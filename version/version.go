// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package version holds the release number of sfdeploy.
package version

import (
	semversion "github.com/juju/version/v2"
)

// The presence and format of this constant is very important.
// The build tooling reads it to tag releases.
const version = "1.2.0"

// Current gives the current version of sfdeploy.
var Current = semversion.MustParse(version)
