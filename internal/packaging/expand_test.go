// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package packaging_test

import (
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/sessionfiles/sfdeploy/internal/packaging"
)

type expandSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&expandSuite{})

func (s *expandSuite) TestExpandPackages(c *gc.C) {
	packages, err := packaging.ExpandPackages([]string{
		"git",
		"python3-{pip, venv,dev}",
		"lib{pq}-dev",
		"python3-pip",
		"uwsgi-plugin-{python3}",
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(packages, jc.DeepEquals, []string{
		"git",
		"python3-pip",
		"python3-venv",
		"python3-dev",
		"libpq-dev",
		"uwsgi-plugin-python3",
	})
}

func (s *expandSuite) TestExpandPackagesMalformed(c *gc.C) {
	for i, spec := range []string{
		"",
		"python3-{pip",
		"python3-}pip{",
		"python3-pip}",
		"python3-{pip,}",
		"{a,b}-{c,d}",
		"nginx ufw",
	} {
		c.Logf("test %d: %q", i, spec)
		_, err := packaging.ExpandPackages([]string{"git", spec})
		c.Check(err, jc.ErrorIs, errors.NotValid)
	}
}
