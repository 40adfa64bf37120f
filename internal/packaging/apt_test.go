// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package packaging_test

import (
	"context"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	"go.uber.org/mock/gomock"
	gc "gopkg.in/check.v1"

	"github.com/sessionfiles/sfdeploy/internal/packaging"
	"github.com/sessionfiles/sfdeploy/internal/system"
	"github.com/sessionfiles/sfdeploy/internal/system/mocks"
)

type aptSuite struct {
	testing.IsolationSuite

	runner *mocks.MockRunner
}

var _ = gc.Suite(&aptSuite{})

var aptGet = []any{
	"env", "DEBIAN_FRONTEND=noninteractive",
	"apt-get", "--option=Dpkg::Options::=--force-confold",
	"--option=Dpkg::options::=--force-unsafe-io", "--assume-yes", "--quiet",
}

func aptGetArgs(extra ...any) []any {
	return append(append([]any(nil), aptGet...), extra...)
}

func (s *aptSuite) setupMocks(c *gc.C) *gomock.Controller {
	ctrl := gomock.NewController(c)
	s.runner = mocks.NewMockRunner(ctrl)
	return ctrl
}

func (s *aptSuite) expectStatus(pkg, status string, err error) *gomock.Call {
	return s.runner.EXPECT().Run(gomock.Any(), "dpkg-query", "--show", "--showformat=${db:Status-Status}", pkg).Return(status, err)
}

func (s *aptSuite) TestUpdate(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.runner.EXPECT().Run(gomock.Any(), aptGetArgs("update")...).Return("", nil)
	err := packaging.NewApt(s.runner).Update(context.Background())
	c.Assert(err, jc.ErrorIsNil)
}

func (s *aptSuite) TestUpdateFails(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.runner.EXPECT().Run(gomock.Any(), aptGetArgs("update")...).Return("", &system.CommandError{Command: "apt-get update", Code: 100})
	err := packaging.NewApt(s.runner).Update(context.Background())
	c.Assert(err, gc.ErrorMatches, "updating package index: apt-get update: exit status 100")
}

func (s *aptSuite) TestInstalled(c *gc.C) {
	defer s.setupMocks(c).Finish()

	apt := packaging.NewApt(s.runner)
	s.expectStatus("nginx", "installed", nil)
	s.expectStatus("ufw", "config-files", nil)
	s.expectStatus("nonsense", "", &system.CommandError{Code: 1})

	for pkg, expect := range map[string]bool{"nginx": true, "ufw": false, "nonsense": false} {
		installed, err := apt.Installed(context.Background(), pkg)
		c.Assert(err, jc.ErrorIsNil)
		c.Check(installed, gc.Equals, expect, gc.Commentf("package %s", pkg))
	}
}

func (s *aptSuite) TestInstalledError(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectStatus("nginx", "", errors.New("fork failed"))
	_, err := packaging.NewApt(s.runner).Installed(context.Background(), "nginx")
	c.Assert(err, gc.ErrorMatches, "querying status of nginx: fork failed")
}

func (s *aptSuite) TestInstallOnlyMissing(c *gc.C) {
	defer s.setupMocks(c).Finish()

	gomock.InOrder(
		s.expectStatus("git", "installed", nil),
		s.expectStatus("nginx", "not-installed", nil),
		s.expectStatus("ufw", "", &system.CommandError{Code: 1}),
		s.runner.EXPECT().Run(gomock.Any(), aptGetArgs("install", "nginx", "ufw")...).Return("", nil),
	)
	err := packaging.NewApt(s.runner).Install(context.Background(), "git", "nginx", "ufw")
	c.Assert(err, jc.ErrorIsNil)
}

func (s *aptSuite) TestInstallNothingMissing(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectStatus("git", "installed", nil)
	err := packaging.NewApt(s.runner).Install(context.Background(), "git")
	c.Assert(err, jc.ErrorIsNil)
}

func (s *aptSuite) TestInstallFails(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectStatus("nginx", "", &system.CommandError{Code: 1})
	s.runner.EXPECT().Run(gomock.Any(), aptGetArgs("install", "nginx")...).Return("", errors.New("dpkg was interrupted"))
	err := packaging.NewApt(s.runner).Install(context.Background(), "nginx")
	c.Assert(err, gc.ErrorMatches, "installing packages: dpkg was interrupted")
}
