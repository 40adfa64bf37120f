// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package database_test

import (
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/sessionfiles/sfdeploy/internal/database"
)

type catalogSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&catalogSuite{})

func (s *catalogSuite) TestClassify(c *gc.C) {
	for i, t := range []struct {
		code   string
		expect error
	}{
		{pgerrcode.DuplicateObject, errors.AlreadyExists},
		{pgerrcode.DuplicateDatabase, errors.AlreadyExists},
		{pgerrcode.UndefinedTable, errors.NotFound},
		{pgerrcode.InsufficientPrivilege, errors.Unauthorized},
	} {
		c.Logf("test %d: %s", i, t.code)
		pgErr := &pgconn.PgError{Code: t.code, Message: "boom"}
		err := database.Classify(errors.Annotate(pgErr, "exec"), "CREATE ROLE x")
		c.Check(err, jc.ErrorIs, t.expect)
	}
}

func (s *catalogSuite) TestClassifyPassesThrough(c *gc.C) {
	err := database.Classify(&pgconn.PgError{Code: pgerrcode.SyntaxError, Message: "syntax error"}, "x")
	c.Check(err, gc.ErrorMatches, ".*syntax error.*")
	c.Check(err, gc.Not(jc.ErrorIs), errors.AlreadyExists)

	err = database.Classify(errors.New("connection reset"), "x")
	c.Check(err, gc.ErrorMatches, "connection reset")
}
