// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package textedit_test

import (
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/sessionfiles/sfdeploy/internal/textedit"
)

type texteditSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&texteditSuite{})

var contentLength = textedit.Patch{
	Old: `"CONTENT_LENGTH": content_length,`,
	New: `"CONTENT_LENGTH": str(content_length),`,
}

const wsgiSource = `def environ(content_length):
    return {
        "CONTENT_LENGTH": content_length,
        "REQUEST_METHOD": "POST",
    }
`

func writeFile(c *gc.C, content string, perm os.FileMode) string {
	path := filepath.Join(c.MkDir(), "wsgi.py")
	c.Assert(os.WriteFile(path, []byte(content), perm), jc.ErrorIsNil)
	return path
}

func readFile(c *gc.C, path string) string {
	data, err := os.ReadFile(path)
	c.Assert(err, jc.ErrorIsNil)
	return string(data)
}

func (s *texteditSuite) TestPatchFileRewrites(c *gc.C) {
	path := writeFile(c, wsgiSource, 0640)

	outcomes, err := textedit.PatchFile(path, contentLength)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(outcomes, jc.DeepEquals, []textedit.Outcome{textedit.Replaced})
	c.Check(readFile(c, path), gc.Equals, `def environ(content_length):
    return {
        "CONTENT_LENGTH": str(content_length),
        "REQUEST_METHOD": "POST",
    }
`)
	info, err := os.Stat(path)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(info.Mode().Perm(), gc.Equals, os.FileMode(0640))
}

func (s *texteditSuite) TestPatchFileAlreadyApplied(c *gc.C) {
	path := writeFile(c, wsgiSource, 0644)
	_, err := textedit.PatchFile(path, contentLength)
	c.Assert(err, jc.ErrorIsNil)
	patched := readFile(c, path)

	outcomes, err := textedit.PatchFile(path, contentLength)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(outcomes, jc.DeepEquals, []textedit.Outcome{textedit.AlreadyApplied})
	c.Check(readFile(c, path), gc.Equals, patched)
}

func (s *texteditSuite) TestPatchFileMissingPatternLeavesFileUnchanged(c *gc.C) {
	original := "environ = {\"CONTENT_LENGTH\": int(length)}\n"
	path := writeFile(c, original, 0644)

	_, err := textedit.PatchFile(path, contentLength)
	c.Assert(err, jc.ErrorIs, errors.NotFound)
	c.Check(err, gc.ErrorMatches, `patching .*wsgi.py: pattern "\\"CONTENT_LENGTH\\": content_length," not found`)
	c.Check(readFile(c, path), gc.Equals, original)
}

func (s *texteditSuite) TestPatchFileAllOrNothing(c *gc.C) {
	path := writeFile(c, wsgiSource, 0644)

	_, err := textedit.PatchFile(path, contentLength, textedit.Patch{Old: "missing", New: "present"})
	c.Assert(err, jc.ErrorIs, errors.NotFound)
	c.Check(readFile(c, path), gc.Equals, wsgiSource)
}

func (s *texteditSuite) TestPatchFileMissingFile(c *gc.C) {
	_, err := textedit.PatchFile(filepath.Join(c.MkDir(), "nope.py"), contentLength)
	c.Check(err, jc.ErrorIs, os.ErrNotExist)
}

func (s *texteditSuite) TestInsertionIsNotRepeated(c *gc.C) {
	anchor := `"dbname": "sessionfiles"`
	p := textedit.Patch{Old: anchor, New: anchor + ",\n    \"user\": \"bob\""}
	content := "{\n    " + anchor + ",\n    \"host\": \"\"\n}\n"

	once, outcome, err := p.Apply(content)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(outcome, gc.Equals, textedit.Replaced)

	twice, outcome, err := p.Apply(once)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(outcome, gc.Equals, textedit.AlreadyApplied)
	c.Check(twice, gc.Equals, once)
}

func (s *texteditSuite) TestEmptyPattern(c *gc.C) {
	_, _, err := textedit.Patch{New: "x"}.Apply("abc")
	c.Check(err, jc.ErrorIs, errors.NotValid)
}

func (s *texteditSuite) TestLineIndent(c *gc.C) {
	content := "{\n\t  \"dbname\": \"sessionfiles\",\n}"
	indent, ok := textedit.LineIndent(content, `"dbname"`)
	c.Check(ok, jc.IsTrue)
	c.Check(indent, gc.Equals, "\t  ")

	indent, ok = textedit.LineIndent(`"dbname": 1`, `"dbname"`)
	c.Check(ok, jc.IsTrue)
	c.Check(indent, gc.Equals, "")

	_, ok = textedit.LineIndent(content, "missing")
	c.Check(ok, jc.IsFalse)
}
