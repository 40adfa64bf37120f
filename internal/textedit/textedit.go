// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package textedit applies verified literal edits to text files.
package textedit

import (
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/utils/v4"
)

// Outcome records what applying a patch did.
type Outcome int

const (
	// Replaced means the old text was found and rewritten.
	Replaced Outcome = iota
	// AlreadyApplied means only the new text was found.
	AlreadyApplied
)

func (o Outcome) String() string {
	switch o {
	case Replaced:
		return "replaced"
	case AlreadyApplied:
		return "already applied"
	}
	return "unknown"
}

// Patch replaces every occurrence of Old with New.
type Patch struct {
	Old string
	New string
}

// Apply returns content with the patch applied. When neither the old
// nor the new text is present a NotFound error is returned.
func (p Patch) Apply(content string) (string, Outcome, error) {
	if p.Old == "" {
		return "", 0, errors.NotValidf("empty pattern")
	}
	// An insertion keeps the old text, so look for the result first.
	if strings.Contains(p.New, p.Old) && strings.Contains(content, p.New) {
		return content, AlreadyApplied, nil
	}
	if strings.Contains(content, p.Old) {
		return strings.ReplaceAll(content, p.Old, p.New), Replaced, nil
	}
	if strings.Contains(content, p.New) {
		return content, AlreadyApplied, nil
	}
	return "", 0, errors.NotFoundf("pattern %q", p.Old)
}

// PatchFile applies patches to the file at path in order. The file is
// rewritten only if every patch matched and something changed; on
// error it is left untouched.
func PatchFile(path string, patches ...Patch) ([]Outcome, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	content := string(data)
	outcomes := make([]Outcome, len(patches))
	changed := false
	for i, p := range patches {
		var err error
		content, outcomes[i], err = p.Apply(content)
		if err != nil {
			return nil, errors.Annotatef(err, "patching %s", path)
		}
		changed = changed || outcomes[i] == Replaced
	}
	if !changed {
		return outcomes, nil
	}
	if err := utils.AtomicWriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return nil, errors.Annotatef(err, "writing %s", path)
	}
	return outcomes, nil
}

// LineIndent returns the leading whitespace of the first line
// containing literal.
func LineIndent(content, literal string) (string, bool) {
	idx := strings.Index(content, literal)
	if idx < 0 {
		return "", false
	}
	start := strings.LastIndexByte(content[:idx], '\n') + 1
	line := content[start:idx]
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))], true
}
