// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package packaging

import (
	"strings"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
)

// ExpandPackages turns package specs into package names. A spec may
// hold one brace group, so "python3-{pip,dev}" yields "python3-pip"
// and "python3-dev". Duplicates are dropped, first occurrence wins.
func ExpandPackages(specs []string) ([]string, error) {
	seen := set.NewStrings()
	var packages []string
	for _, spec := range specs {
		names, err := expand(spec)
		if err != nil {
			return nil, errors.Trace(err)
		}
		for _, name := range names {
			if seen.Contains(name) {
				continue
			}
			seen.Add(name)
			packages = append(packages, name)
		}
	}
	return packages, nil
}

func expand(spec string) ([]string, error) {
	spec = strings.TrimSpace(spec)
	open := strings.IndexByte(spec, '{')
	closing := strings.IndexByte(spec, '}')
	switch {
	case spec == "":
		return nil, errors.NotValidf("empty package spec")
	case open < 0 && closing < 0:
		if strings.ContainsAny(spec, ", \t") {
			return nil, errors.NotValidf("package spec %q", spec)
		}
		return []string{spec}, nil
	case open < 0 || closing < open:
		return nil, errors.NotValidf("package spec %q (unbalanced braces)", spec)
	}
	prefix, body, suffix := spec[:open], spec[open+1:closing], spec[closing+1:]
	if strings.ContainsAny(body, "{") || strings.ContainsAny(suffix, "{}") {
		return nil, errors.NotValidf("package spec %q (one brace group allowed)", spec)
	}
	var names []string
	for _, alt := range strings.Split(body, ",") {
		alt = strings.TrimSpace(alt)
		if alt == "" {
			return nil, errors.NotValidf("package spec %q (empty alternative)", spec)
		}
		names = append(names, prefix+alt+suffix)
	}
	return names, nil
}
