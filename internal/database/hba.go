// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package database

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/juju/errors"
	"github.com/juju/utils/v4"
)

const hbaFileName = "pg_hba.conf"

// FindHBAFile looks below root for the client authentication file.
// Clusters live under <root>/<version>/<name>; when several are
// installed the one with the highest numeric version is used.
func FindHBAFile(root string) (string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == hbaFileName {
			found = append(found, path)
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return "", errors.Annotatef(err, "searching %s", root)
	}
	if len(found) == 0 {
		return "", errors.NotFoundf("%s under %s", hbaFileName, root)
	}
	sort.SliceStable(found, func(i, j int) bool {
		return versionLess(clusterVersion(root, found[i]), clusterVersion(root, found[j]))
	})
	if len(found) > 1 {
		logger.Warningf("found %d %s files, using %s", len(found), hbaFileName, found[len(found)-1])
	}
	return found[len(found)-1], nil
}

// clusterVersion parses the first directory below root, "9.6" or "16",
// into its numeric parts. Names that are not versions give nil.
func clusterVersion(root, path string) []int {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return nil
	}
	dir, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	var parts []int
	for _, p := range strings.Split(dir, ".") {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil
		}
		parts = append(parts, n)
	}
	return parts
}

func versionLess(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// TrustLocalConnections switches "local" entries authenticated with
// peer to trust. It reports whether the file changed. A file with no
// local peer or trust entries is a NotFound error and is not touched.
func TrustLocalConnections(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, errors.Trace(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, errors.Trace(err)
	}

	lines := strings.SplitAfter(string(data), "\n")
	changed, trusted := false, false
	for i, line := range lines {
		fields := strings.Fields(line)
		// local DATABASE USER METHOD [OPTIONS]
		if len(fields) < 4 || fields[0] != "local" {
			continue
		}
		switch fields[3] {
		case "trust":
			trusted = true
		case "peer":
			lines[i] = replaceField(line, 3, "trust")
			changed = true
		}
	}
	if !changed {
		if trusted {
			logger.Infof("%s already trusts local connections", path)
			return false, nil
		}
		return false, errors.NotFoundf("local peer authentication pattern in %s", path)
	}

	content := []byte(strings.Join(lines, ""))
	err = utils.AtomicWriteFileAndChange(path, content, func(name string) error {
		if err := os.Chmod(name, info.Mode().Perm()); err != nil {
			return err
		}
		if st, ok := info.Sys().(*syscall.Stat_t); ok {
			return os.Chown(name, int(st.Uid), int(st.Gid))
		}
		return nil
	})
	if err != nil {
		return false, errors.Annotatef(err, "writing %s", path)
	}
	return true, nil
}

// replaceField swaps the n-th whitespace separated field of line for
// value, keeping the surrounding spacing.
func replaceField(line string, n int, value string) string {
	start, field := -1, 0
	for i := 0; i <= len(line); i++ {
		space := i == len(line) || strings.IndexByte(" \t\r\n", line[i]) >= 0
		switch {
		case !space && start < 0:
			start = i
		case space && start >= 0:
			if field == n {
				return line[:start] + value + line[i:]
			}
			field++
			start = -1
		}
	}
	return line
}
