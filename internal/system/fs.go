// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package system

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/juju/errors"
)

var lchown = os.Lchown

// ChownTree changes the owner of root and everything below it. Symlinks
// are not followed.
func ChownTree(root string, uid, gid int) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		return lchown(path, uid, gid)
	})
	return errors.Annotatef(err, "changing owner of %s", root)
}

// AddMode ORs bits into the permission bits of path. The setuid, setgid
// and sticky bits are kept.
func AddMode(path string, bits os.FileMode) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Trace(err)
	}
	mode := info.Mode() & (os.ModePerm | os.ModeSetuid | os.ModeSetgid | os.ModeSticky)
	if mode&bits == bits {
		return nil
	}
	return errors.Trace(os.Chmod(path, mode|bits))
}

// Exists reports whether path exists. Errors other than "not exist"
// are returned.
func Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Trace(err)
}
