// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package system

import (
	"os"
	"os/user"
	"regexp"
	"strconv"

	"github.com/juju/errors"
)

var (
	getEUID    = os.Geteuid
	getenv     = os.Getenv
	lookupUser = user.Lookup
	lookupGrp  = user.LookupGroup
)

// Same rules as useradd's default NAME_REGEX.
var validUserName = regexp.MustCompile(`^[a-z_][a-z0-9_-]*[$]?$`)

// ValidUserName reports whether name is safe to use as a login name,
// a database role and inside generated configuration files.
func ValidUserName(name string) bool {
	return len(name) <= 32 && validUserName.MatchString(name)
}

// IsRoot reports whether the process runs with an effective uid of 0.
func IsRoot() bool {
	return getEUID() == 0
}

// InvokingUser returns the name of the unprivileged user that started
// the process through sudo or a login shell.
func InvokingUser() (string, error) {
	for _, key := range []string{"SUDO_USER", "LOGNAME"} {
		name := getenv(key)
		if name == "" || name == "root" {
			continue
		}
		if !ValidUserName(name) {
			return "", errors.NotValidf("%s user name %q", key, name)
		}
		return name, nil
	}
	return "", errors.NotFoundf("invoking non-root user (run through sudo)")
}

// Account holds the identifiers of a local user.
type Account struct {
	Name string
	UID  int
	GID  int
	Home string
}

// LookupAccount returns the account of the named local user.
func LookupAccount(name string) (Account, error) {
	u, err := lookupUser(name)
	if err != nil {
		return Account{}, errors.Annotatef(err, "looking up user %q", name)
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return Account{}, errors.Annotatef(err, "uid of %q", name)
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return Account{}, errors.Annotatef(err, "gid of %q", name)
	}
	return Account{Name: name, UID: uid, GID: gid, Home: u.HomeDir}, nil
}

// LookupGroupID returns the numeric id of the named local group.
func LookupGroupID(name string) (int, error) {
	g, err := lookupGrp(name)
	if err != nil {
		return 0, errors.Annotatef(err, "looking up group %q", name)
	}
	gid, err := strconv.Atoi(g.Gid)
	return gid, errors.Annotatef(err, "gid of %q", name)
}
