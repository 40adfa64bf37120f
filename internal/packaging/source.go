// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package packaging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/utils/v4"
	"gopkg.in/ini.v1"
)

const (
	armorHeader = "-----BEGIN PGP PUBLIC KEY BLOCK-----"
	maxKeySize  = 1 << 20
)

var osReleasePath = "/etc/os-release"

// HTTPClient fetches remote resources.
type HTTPClient interface {
	Get(ctx context.Context, path string) (*http.Response, error)
}

// Source is a signed apt repository.
type Source struct {
	Name       string
	URL        string
	KeyURL     string
	Suite      string
	Component  string
	KeyringDir string
	SourceDir  string
}

// KeyringPath is where the repository's armored signing key is stored.
func (s Source) KeyringPath() string {
	return filepath.Join(s.KeyringDir, s.Name+".asc")
}

// ListPath is the apt source file describing the repository.
func (s Source) ListPath() string {
	return filepath.Join(s.SourceDir, s.Name+".list")
}

// Line renders the one-line apt source entry.
func (s Source) Line() string {
	return fmt.Sprintf("deb [signed-by=%s] %s %s %s\n", s.KeyringPath(), s.URL, s.Suite, s.Component)
}

// ReleaseCodename returns the distribution codename from os-release.
func ReleaseCodename() (string, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, osReleasePath)
	if err != nil {
		return "", errors.Annotatef(err, "reading %s", osReleasePath)
	}
	section := cfg.Section("")
	for _, key := range []string{"VERSION_CODENAME", "UBUNTU_CODENAME"} {
		if codename := strings.TrimSpace(section.Key(key).String()); codename != "" {
			return codename, nil
		}
	}
	return "", errors.NotFoundf("release codename in %s", osReleasePath)
}

// AddSource installs the repository's key and source file. It reports
// whether anything changed; an existing, identical source is left
// alone and no key is downloaded.
func AddSource(ctx context.Context, client HTTPClient, src Source) (bool, error) {
	line := src.Line()
	current, err := os.ReadFile(src.ListPath())
	if err == nil && string(current) == line {
		if _, err := os.Stat(src.KeyringPath()); err == nil {
			logger.Infof("apt source %s already configured", src.Name)
			return false, nil
		}
	} else if err != nil && !os.IsNotExist(err) {
		return false, errors.Trace(err)
	}

	key, err := fetchKey(ctx, client, src.KeyURL)
	if err != nil {
		return false, errors.Annotatef(err, "downloading %s signing key", src.Name)
	}
	for _, dir := range []string{src.KeyringDir, src.SourceDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, errors.Trace(err)
		}
	}
	if err := utils.AtomicWriteFile(src.KeyringPath(), key, 0644); err != nil {
		return false, errors.Annotatef(err, "writing %s", src.KeyringPath())
	}
	if err := utils.AtomicWriteFile(src.ListPath(), []byte(line), 0644); err != nil {
		return false, errors.Annotatef(err, "writing %s", src.ListPath())
	}
	logger.Infof("added apt source %s", src.Name)
	return true, nil
}

func fetchKey(ctx context.Context, client HTTPClient, url string) ([]byte, error) {
	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("GET %s: %s", url, resp.Status)
	}
	key, err := io.ReadAll(io.LimitReader(resp.Body, maxKeySize))
	if err != nil {
		return nil, errors.Trace(err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(key), []byte(armorHeader)) {
		return nil, errors.NotValidf("key from %s (not an armored public key)", url)
	}
	return key, nil
}
