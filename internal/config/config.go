// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package config holds the immutable settings shared by every
// provisioning stage.
package config

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"

	"github.com/sessionfiles/sfdeploy/internal/system"
)

const (
	// ConfigFileEnvKey names an optional YAML file whose values
	// override the compiled defaults.
	ConfigFileEnvKey = "SFDEPLOY_CONFIG"

	// LoggingConfigEnvKey holds a loggo configuration string that
	// replaces the default "<root>=INFO".
	LoggingConfigEnvKey = "SFDEPLOY_LOGGING_CONFIG"
)

// Config is built once at startup and passed by value to each stage.
type Config struct {
	// Domain is the public name the site is served under.
	Domain string `yaml:"-"`
	// Operator is the unprivileged user that owns the application.
	Operator string `yaml:"-"`
	// OperatorHome is the home directory of Operator.
	OperatorHome string `yaml:"-"`

	LogFile     string `yaml:"log-file"`
	AppName     string `yaml:"app-name"`
	RepoURL     string `yaml:"repo-url"`
	PublicIPURL string `yaml:"public-ip-url"`

	Database Database `yaml:"database"`
	Packages Packages `yaml:"packages"`
	App      App      `yaml:"app"`
	UWSGI    UWSGI    `yaml:"uwsgi"`
	Nginx    Nginx    `yaml:"nginx"`
}

// Database describes the PostgreSQL server and the objects created in it.
type Database struct {
	Name        string `yaml:"name"`
	Superuser   string `yaml:"superuser"`
	SocketDir   string `yaml:"socket-dir"`
	HBASearch   string `yaml:"hba-search-root"`
	Unit        string `yaml:"unit"`
	SchemaFile  string `yaml:"schema-file"`
	MarkerTable string `yaml:"marker-table"`
}

// Packages lists what is installed from apt and where the extra
// repository comes from.
type Packages struct {
	System     []string   `yaml:"system"`
	Repository Repository `yaml:"repository"`
}

// Repository is a signed third-party apt source.
type Repository struct {
	Name       string `yaml:"name"`
	URL        string `yaml:"url"`
	KeyURL     string `yaml:"key-url"`
	Suffix     string `yaml:"suite-suffix"`
	Component  string `yaml:"component"`
	KeyringDir string `yaml:"keyring-dir"`
	SourceDir  string `yaml:"source-dir"`
}

// App covers the python environment and the application's own files.
type App struct {
	VenvName     string        `yaml:"venv-name"`
	PipPackages  []string      `yaml:"pip-packages"`
	SampleConfig string        `yaml:"sample-config"`
	ActiveConfig string        `yaml:"active-config"`
	UserAnchor   string        `yaml:"user-anchor"`
	Patches      []SourcePatch `yaml:"patches"`
}

// SourcePatch replaces one literal with another in a file relative to
// the application directory.
type SourcePatch struct {
	File string `yaml:"file"`
	Old  string `yaml:"old"`
	New  string `yaml:"new"`
}

// UWSGI configures the emperor vassal serving the application.
type UWSGI struct {
	VassalDir string `yaml:"vassal-dir"`
	Unit      string `yaml:"unit"`
	Socket    string `yaml:"socket"`
	Group     string `yaml:"group"`
	Plugin    string `yaml:"plugin"`
	Module    string `yaml:"module"`
	Processes int    `yaml:"processes"`
}

// Nginx configures the reverse proxy site.
type Nginx struct {
	SitesAvailable string `yaml:"sites-available"`
	SitesEnabled   string `yaml:"sites-enabled"`
	Unit           string `yaml:"unit"`
	Group          string `yaml:"group"`
	FirewallRule   string `yaml:"firewall-rule"`
}

// Defaults returns the compiled-in configuration. Domain and operator
// are left empty.
func Defaults() Config {
	return Config{
		LogFile:     "/var/log/sfdeploy.log",
		AppName:     "sessionfiles",
		RepoURL:     "https://github.com/sessionfiles/sessionfiles.git",
		PublicIPURL: "https://api.ipify.org",
		Database: Database{
			Name:        "sessionfiles",
			Superuser:   "postgres",
			SocketDir:   "/var/run/postgresql",
			HBASearch:   "/etc/postgresql",
			Unit:        "postgresql.service",
			SchemaFile:  "schema.sql",
			MarkerTable: "sessions",
		},
		Packages: Packages{
			System: []string{
				"git",
				"curl",
				"ca-certificates",
				"postgresql",
				"postgresql-contrib",
				"python3-{pip,venv,dev,psycopg2}",
				"libpq-dev",
				"nginx",
				"ufw",
				"uwsgi",
				"uwsgi-emperor",
				"uwsgi-plugin-python3",
			},
			Repository: Repository{
				Name:       "pgdg",
				URL:        "https://apt.postgresql.org/pub/repos/apt",
				KeyURL:     "https://www.postgresql.org/media/keys/ACCC4CF8.asc",
				Suffix:     "-pgdg",
				Component:  "main",
				KeyringDir: "/etc/apt/keyrings",
				SourceDir:  "/etc/apt/sources.list.d",
			},
		},
		App: App{
			VenvName:     "venv",
			PipPackages:  []string{"psycopg2-binary", "bcrypt", "python-multipart"},
			SampleConfig: "config.sample.json",
			ActiveConfig: "config.json",
			UserAnchor:   `"dbname": "sessionfiles"`,
			Patches: []SourcePatch{{
				File: "sessionfiles/wsgi.py",
				Old:  `"CONTENT_LENGTH": content_length,`,
				New:  `"CONTENT_LENGTH": str(content_length),`,
			}, {
				File: "sessionfiles/handlers.py",
				Old:  `"SERVER_PORT": server_port,`,
				New:  `"SERVER_PORT": str(server_port),`,
			}},
		},
		UWSGI: UWSGI{
			VassalDir: "/etc/uwsgi-emperor/vassals",
			Unit:      "uwsgi-emperor.service",
			Socket:    "sessionfiles.sock",
			Group:     "www-data",
			Plugin:    "python3",
			Module:    "sessionfiles.wsgi:application",
			Processes: 4,
		},
		Nginx: Nginx{
			SitesAvailable: "/etc/nginx/sites-available",
			SitesEnabled:   "/etc/nginx/sites-enabled",
			Unit:           "nginx.service",
			Group:          "www-data",
			FirewallRule:   "Nginx Full",
		},
	}
}

// New returns the configuration for provisioning domain on behalf of
// the operator whose home directory is home. Values from the file
// named by $SFDEPLOY_CONFIG, if set, override the defaults.
func New(domain, operator, home string) (Config, error) {
	cfg := Defaults()
	if path := strings.TrimSpace(os.Getenv(ConfigFileEnvKey)); path != "" {
		var err error
		if cfg, err = ReadOverrides(cfg, path); err != nil {
			return Config{}, errors.Trace(err)
		}
	}
	cfg.Domain = domain
	cfg.Operator = operator
	cfg.OperatorHome = home
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Trace(err)
	}
	return cfg, nil
}

// ReadOverrides decodes the YAML file at path on top of base. Unknown
// keys are rejected. Lists replace the default list as a whole.
func ReadOverrides(base Config, path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Annotate(err, "opening config overrides")
	}
	defer f.Close()

	cfg := base
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Annotatef(err, "parsing %s", path)
	}
	return cfg, nil
}

// AppDir is where the application repository is checked out.
func (c Config) AppDir() string {
	return filepath.Join(c.OperatorHome, c.AppName)
}

// VenvDir is the application's python virtual environment.
func (c Config) VenvDir() string {
	return filepath.Join(c.AppDir(), c.App.VenvName)
}

// SocketPath is the uWSGI socket nginx forwards requests to. A
// relative socket lives in the application directory.
func (c Config) SocketPath() string {
	if filepath.IsAbs(c.UWSGI.Socket) {
		return c.UWSGI.Socket
	}
	return filepath.Join(c.AppDir(), c.UWSGI.Socket)
}

// DBUser is the database role owned by the operator.
func (c Config) DBUser() string {
	return c.Operator
}

var domainPattern = regexp.MustCompile(`^(?i)([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,63}$`)

// ValidateDomain checks that domain is a fully qualified host name.
func ValidateDomain(domain string) error {
	if domain == "" {
		return errors.NotValidf("empty domain")
	}
	if len(domain) > 253 || !domainPattern.MatchString(domain) {
		return errors.NotValidf("domain %q", domain)
	}
	return nil
}

// Validate checks that the configuration can be used to provision.
func (c Config) Validate() error {
	if err := ValidateDomain(c.Domain); err != nil {
		return errors.Trace(err)
	}
	if !system.ValidUserName(c.Operator) {
		return errors.NotValidf("operator user %q", c.Operator)
	}
	if !filepath.IsAbs(c.OperatorHome) {
		return errors.NotValidf("operator home %q", c.OperatorHome)
	}
	for key, value := range map[string]string{
		"log-file":                 c.LogFile,
		"database.hba-search-root": c.Database.HBASearch,
		"uwsgi.vassal-dir":         c.UWSGI.VassalDir,
		"nginx.sites-available":    c.Nginx.SitesAvailable,
		"nginx.sites-enabled":      c.Nginx.SitesEnabled,
	} {
		if !filepath.IsAbs(value) {
			return errors.NotValidf("%s %q (must be absolute)", key, value)
		}
	}
	if c.AppName == "" || strings.ContainsAny(c.AppName, `/\`) {
		return errors.NotValidf("app-name %q", c.AppName)
	}
	if !system.ValidUserName(c.Database.Name) {
		return errors.NotValidf("database name %q", c.Database.Name)
	}
	if c.Database.MarkerTable == "" {
		return errors.NotValidf("empty database.marker-table")
	}
	if c.App.UserAnchor == "" {
		return errors.NotValidf("empty app.user-anchor")
	}
	for _, p := range c.App.Patches {
		if p.File == "" || p.Old == "" || p.New == "" {
			return errors.NotValidf("incomplete patch for %q", p.File)
		}
	}
	if c.UWSGI.Processes < 1 {
		return errors.NotValidf("uwsgi.processes %d", c.UWSGI.Processes)
	}
	return nil
}
