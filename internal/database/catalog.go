// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/juju/errors"
)

// Catalog queries and changes the PostgreSQL cluster.
type Catalog interface {
	// Ping succeeds once the server accepts connections.
	Ping(ctx context.Context) error

	RoleExists(ctx context.Context, role string) (bool, error)
	CreateRole(ctx context.Context, role string) error

	DatabaseExists(ctx context.Context, name string) (bool, error)
	CreateDatabase(ctx context.Context, name, owner string) error

	// TableExists looks for table in the public schema of database db.
	TableExists(ctx context.Context, db, table string) (bool, error)

	// LoadSchema runs the statements in schema against database db.
	LoadSchema(ctx context.Context, db, schema string) error

	// GrantAll gives role every privilege on database db and on the
	// tables and sequences of its public schema.
	GrantAll(ctx context.Context, db, role string) error
}

const maintenanceDB = "postgres"

type pgCatalog struct {
	socketDir string
	superuser string
}

// NewCatalog returns a Catalog that connects as superuser over the
// unix socket in socketDir.
func NewCatalog(socketDir, superuser string) Catalog {
	return &pgCatalog{socketDir: socketDir, superuser: superuser}
}

func (c *pgCatalog) connect(ctx context.Context, db string) (*pgx.Conn, error) {
	connString := fmt.Sprintf("host=%s user=%s dbname=%s sslmode=disable", c.socketDir, c.superuser, db)
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, errors.Annotatef(err, "connecting to database %q", db)
	}
	return conn, nil
}

// Ping is part of the Catalog interface.
func (c *pgCatalog) Ping(ctx context.Context) error {
	conn, err := c.connect(ctx, maintenanceDB)
	if err != nil {
		return errors.Trace(err)
	}
	defer conn.Close(ctx)
	return errors.Trace(conn.Ping(ctx))
}

func (c *pgCatalog) exists(ctx context.Context, db, query string, args ...any) (bool, error) {
	conn, err := c.connect(ctx, db)
	if err != nil {
		return false, errors.Trace(err)
	}
	defer conn.Close(ctx)

	var found bool
	if err := conn.QueryRow(ctx, query, args...).Scan(&found); err != nil {
		return false, errors.Trace(err)
	}
	return found, nil
}

// RoleExists is part of the Catalog interface.
func (c *pgCatalog) RoleExists(ctx context.Context, role string) (bool, error) {
	found, err := c.exists(ctx, maintenanceDB,
		`SELECT EXISTS (SELECT 1 FROM pg_catalog.pg_roles WHERE rolname = $1)`, role)
	return found, errors.Annotatef(err, "checking role %q", role)
}

// CreateRole is part of the Catalog interface.
func (c *pgCatalog) CreateRole(ctx context.Context, role string) error {
	stmt := "CREATE ROLE " + pgx.Identifier{role}.Sanitize() + " LOGIN"
	return errors.Annotatef(c.exec(ctx, maintenanceDB, stmt), "creating role %q", role)
}

// DatabaseExists is part of the Catalog interface.
func (c *pgCatalog) DatabaseExists(ctx context.Context, name string) (bool, error) {
	found, err := c.exists(ctx, maintenanceDB,
		`SELECT EXISTS (SELECT 1 FROM pg_catalog.pg_database WHERE datname = $1)`, name)
	return found, errors.Annotatef(err, "checking database %q", name)
}

// CreateDatabase is part of the Catalog interface.
func (c *pgCatalog) CreateDatabase(ctx context.Context, name, owner string) error {
	stmt := "CREATE DATABASE " + pgx.Identifier{name}.Sanitize() + " OWNER " + pgx.Identifier{owner}.Sanitize()
	return errors.Annotatef(c.exec(ctx, maintenanceDB, stmt), "creating database %q", name)
}

// TableExists is part of the Catalog interface.
func (c *pgCatalog) TableExists(ctx context.Context, db, table string) (bool, error) {
	found, err := c.exists(ctx, db,
		`SELECT EXISTS (SELECT 1 FROM pg_catalog.pg_tables WHERE schemaname = 'public' AND tablename = $1)`, table)
	return found, errors.Annotatef(err, "checking table %q", table)
}

// LoadSchema is part of the Catalog interface.
func (c *pgCatalog) LoadSchema(ctx context.Context, db, schema string) error {
	conn, err := c.connect(ctx, db)
	if err != nil {
		return errors.Trace(err)
	}
	defer conn.Close(ctx)

	// The simple protocol allows several statements in one request.
	if _, err := conn.PgConn().Exec(ctx, schema).ReadAll(); err != nil {
		return errors.Annotate(classify(err, "schema object"), "loading schema")
	}
	return nil
}

// GrantAll is part of the Catalog interface.
func (c *pgCatalog) GrantAll(ctx context.Context, db, role string) error {
	grantee := pgx.Identifier{role}.Sanitize()
	for _, stmt := range []string{
		"GRANT ALL PRIVILEGES ON DATABASE " + pgx.Identifier{db}.Sanitize() + " TO " + grantee,
		"GRANT ALL PRIVILEGES ON ALL TABLES IN SCHEMA public TO " + grantee,
		"GRANT ALL PRIVILEGES ON ALL SEQUENCES IN SCHEMA public TO " + grantee,
	} {
		if err := c.exec(ctx, db, stmt); err != nil {
			return errors.Annotatef(err, "granting privileges to %q", role)
		}
	}
	return nil
}

func (c *pgCatalog) exec(ctx context.Context, db, stmt string) error {
	conn, err := c.connect(ctx, db)
	if err != nil {
		return errors.Trace(err)
	}
	defer conn.Close(ctx)

	logger.Debugf("executing %s", stmt)
	if _, err := conn.Exec(ctx, stmt); err != nil {
		return classify(err, stmt)
	}
	return nil
}

// classify maps server errors onto juju error types.
func classify(err error, what string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return errors.Trace(err)
	}
	switch pgErr.Code {
	case pgerrcode.DuplicateObject, pgerrcode.DuplicateDatabase, pgerrcode.DuplicateTable:
		return errors.NewAlreadyExists(err, what)
	case pgerrcode.UndefinedTable, pgerrcode.UndefinedObject, pgerrcode.InvalidCatalogName:
		return errors.NewNotFound(err, what)
	case pgerrcode.InsufficientPrivilege:
		return errors.NewUnauthorized(err, what)
	}
	return errors.Trace(err)
}
