// Package migrate applies the embedded schema migrations for the gitscope
// catalog database.
package migrate

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var schemaFS embed.FS

const (
	dialect   = "sqlite"
	schemaDir = "sql"
)

func init() {
	goose.SetBaseFS(schemaFS)
}

// Up brings the catalog schema to the latest version. Safe to call on every
// start; goose skips migrations already applied.
func Up(db *sql.DB) error {
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("select %s dialect: %w", dialect, err)
	}
	if err := goose.Up(db, schemaDir); err != nil {
		return fmt.Errorf("migrate catalog schema: %w", err)
	}
	return nil
}

// Version reports the current schema version of the catalog database.
func Version(db *sql.DB) (int64, error) {
	if err := goose.SetDialect(dialect); err != nil {
		return 0, fmt.Errorf("select %s dialect: %w", dialect, err)
	}
	version, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}
