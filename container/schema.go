package container

import (
	"context"
	"database/sql"
)

var containerSchema = []string{`
CREATE TABLE IF NOT EXISTS detail (
    id          INTEGER PRIMARY KEY CHECK (id = 1),
    part_type   TEXT NOT NULL,
    point_count INTEGER NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS attributes (
    name       TEXT PRIMARY KEY,
    ord        INTEGER NOT NULL,
    owner      TEXT NOT NULL,
    storage    TEXT NOT NULL,
    type_info  TEXT NOT NULL DEFAULT '',
    tuple_size INTEGER NOT NULL,
    count      INTEGER NOT NULL,
    data       BLOB
)`, `
CREATE TABLE IF NOT EXISTS points (
    ptnum INTEGER PRIMARY KEY,
    p     BLOB
)`}

// EnsureSchema creates the container tables in the provided database if they
// do not already exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, ddl := range containerSchema {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}
