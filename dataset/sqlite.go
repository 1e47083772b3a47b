package dataset

import (
	"errors"
	"fmt"
	"os"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"baseliner/common"
)

const schemaVersion = 1

const schema = `
PRAGMA user_version = 1;
CREATE TABLE features (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	baseline    TEXT NOT NULL DEFAULT ''
);
CREATE TABLE support (
	feature_id TEXT    NOT NULL REFERENCES features(id),
	seq        INTEGER NOT NULL,
	browser    TEXT    NOT NULL,
	version    TEXT    NOT NULL,
	PRIMARY KEY (feature_id, seq)
);
`

// WriteSQLite stores the dataset as a SQLite snapshot, replacing existing
// file.
func WriteSQLite(d *Dataset, path string) (err error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("unable to replace snapshot: %w", err)
	}

	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		return fmt.Errorf("unable to create snapshot: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("unable to close snapshot: %w", cerr)
		}
	}()

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("unable to create schema: %w", err)
	}
	return insertAll(conn, d)
}

func insertAll(conn *sqlite.Conn, d *Dataset) (err error) {
	defer sqlitex.Save(conn)(&err)

	for _, id := range d.ids {
		e := d.entries[id]
		err = sqlitex.Execute(conn,
			`INSERT INTO features (id, kind, name, description, baseline) VALUES (?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{Args: []any{id, e.Kind, e.Name, e.Description, string(e.Status.Baseline)}})
		if err != nil {
			return fmt.Errorf("unable to store %q: %w", id, err)
		}
		for i, s := range e.Status.Support {
			err = sqlitex.Execute(conn,
				`INSERT INTO support (feature_id, seq, browser, version) VALUES (?, ?, ?, ?)`,
				&sqlitex.ExecOptions{Args: []any{id, i, s.Browser, s.Version}})
			if err != nil {
				return fmt.Errorf("unable to store support of %q: %w", id, err)
			}
		}
	}
	return nil
}

// ReadSQLite loads a snapshot written by WriteSQLite.
func ReadSQLite(path string) (*Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("unable to open snapshot: %w", err)
	}
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadOnly)
	if err != nil {
		return nil, fmt.Errorf("unable to open snapshot: %w", err)
	}
	defer conn.Close()

	var version int
	err = sqlitex.Execute(conn, `PRAGMA user_version`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			version = stmt.ColumnInt(0)
			return nil
		}})
	if err != nil {
		return nil, fmt.Errorf("unable to read snapshot version: %w", err)
	}
	if version != schemaVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", version)
	}

	entries := make(map[string]Entry)
	err = sqlitex.Execute(conn, `SELECT id, kind, name, description, baseline FROM features`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			entries[stmt.ColumnText(0)] = Entry{
				Kind:        stmt.ColumnText(1),
				Name:        stmt.ColumnText(2),
				Description: stmt.ColumnText(3),
				Status:      Status{Baseline: common.ParseBaselineStatus(stmt.ColumnText(4))},
			}
			return nil
		}})
	if err != nil {
		return nil, fmt.Errorf("unable to read features: %w", err)
	}

	err = sqlitex.Execute(conn, `SELECT feature_id, browser, version FROM support ORDER BY feature_id, seq`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			id := stmt.ColumnText(0)
			e, ok := entries[id]
			if !ok {
				return fmt.Errorf("support row for unknown feature %q", id)
			}
			e.Status.Support = append(e.Status.Support, Support{Browser: stmt.ColumnText(1), Version: stmt.ColumnText(2)})
			entries[id] = e
			return nil
		}})
	if err != nil {
		return nil, fmt.Errorf("unable to read support: %w", err)
	}
	return New(entries), nil
}
