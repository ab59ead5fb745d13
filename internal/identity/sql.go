// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package identity

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pubmed-lens/pkg/types"
)

// SQLStore keeps identities in a SQLite database. Variations and
// acquisitions live in child tables keyed by the manufacturer rowid, so
// insertion order survives round-trips.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore opens or creates the database at path and ensures the
// schema exists.
func NewSQLStore(path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "creating %s", dir)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	s := &SQLStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating schema")
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS manufacturers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE,
			color TEXT,
			display_order INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS variations (
			manufacturer_id INTEGER NOT NULL REFERENCES manufacturers(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			start_year INTEGER NOT NULL,
			end_year INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS acquisitions (
			manufacturer_id INTEGER NOT NULL REFERENCES manufacturers(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			year INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_variations_manufacturer ON variations(manufacturer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_acquisitions_manufacturer ON acquisitions(manufacturer_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return errors.Wrap(err, "executing schema statement")
		}
	}
	return nil
}

// List returns all identities sorted by display order, rowid breaking
// ties.
func (s *SQLStore) List() ([]types.ManufacturerIdentity, error) {
	rows, err := s.db.Query(
		`SELECT id, name, COALESCE(color, ''), display_order
		 FROM manufacturers ORDER BY display_order, id`)
	if err != nil {
		return nil, errors.Wrap(err, "listing manufacturers")
	}
	defer rows.Close()

	var out []types.ManufacturerIdentity
	var ids []int64
	for rows.Next() {
		var id int64
		var m types.ManufacturerIdentity
		if err := rows.Scan(&id, &m.Name, &m.Color, &m.DisplayOrder); err != nil {
			return nil, errors.Wrap(err, "scanning manufacturer")
		}
		ids = append(ids, id)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating manufacturers")
	}

	for i, id := range ids {
		if out[i].Variations, err = s.variations(id); err != nil {
			return nil, err
		}
		if out[i].Acquisitions, err = s.acquisitions(id); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *SQLStore) variations(manufacturerID int64) ([]types.NameVariation, error) {
	rows, err := s.db.Query(
		`SELECT name, start_year, end_year FROM variations
		 WHERE manufacturer_id = ? ORDER BY rowid`, manufacturerID)
	if err != nil {
		return nil, errors.Wrap(err, "listing variations")
	}
	defer rows.Close()

	var out []types.NameVariation
	for rows.Next() {
		var v types.NameVariation
		if err := rows.Scan(&v.Name, &v.StartYear, &v.EndYear); err != nil {
			return nil, errors.Wrap(err, "scanning variation")
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *SQLStore) acquisitions(manufacturerID int64) ([]types.Acquisition, error) {
	rows, err := s.db.Query(
		`SELECT name, year FROM acquisitions
		 WHERE manufacturer_id = ? ORDER BY rowid`, manufacturerID)
	if err != nil {
		return nil, errors.Wrap(err, "listing acquisitions")
	}
	defer rows.Close()

	var out []types.Acquisition
	for rows.Next() {
		var a types.Acquisition
		if err := rows.Scan(&a.Name, &a.Year); err != nil {
			return nil, errors.Wrap(err, "scanning acquisition")
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Put inserts or replaces the identity keyed by canonical name. New
// identities with no display order go to the end.
func (s *SQLStore) Put(m types.ManufacturerIdentity) error {
	if err := m.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	if m.DisplayOrder == 0 {
		var existing sql.NullInt64
		err := tx.QueryRow(
			`SELECT display_order FROM manufacturers WHERE name = ?`, m.Name).Scan(&existing)
		switch {
		case err == nil:
			m.DisplayOrder = int(existing.Int64)
		case errors.Is(err, sql.ErrNoRows):
			var maxOrder sql.NullInt64
			if err := tx.QueryRow(
				`SELECT MAX(display_order) FROM manufacturers`).Scan(&maxOrder); err != nil {
				return errors.Wrap(err, "finding max display order")
			}
			m.DisplayOrder = int(maxOrder.Int64) + 1
		default:
			return errors.Wrap(err, "finding existing manufacturer")
		}
	}

	if _, err := tx.Exec(`DELETE FROM manufacturers WHERE name = ?`, m.Name); err != nil {
		return errors.Wrap(err, "removing previous record")
	}

	res, err := tx.Exec(
		`INSERT INTO manufacturers (name, color, display_order) VALUES (?, ?, ?)`,
		m.Name, m.Color, m.DisplayOrder)
	if err != nil {
		return errors.Wrap(err, "inserting manufacturer")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "reading insert id")
	}

	for _, v := range m.Variations {
		if _, err := tx.Exec(
			`INSERT INTO variations (manufacturer_id, name, start_year, end_year) VALUES (?, ?, ?, ?)`,
			id, v.Name, v.StartYear, v.EndYear); err != nil {
			return errors.Wrap(err, "inserting variation")
		}
	}
	for _, a := range m.Acquisitions {
		if _, err := tx.Exec(
			`INSERT INTO acquisitions (manufacturer_id, name, year) VALUES (?, ?, ?)`,
			id, a.Name, a.Year); err != nil {
			return errors.Wrap(err, "inserting acquisition")
		}
	}

	return errors.Wrap(tx.Commit(), "committing")
}

// Delete removes the identity by canonical name.
func (s *SQLStore) Delete(name string) error {
	res, err := s.db.Exec(`DELETE FROM manufacturers WHERE name = ?`, name)
	if err != nil {
		return errors.Wrap(err, "deleting manufacturer")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "reading rows affected")
	}
	if n == 0 {
		return errors.Mark(errors.Newf("%q", name), ErrNotFound)
	}
	return nil
}

// Reorder assigns display order 1..n following names; unnamed identities
// keep their relative order after the reordered ones.
func (s *SQLStore) Reorder(names []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	named := make(map[string]bool, len(names))
	for i, n := range names {
		n = strings.TrimSpace(n)
		named[strings.ToLower(n)] = true
		if _, err := tx.Exec(
			`UPDATE manufacturers SET display_order = ? WHERE name = ?`, i+1, n); err != nil {
			return errors.Wrap(err, "updating display order")
		}
	}

	rows, err := tx.Query(`SELECT id, name FROM manufacturers ORDER BY display_order, id`)
	if err != nil {
		return errors.Wrap(err, "listing manufacturers")
	}
	type rec struct {
		id   int64
		name string
	}
	var rest []rec
	for rows.Next() {
		var r rec
		if err := rows.Scan(&r.id, &r.name); err != nil {
			rows.Close()
			return errors.Wrap(err, "scanning manufacturer")
		}
		if !named[strings.ToLower(r.name)] {
			rest = append(rest, r)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "iterating manufacturers")
	}

	next := len(names) + 1
	for _, r := range rest {
		if _, err := tx.Exec(
			`UPDATE manufacturers SET display_order = ? WHERE id = ?`, next, r.id); err != nil {
			return errors.Wrap(err, "updating display order")
		}
		next++
	}

	return errors.Wrap(tx.Commit(), "committing")
}
