// Package store persists per-semester grade counts in SQLite.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"grade-estimator/internal/grades"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DefaultPath is the database file used when none is configured.
const DefaultPath = "grades.db"

// ErrNotFound is returned when a semester is not stored.
var ErrNotFound = errors.New("semester not found")

// Store holds semester vectors.
type Store struct {
	db *sqlx.DB
}

// Semester is a stored semester without its counts.
type Semester struct {
	Name      string    `db:"semester_name" json:"name" yaml:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at" yaml:"updated_at"`
}

type countRow struct {
	Semester string `db:"semester_name"`
	Grade    string `db:"grade"`
	Position int    `db:"position"`
	Count    int    `db:"count"`
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite has a single writer; one connection also keeps ":memory:" databases intact
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores the counts of a semester, replacing any earlier import.
func (s *Store) Save(ctx context.Context, name string, scale *grades.Scale, counts grades.Vector) error {
	if len(counts) != scale.Len() {
		return &grades.ScaleMismatchError{Source: name, Expected: scale.Len(), Got: len(counts)}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO semesters (semester_name) VALUES (?)
		ON CONFLICT(semester_name) DO UPDATE SET updated_at = CURRENT_TIMESTAMP`, name); err != nil {
		return fmt.Errorf("failed to upsert semester %s: %w", name, err)
	}

	var id int64
	if err := tx.GetContext(ctx, &id, `SELECT semester_id FROM semesters WHERE semester_name = ?`, name); err != nil {
		return fmt.Errorf("failed to look up semester %s: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM grade_counts WHERE semester_id = ?`, id); err != nil {
		return fmt.Errorf("failed to clear counts of %s: %w", name, err)
	}

	for i, label := range scale.Labels() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO grade_counts (semester_id, grade, position, count) VALUES (?, ?, ?, ?)`,
			id, label, i, counts[i]); err != nil {
			return fmt.Errorf("failed to store %s count of %s: %w", label, name, err)
		}
	}

	return tx.Commit()
}

// Load returns the counts of every stored semester aligned to scale.
// A semester stored with a different set of grades is a ScaleMismatchError.
func (s *Store) Load(ctx context.Context, scale *grades.Scale) (map[string]grades.Vector, error) {
	var rows []countRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT s.semester_name, c.grade, c.position, c.count
		FROM grade_counts c
		JOIN semesters s ON s.semester_id = c.semester_id
		ORDER BY s.semester_name, c.position`)
	if err != nil {
		return nil, fmt.Errorf("failed to load counts: %w", err)
	}

	out := make(map[string]grades.Vector)
	seen := make(map[string]int)
	for _, r := range rows {
		v, ok := out[r.Semester]
		if !ok {
			v = make(grades.Vector, scale.Len())
			out[r.Semester] = v
		}
		idx := scale.Index(r.Grade)
		if idx < 0 {
			return nil, &grades.ScaleMismatchError{
				Source: r.Semester,
				Detail: fmt.Sprintf("stored grade %q is not part of the scale", r.Grade),
			}
		}
		v[idx] = r.Count
		seen[r.Semester]++
	}

	for name, n := range seen {
		if n != scale.Len() {
			return nil, &grades.ScaleMismatchError{Source: name, Expected: scale.Len(), Got: n}
		}
	}
	return out, nil
}

// Get returns the counts of a single semester.
func (s *Store) Get(ctx context.Context, name string, scale *grades.Scale) (grades.Vector, error) {
	all, err := s.Load(ctx, scale)
	if err != nil {
		return nil, err
	}
	v, ok := all[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return v, nil
}

// List returns the stored semesters by name.
func (s *Store) List(ctx context.Context) ([]Semester, error) {
	var out []Semester
	err := s.db.SelectContext(ctx, &out,
		`SELECT semester_name, created_at, updated_at FROM semesters ORDER BY semester_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list semesters: %w", err)
	}
	return out, nil
}

// Delete removes a semester and its counts.
func (s *Store) Delete(ctx context.Context, name string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM grade_counts WHERE semester_id IN
			(SELECT semester_id FROM semesters WHERE semester_name = ?)`, name); err != nil {
		return fmt.Errorf("failed to delete counts of %s: %w", name, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM semesters WHERE semester_name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete semester %s: %w", name, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	return tx.Commit()
}
