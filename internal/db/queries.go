package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/insult0o/pdfsel/internal/errors"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.SelError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Summary is a saved selection without its serialized body.
type Summary struct {
	ID         string  `json:"id"`
	NameRaw    string  `json:"name"`
	NameNorm   string  `json:"name_norm"`
	Mode       string  `json:"mode"`
	TotalCount int     `json:"total_count"`
	ItemCount  int     `json:"item_count"`
	SavedAt    int64   `json:"saved_at"`
	SavedBy    *string `json:"saved_by,omitempty"`
}

// SavedSelection is one row of saved_selections. SelectionJSON is stored
// verbatim; decoding it is the caller's job so a malformed body can be
// reported separately from a storage failure.
type SavedSelection struct {
	Summary
	SelectionJSON string `json:"-"`
}

const selectColumns = `
	id, name_raw, name_norm, selection_json, mode,
	total_count, item_count, saved_at, saved_by
`

const summaryColumns = `
	id, name_raw, name_norm, mode,
	total_count, item_count, saved_at, saved_by
`

// Upsert stores s keyed by its normalized name. An existing row keeps its
// id and has every other column replaced. s.ID is set to the stored id.
func Upsert(ctx context.Context, q Querier, s *SavedSelection) error {
	query := `
		INSERT INTO saved_selections (` + selectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name_norm) DO UPDATE SET
			name_raw = excluded.name_raw,
			selection_json = excluded.selection_json,
			mode = excluded.mode,
			total_count = excluded.total_count,
			item_count = excluded.item_count,
			saved_at = excluded.saved_at,
			saved_by = excluded.saved_by
		RETURNING id
	`

	var id string
	err := q.QueryRowContext(ctx, query,
		s.ID, s.NameRaw, s.NameNorm, s.SelectionJSON, s.Mode,
		s.TotalCount, s.ItemCount, s.SavedAt, toNullString(s.SavedBy),
	).Scan(&id)
	if err != nil {
		return storageError(ctx, "save", err)
	}

	s.ID = id
	return nil
}

// Insert stores a new saved selection. A name or id collision returns
// ErrUniqueConstraint.
func Insert(ctx context.Context, q Querier, s *SavedSelection) error {
	query := `
		INSERT INTO saved_selections (` + selectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := q.ExecContext(ctx, query,
		s.ID, s.NameRaw, s.NameNorm, s.SelectionJSON, s.Mode,
		s.TotalCount, s.ItemCount, s.SavedAt, toNullString(s.SavedBy),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return storageError(ctx, "insert", err)
	}

	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetByName retrieves a saved selection by normalized name.
func GetByName(ctx context.Context, q Querier, nameNorm string) (*SavedSelection, error) {
	query := `SELECT ` + selectColumns + ` FROM saved_selections WHERE name_norm = ?`

	s, err := scanSaved(q.QueryRowContext(ctx, query, nameNorm))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(nameNorm)
	}
	if err != nil {
		return nil, storageError(ctx, "load", err)
	}

	return s, nil
}

// GetByID retrieves a saved selection by its ULID.
func GetByID(ctx context.Context, q Querier, id string) (*SavedSelection, error) {
	query := `SELECT ` + selectColumns + ` FROM saved_selections WHERE id = ?`

	s, err := scanSaved(q.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, storageError(ctx, "load", err)
	}

	return s, nil
}

// ListNames returns the raw names of every saved selection, ordered by
// normalized name.
func ListNames(ctx context.Context, q Querier) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT name_raw FROM saved_selections ORDER BY name_norm`)
	if err != nil {
		return nil, storageError(ctx, "list", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, storageError(ctx, "list", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(ctx, "list", err)
	}

	return names, nil
}

// ListSummaries returns one page of summaries, most recently saved first.
func ListSummaries(ctx context.Context, q Querier, limit, offset int) ([]Summary, error) {
	query := `
		SELECT ` + summaryColumns + `
		FROM saved_selections
		ORDER BY saved_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := q.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, storageError(ctx, "list", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var (
			s       Summary
			savedBy sql.NullString
		)
		if err := rows.Scan(
			&s.ID, &s.NameRaw, &s.NameNorm, &s.Mode,
			&s.TotalCount, &s.ItemCount, &s.SavedAt, &savedBy,
		); err != nil {
			return nil, storageError(ctx, "list", err)
		}
		s.SavedBy = fromNullString(savedBy)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(ctx, "list", err)
	}

	return out, nil
}

// Count returns the number of saved selections.
func Count(ctx context.Context, q Querier) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM saved_selections`).Scan(&n); err != nil {
		return 0, storageError(ctx, "count", err)
	}
	return n, nil
}

// DeleteByName removes a saved selection and reports whether a row existed.
func DeleteByName(ctx context.Context, q Querier, nameNorm string) (bool, error) {
	result, err := q.ExecContext(ctx, `DELETE FROM saved_selections WHERE name_norm = ?`, nameNorm)
	if err != nil {
		return false, storageError(ctx, "delete", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, storageError(ctx, "delete", err)
	}

	return rowsAffected > 0, nil
}

// StreamForExport returns every saved selection ordered by name.
// The caller must close the rows and scan them with ScanSavedFromRows.
func StreamForExport(ctx context.Context, q Querier) (*sql.Rows, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+selectColumns+` FROM saved_selections ORDER BY name_norm`)
	if err != nil {
		return nil, storageError(ctx, "export", err)
	}
	return rows, nil
}

// ScanSavedFromRows scans the current row of a StreamForExport result.
func ScanSavedFromRows(rows *sql.Rows) (*SavedSelection, error) {
	return scanSaved(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSaved(row scanner) (*SavedSelection, error) {
	var (
		s       SavedSelection
		savedBy sql.NullString
	)

	err := row.Scan(
		&s.ID, &s.NameRaw, &s.NameNorm, &s.SelectionJSON, &s.Mode,
		&s.TotalCount, &s.ItemCount, &s.SavedAt, &savedBy,
	)
	if err != nil {
		return nil, err
	}

	s.SavedBy = fromNullString(savedBy)
	return &s, nil
}

// storageError maps a database error to CANCELLED when the context ended,
// otherwise to STORAGE_FAILURE.
func storageError(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil || stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewCancelled(op)
	}
	return errors.NewStorageFailure(op, err)
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
