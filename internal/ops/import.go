package ops

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/insult0o/pdfsel/internal/config"
	"github.com/insult0o/pdfsel/internal/db"
	"github.com/insult0o/pdfsel/internal/errors"
)

// maxImportLine bounds one JSONL line; a large selection can exceed
// bufio.Scanner's default 64 KiB.
const maxImportLine = 16 << 20

// ImportMode controls collision behavior during import.
type ImportMode string

const (
	ImportModeError   ImportMode = "error"   // fail on any collision, import nothing
	ImportModeReplace ImportMode = "replace" // overwrite on name collision
	ImportModeSkip    ImportMode = "skip"    // keep the existing record
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     // required
	Mode ImportMode // default: error
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// ImportError describes one line that was not imported.
type ImportError struct {
	Line    int    `json:"line"`
	Name    string `json:"name,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// importRow is a parsed, validated export line.
type importRow struct {
	line int
	row  *db.SavedSelection
}

// Import loads saved selections from a JSONL export file.
func Import(ctx context.Context, database *sql.DB, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	if input.Mode == "" {
		input.Mode = ImportModeError
	}
	if input.Mode != ImportModeError && input.Mode != ImportModeReplace && input.Mode != ImportModeSkip {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace, skip")
	}

	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(input.Path)
	if err != nil {
		if errors.Is(err, errors.ErrFileNotFound) || errors.Is(err, errors.ErrInvalidRequest) {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	rows, parseErrors := parseExportFile(file)

	if input.Mode == ImportModeError {
		if len(parseErrors) > 0 {
			return &ImportOutput{Errors: parseErrors}, nil
		}
		return importAtomic(ctx, database, rows)
	}
	return importEach(ctx, database, input.Mode, rows, parseErrors)
}

// parseExportFile reads an export file into rows, collecting per-line errors.
func parseExportFile(r io.Reader) ([]importRow, []ImportError) {
	var rows []importRow
	parseErrors := []ImportError{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxImportLine)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec ExportRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Code:    "PARSE_ERROR",
				Message: fmt.Sprintf("invalid JSON: %v", err),
			})
			continue
		}
		if rec.PdfselExport {
			continue
		}

		row, err := rowFromRecord(rec)
		if err != nil {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Name:    rec.Name,
				Code:    "INVALID_RECORD",
				Message: err.Error(),
			})
			continue
		}
		rows = append(rows, importRow{line: lineNum, row: row})
	}

	if err := scanner.Err(); err != nil {
		parseErrors = append(parseErrors, ImportError{
			Line:    lineNum,
			Code:    "READ_ERROR",
			Message: fmt.Sprintf("failed to read file: %v", err),
		})
	}

	return rows, parseErrors
}

// rowFromRecord validates an export record and converts it to a row.
func rowFromRecord(rec ExportRecord) (*db.SavedSelection, error) {
	nameRaw, nameNorm, err := validateName(rec.Name)
	if err != nil {
		return nil, err
	}
	sel, err := rec.Selection.ToSelection()
	if err != nil {
		return nil, err
	}

	row, err := newSavedRow(nameRaw, nameNorm, sel, cleanOptionalString(rec.SavedBy), rec.SavedAt)
	if err != nil {
		return nil, err
	}
	if rec.ID != "" {
		row.ID = rec.ID
	}
	return row, nil
}

// importAtomic inserts every row in one transaction and rolls back on the
// first collision.
func importAtomic(ctx context.Context, database *sql.DB, rows []importRow) (*ImportOutput, error) {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewStorageFailure("import", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, r := range rows {
		err := db.Insert(ctx, tx, r.row)
		if err == db.ErrUniqueConstraint {
			collision, err := collisionError(ctx, tx, r)
			if err != nil {
				return nil, err
			}
			return &ImportOutput{Errors: []ImportError{collision}}, nil
		}
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewStorageFailure("import", err)
	}

	return &ImportOutput{
		Imported: len(rows),
		Errors:   []ImportError{},
	}, nil
}

// importEach imports rows one at a time, replacing or skipping existing names.
func importEach(ctx context.Context, database *sql.DB, mode ImportMode, rows []importRow, parseErrors []ImportError) (*ImportOutput, error) {
	out := &ImportOutput{
		Skipped: len(parseErrors),
		Errors:  parseErrors,
	}

	for _, r := range rows {
		if ctx.Err() != nil {
			return nil, errors.NewCancelled("import")
		}

		existing, err := db.GetByName(ctx, database, r.row.NameNorm)
		if err != nil && !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}

		switch {
		case existing == nil:
			if _, err := db.GetByID(ctx, database, r.row.ID); err == nil {
				// id taken by a record under another name
				r.row.ID = generateULID()
			} else if !errors.Is(err, errors.ErrNotFound) {
				return nil, err
			}
			err = db.Insert(ctx, database, r.row)
		case mode == ImportModeSkip:
			out.Skipped++
			continue
		default:
			r.row.ID = existing.ID
			err = db.Upsert(ctx, database, r.row)
		}
		if err != nil {
			return nil, err
		}
		out.Imported++
	}

	return out, nil
}

// collisionError reports which existing record a failed insert ran into.
// An id owned by a differently named record is an ID_COLLISION; anything
// else is a NAME_COLLISION.
func collisionError(ctx context.Context, q db.Querier, r importRow) (ImportError, error) {
	owner, err := db.GetByID(ctx, q, r.row.ID)
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		return ImportError{}, err
	}
	if owner != nil && owner.NameNorm != r.row.NameNorm {
		return ImportError{
			Line:    r.line,
			Name:    r.row.NameRaw,
			Code:    "ID_COLLISION",
			Message: fmt.Sprintf("id %s already belongs to saved selection %q", r.row.ID, owner.NameRaw),
		}, nil
	}
	return ImportError{
		Line:    r.line,
		Name:    r.row.NameRaw,
		Code:    "NAME_COLLISION",
		Message: fmt.Sprintf("saved selection %q already exists", r.row.NameRaw),
	}, nil
}
