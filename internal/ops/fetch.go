package ops

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/insult0o/pdfsel/internal/db"
	"github.com/insult0o/pdfsel/internal/errors"
	"github.com/insult0o/pdfsel/internal/selection"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	Name string // required
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	ID         string                     `json:"id"`
	Name       string                     `json:"name"`
	SavedAt    int64                      `json:"saved_at"`
	SavedBy    *string                    `json:"saved_by,omitempty"`
	Selection  selection.ExportSelection  `json:"selection"`
	Statistics selection.Statistics       `json:"statistics"`
	Validation selection.ValidationResult `json:"validation"`
}

// Fetch loads a saved selection by name. A missing record is NOT_FOUND and
// a record whose body cannot be rebuilt into a consistent selection is
// MALFORMED_RECORD.
func Fetch(ctx context.Context, database *sql.DB, input FetchInput) (*FetchOutput, error) {
	nameRaw, nameNorm, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}

	row, err := db.GetByName(ctx, database, nameNorm)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.NewNotFound(nameRaw)
		}
		return nil, err
	}

	sel, err := decodeSelection(row)
	if err != nil {
		return nil, err
	}

	return &FetchOutput{
		ID:         row.ID,
		Name:       row.NameRaw,
		SavedAt:    row.SavedAt,
		SavedBy:    row.SavedBy,
		Selection:  sel,
		Statistics: selection.Summarize(sel, 0),
		Validation: selection.Validate(sel),
	}, nil
}

// decodeSelection rebuilds the selection stored in row.
func decodeSelection(row *db.SavedSelection) (selection.ExportSelection, error) {
	var rec selection.Record
	if err := json.Unmarshal([]byte(row.SelectionJSON), &rec); err != nil {
		return selection.ExportSelection{}, errors.NewMalformedRecord(row.NameRaw, err)
	}
	sel, err := rec.ToSelection()
	if err != nil {
		return selection.ExportSelection{}, errors.NewMalformedRecord(row.NameRaw, err)
	}
	return sel, nil
}
