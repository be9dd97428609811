package ops

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/insult0o/pdfsel/internal/db"
	"github.com/insult0o/pdfsel/internal/errors"
	"github.com/insult0o/pdfsel/internal/selection"
)

// SaveMode controls collision behavior.
type SaveMode string

const (
	SaveModeReplace SaveMode = "replace" // default: last write wins
	SaveModeError   SaveMode = "error"   // fail on name collision
)

// SaveInput contains parameters for the Save operation.
type SaveInput struct {
	Name      string // required
	Selection selection.ExportSelection
	SavedBy   *string
	Mode      SaveMode // default: SaveModeReplace
}

// SaveOutput contains the result of the Save operation.
type SaveOutput struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SavedAt    int64  `json:"saved_at"`
	TotalCount int    `json:"total_count"`
	ItemCount  int    `json:"item_count"`
}

// Save writes a selection under name. Names are matched after
// normalization, so "Chapter 1" and "chapter  1" address the same record.
func Save(ctx context.Context, database *sql.DB, input SaveInput) (*SaveOutput, error) {
	nameRaw, nameNorm, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}
	if input.Mode == "" {
		input.Mode = SaveModeReplace
	}
	if input.Mode != SaveModeReplace && input.Mode != SaveModeError {
		return nil, errors.NewInvalidRequest("mode must be one of: replace, error")
	}

	row, err := newSavedRow(nameRaw, nameNorm, input.Selection, cleanOptionalString(input.SavedBy), time.Now().Unix())
	if err != nil {
		return nil, err
	}

	if input.Mode == SaveModeError {
		err = db.Insert(ctx, database, row)
		if err == db.ErrUniqueConstraint {
			return nil, errors.NewNameAlreadyExists(nameRaw)
		}
	} else {
		err = db.Upsert(ctx, database, row)
	}
	if err != nil {
		return nil, err
	}

	return &SaveOutput{
		ID:         row.ID,
		Name:       row.NameRaw,
		SavedAt:    row.SavedAt,
		TotalCount: row.TotalCount,
		ItemCount:  row.ItemCount,
	}, nil
}

// newSavedRow serializes sel into a row with a fresh id.
func newSavedRow(nameRaw, nameNorm string, sel selection.ExportSelection, savedBy *string, savedAt int64) (*db.SavedSelection, error) {
	sel = selection.Replace(sel)
	body, err := json.Marshal(selection.ToRecord(sel))
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return &db.SavedSelection{
		Summary: db.Summary{
			ID:         generateULID(),
			NameRaw:    nameRaw,
			NameNorm:   nameNorm,
			Mode:       string(sel.Mode),
			TotalCount: sel.TotalCount,
			ItemCount:  len(sel.Items),
			SavedAt:    savedAt,
			SavedBy:    savedBy,
		},
		SelectionJSON: string(body),
	}, nil
}
