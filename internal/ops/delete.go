package ops

import (
	"context"
	"database/sql"

	"github.com/insult0o/pdfsel/internal/db"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	Name string // required
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	Name    string `json:"name"`
}

// Delete removes a saved selection. Deleting a name that does not exist
// succeeds with Deleted=false.
func Delete(ctx context.Context, database *sql.DB, input DeleteInput) (*DeleteOutput, error) {
	nameRaw, nameNorm, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}

	deleted, err := db.DeleteByName(ctx, database, nameNorm)
	if err != nil {
		return nil, err
	}

	return &DeleteOutput{
		Deleted: deleted,
		Name:    nameRaw,
	}, nil
}
