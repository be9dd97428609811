package ops

import (
	"context"
	"database/sql"

	"github.com/insult0o/pdfsel/internal/errors"
	"github.com/insult0o/pdfsel/internal/selection"
)

// Persister adapts the saved-selection operations to the store's
// persistence interface.
type Persister struct {
	DB *sql.DB
}

// Save upserts sel under name.
func (p Persister) Save(ctx context.Context, name string, sel selection.ExportSelection, savedBy *string) error {
	_, err := Save(ctx, p.DB, SaveInput{Name: name, Selection: sel, SavedBy: savedBy})
	return err
}

// Load returns the selection saved under name. Missing and malformed
// records both report found=false; only storage errors are returned.
func (p Persister) Load(ctx context.Context, name string) (selection.ExportSelection, bool, error) {
	out, err := Fetch(ctx, p.DB, FetchInput{Name: name})
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) || errors.Is(err, errors.ErrMalformedRecord) || errors.Is(err, errors.ErrInvalidRequest) {
			return selection.ExportSelection{}, false, nil
		}
		return selection.ExportSelection{}, false, err
	}
	return out.Selection, true, nil
}

// List returns every saved name.
func (p Persister) List(ctx context.Context) ([]string, error) {
	return ListNames(ctx, p.DB)
}

// Delete removes name if present.
func (p Persister) Delete(ctx context.Context, name string) error {
	_, err := Delete(ctx, p.DB, DeleteInput{Name: name})
	return err
}
