package ops

import (
	"context"
	"database/sql"

	"github.com/insult0o/pdfsel/internal/db"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Limit  int // default: 20, max: 100
	Offset int // default: 0
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []db.Summary `json:"items"`
	Pagination Pagination   `json:"pagination"`
	Sort       string       `json:"sort"`
}

// List retrieves saved-selection summaries with pagination.
func List(ctx context.Context, database *sql.DB, input ListInput) (*ListOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	offset := max(input.Offset, 0)

	summaries, err := db.ListSummaries(ctx, database, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := db.Count(ctx, database)
	if err != nil {
		return nil, err
	}

	return &ListOutput{
		Items: summaries,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(summaries) < total,
			Total:   total,
		},
		Sort: "saved_at_desc",
	}, nil
}

// ListNames returns the names of every saved selection.
func ListNames(ctx context.Context, database *sql.DB) ([]string, error) {
	return db.ListNames(ctx, database)
}
