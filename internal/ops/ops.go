package ops

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/insult0o/pdfsel/internal/errors"
	"github.com/insult0o/pdfsel/internal/selection"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	MaxNameLength    = 200
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// validateName trims name and returns it with its normalized form.
func validateName(name string) (raw, norm string, err error) {
	raw = strings.TrimSpace(name)
	if raw == "" {
		return "", "", errors.NewInvalidRequest("name is required")
	}
	if len([]rune(raw)) > MaxNameLength {
		return "", "", errors.NewInvalidRequest("name is too long")
	}
	norm = selection.NormalizeName(raw)
	if norm == "" {
		return "", "", errors.NewInvalidRequest("name must not be empty")
	}
	return raw, norm, nil
}

// cleanOptionalString trims s and returns nil when nothing is left.
func cleanOptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// generateULID generates a new ULID string.
func generateULID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
