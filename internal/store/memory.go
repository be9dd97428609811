package store

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/insult0o/pdfsel/internal/errors"
	"github.com/insult0o/pdfsel/internal/selection"
)

type memoryRecord struct {
	Name    string          `json:"name"`
	SavedAt time.Time       `json:"saved_at"`
	SavedBy *string         `json:"saved_by,omitempty"`
	Body    json.RawMessage `json:"selection"`
}

// SavedSelection is one named snapshot held by MemoryPersistence.
type SavedSelection struct {
	Name      string
	Selection selection.ExportSelection
	SavedAt   time.Time
	SavedBy   *string
}

// MemoryPersistence keeps saved selections in process memory, serialized
// the same way the database does. Names are matched after normalization.
type MemoryPersistence struct {
	mu      sync.Mutex
	records map[string]memoryRecord
	now     func() time.Time
}

// NewMemoryPersistence returns an empty MemoryPersistence.
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{records: make(map[string]memoryRecord), now: time.Now}
}

// Save overwrites any record with the same normalized name.
func (m *MemoryPersistence) Save(_ context.Context, name string, sel selection.ExportSelection, savedBy *string) error {
	key := selection.NormalizeName(name)
	if key == "" {
		return errors.NewInvalidRequest("name is required")
	}
	body, err := json.Marshal(selection.ToRecord(sel))
	if err != nil {
		return errors.NewInternal(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = memoryRecord{Name: name, SavedAt: m.now().UTC(), SavedBy: savedBy, Body: body}
	return nil
}

// Load rebuilds the selection saved under name.
func (m *MemoryPersistence) Load(ctx context.Context, name string) (selection.ExportSelection, bool, error) {
	saved, ok, err := m.Get(ctx, name)
	return saved.Selection, ok, err
}

// Get returns the full record saved under name, including when and by
// whom it was saved.
func (m *MemoryPersistence) Get(_ context.Context, name string) (SavedSelection, bool, error) {
	m.mu.Lock()
	rec, ok := m.records[selection.NormalizeName(name)]
	m.mu.Unlock()
	if !ok {
		return SavedSelection{}, false, nil
	}

	var r selection.Record
	if err := json.Unmarshal(rec.Body, &r); err != nil {
		return SavedSelection{}, false, nil
	}
	sel, err := r.ToSelection()
	if err != nil {
		return SavedSelection{}, false, nil
	}
	return SavedSelection{Name: rec.Name, Selection: sel, SavedAt: rec.SavedAt, SavedBy: rec.SavedBy}, true, nil
}

// List returns the saved names sorted.
func (m *MemoryPersistence) List(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.records))
	for _, rec := range m.records {
		names = append(names, rec.Name)
	}
	slices.Sort(names)
	return names, nil
}

// Delete removes name if present.
func (m *MemoryPersistence) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, selection.NormalizeName(name))
	return nil
}
