// Package store is the stateful facade over the selection model, the
// undo/redo history, the conflict tracker and persistence.
//
// Every mutation goes through setSelection, which pushes the new snapshot
// onto the history and stamps LastModified, so the committed selection and
// history.Present are always the same value. A Store is safe for
// concurrent use; each method runs to completion under one mutex.
// Persistence I/O runs outside the lock on a snapshot taken under it.
package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/insult0o/pdfsel/internal/conflict"
	"github.com/insult0o/pdfsel/internal/errors"
	"github.com/insult0o/pdfsel/internal/history"
	"github.com/insult0o/pdfsel/internal/selection"
)

// Persistence is durable named storage for selection snapshots.
//
// Load reports found=false for names that are absent or whose record
// cannot be decoded. Errors are reserved for storage failures.
type Persistence interface {
	Save(ctx context.Context, name string, sel selection.ExportSelection, savedBy *string) error
	Load(ctx context.Context, name string) (sel selection.ExportSelection, found bool, err error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}

// Options configures a Store. Zero values select defaults.
type Options struct {
	// Persistence defaults to an in-memory store stamped by Clock.
	Persistence Persistence
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// User is recorded as savedBy when saving. Empty means unset.
	User string
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Store holds one session's selection state.
type Store struct {
	mu sync.Mutex

	persist Persistence
	log     *slog.Logger
	user    string
	now     func() time.Time

	sel          selection.ExportSelection
	hist         history.History
	conflicts    conflict.Tracker
	temp         *selection.ExportSelection
	lastModified time.Time
}

// New returns a Store with an empty selection.
func New(opts Options) *Store {
	s := &Store{
		persist: opts.Persistence,
		log:     opts.Logger,
		user:    opts.User,
		now:     opts.Clock,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.persist == nil {
		mem := NewMemoryPersistence()
		mem.now = s.now
		s.persist = mem
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.resetLocked()
	return s
}

func (s *Store) resetLocked() {
	s.sel = selection.Empty()
	s.hist = history.New(s.sel)
	s.conflicts.Clear()
	s.temp = nil
	s.lastModified = s.now()
}

// setSelection commits next. Callers must hold s.mu.
func (s *Store) setSelection(next selection.ExportSelection) selection.ExportSelection {
	next = selection.Replace(next)
	s.hist = s.hist.Push(next)
	s.sel = next
	s.lastModified = s.now()
	return s.sel.Clone()
}

// mutate applies fn to the committed selection and commits the result.
func (s *Store) mutate(fn func(selection.ExportSelection) selection.ExportSelection) selection.ExportSelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setSelection(fn(s.sel))
}

// Selection returns a copy of the committed selection.
func (s *Store) Selection() selection.ExportSelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Clone()
}

// Snapshot is the committed selection together with the values derived
// from it, all read at the same point in time.
type Snapshot struct {
	Selection  selection.ExportSelection
	Statistics selection.Statistics
	CanUndo    bool
	CanRedo    bool
}

// Snapshot returns the selection, its statistics and the undo/redo flags
// under one lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Selection:  s.sel.Clone(),
		Statistics: selection.Summarize(s.sel, s.conflicts.Pending()),
		CanUndo:    s.hist.CanUndo(),
		CanRedo:    s.hist.CanRedo(),
	}
}

// History returns a copy of the undo/redo timeline.
func (s *Store) History() history.History {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.Clone()
}

// LastModified is the time of the last state change, including undo and redo.
func (s *Store) LastModified() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastModified
}

// SetSelection commits sel. Its derived sets and count are recomputed
// from its items.
func (s *Store) SetSelection(sel selection.ExportSelection) selection.ExportSelection {
	return s.mutate(func(selection.ExportSelection) selection.ExportSelection { return sel })
}

// UpdateSelection commits fn(current).
func (s *Store) UpdateSelection(fn func(selection.ExportSelection) selection.ExportSelection) selection.ExportSelection {
	return s.mutate(fn)
}

// AddItems appends items whose ids are not already present.
func (s *Store) AddItems(items []selection.Item) selection.ExportSelection {
	return s.mutate(func(cur selection.ExportSelection) selection.ExportSelection {
		return selection.AddItems(cur, items)
	})
}

// RemoveItems drops the items with the given ids. Unknown ids are ignored.
func (s *Store) RemoveItems(ids []string) selection.ExportSelection {
	return s.mutate(func(cur selection.ExportSelection) selection.ExportSelection {
		return selection.RemoveItems(cur, ids)
	})
}

// ToggleItem flips whether id is included. Unknown ids are ignored.
func (s *Store) ToggleItem(id string) selection.ExportSelection {
	return s.mutate(func(cur selection.ExportSelection) selection.ExportSelection {
		return selection.ToggleItem(cur, id)
	})
}

// SelectAll selects every zone and page.
func (s *Store) SelectAll(zones []selection.Zone, pages []int) selection.ExportSelection {
	return s.mutate(func(selection.ExportSelection) selection.ExportSelection {
		return selection.SelectAll(zones, pages)
	})
}

// SelectNone replaces the selection with an empty one.
func (s *Store) SelectNone() selection.ExportSelection {
	return s.mutate(func(selection.ExportSelection) selection.ExportSelection {
		return selection.SelectNone()
	})
}

// SelectByType selects the zones of type t.
func (s *Store) SelectByType(t selection.ZoneType, zones []selection.Zone) selection.ExportSelection {
	return s.mutate(func(selection.ExportSelection) selection.ExportSelection {
		return selection.SelectByType(t, zones)
	})
}

// SelectByPage selects the given pages and the zones on them.
func (s *Store) SelectByPage(pages []int, zones []selection.Zone) selection.ExportSelection {
	return s.mutate(func(selection.ExportSelection) selection.ExportSelection {
		return selection.SelectByPage(pages, zones)
	})
}

// SelectByConfidence selects zones whose confidence is below threshold.
func (s *Store) SelectByConfidence(threshold float64, zones []selection.Zone) selection.ExportSelection {
	return s.mutate(func(selection.ExportSelection) selection.ExportSelection {
		return selection.SelectByConfidence(threshold, zones)
	})
}

// Undo steps back one snapshot. It reports false when there is nothing to undo.
func (s *Store) Undo() (selection.ExportSelection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hist.CanUndo() {
		return s.sel.Clone(), false
	}
	s.hist = s.hist.Undo()
	s.sel = s.hist.Present.Clone()
	s.lastModified = s.now()
	return s.sel.Clone(), true
}

// Redo re-applies the most recently undone snapshot. It reports false when
// there is nothing to redo.
func (s *Store) Redo() (selection.ExportSelection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hist.CanRedo() {
		return s.sel.Clone(), false
	}
	s.hist = s.hist.Redo()
	s.sel = s.hist.Present.Clone()
	s.lastModified = s.now()
	return s.sel.Clone(), true
}

// CanUndo reports whether Undo would change state.
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.CanUndo()
}

// CanRedo reports whether Redo would change state.
func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.CanRedo()
}

// ClearHistory drops the undo and redo stacks and keeps the selection.
func (s *Store) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hist = s.hist.Clear()
}

// AddConflict records c and returns it with its id and resolution filled in.
func (s *Store) AddConflict(c conflict.Conflict) (conflict.Conflict, error) {
	if c.ItemID == "" {
		return conflict.Conflict{}, errors.NewInvalidRequest("item_id is required")
	}
	if c.Resolution == "" {
		c.Resolution = conflict.ResolutionPending
	}
	if !c.Resolution.Valid() {
		return conflict.Conflict{}, errors.NewInvalidRequest("resolution must be one of: include, exclude, pending")
	}
	if c.ID == "" {
		c.ID = ulid.Make().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conflicts.Add(c)
	return c, nil
}

// ResolveConflict sets the resolution of every conflict on itemID and
// returns how many matched. Include and exclude also set the item's
// inclusion flag through an undoable commit. When the item does not exist
// only the conflict records change.
func (s *Store) ResolveConflict(itemID string, r conflict.Resolution) (int, error) {
	if !r.Valid() {
		return 0, errors.NewInvalidRequest("resolution must be one of: include, exclude, pending")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.conflicts.Resolve(itemID, r)
	if r == conflict.ResolutionPending {
		return n, nil
	}

	next, found := selection.SetInclusion(s.sel, itemID, r == conflict.ResolutionInclude)
	if !found {
		s.log.Warn("conflict resolved for missing item",
			"item_id", itemID,
			"resolution", string(r),
			"conflicts", n,
		)
		return n, nil
	}
	s.setSelection(next)
	return n, nil
}

// ClearConflicts drops every conflict.
func (s *Store) ClearConflicts() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conflicts.Clear()
}

// Conflicts returns the recorded conflicts in insertion order.
func (s *Store) Conflicts() []conflict.Conflict {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conflicts.List()
}

// Statistics summarizes the committed selection.
func (s *Store) Statistics() selection.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return selection.Summarize(s.sel, s.conflicts.Pending())
}

// Validate checks the committed selection for export readiness.
func (s *Store) Validate() selection.ValidationResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return selection.Validate(s.sel)
}

// SetTempSelection stores a preview that is not committed. nil clears it.
func (s *Store) SetTempSelection(sel *selection.ExportSelection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sel == nil {
		s.temp = nil
		return
	}
	preview := selection.Replace(*sel)
	s.temp = &preview
}

// TempSelection returns the preview, if any.
func (s *Store) TempSelection() (selection.ExportSelection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.temp == nil {
		return selection.ExportSelection{}, false
	}
	return s.temp.Clone(), true
}

// ApplyTempSelection commits the preview and clears it. It reports false
// when there is no preview.
func (s *Store) ApplyTempSelection() (selection.ExportSelection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.temp == nil {
		return s.sel.Clone(), false
	}
	next := *s.temp
	s.temp = nil
	return s.setSelection(next), true
}

// Reset returns the Store to its initial empty state. Saved selections
// are not touched.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// SaveSelection persists the committed selection under name. A storage
// failure is returned and leaves the Store unchanged.
func (s *Store) SaveSelection(ctx context.Context, name string) error {
	s.mu.Lock()
	snapshot := s.sel.Clone()
	s.mu.Unlock()

	var savedBy *string
	if s.user != "" {
		savedBy = &s.user
	}
	if err := s.persist.Save(ctx, name, snapshot, savedBy); err != nil {
		return err
	}
	s.log.Debug("selection saved", "name", name, "total_count", snapshot.TotalCount)
	return nil
}

// LoadSelection commits the selection saved under name as an undoable
// change. It reports false, changing nothing, when the name is unknown.
func (s *Store) LoadSelection(ctx context.Context, name string) (bool, error) {
	loaded, found, err := s.persist.Load(ctx, name)
	if err != nil {
		return false, err
	}
	if !found {
		s.log.Debug("saved selection not found", "name", name)
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setSelection(loaded)
	return true, nil
}

// SavedSelections lists the saved names.
func (s *Store) SavedSelections(ctx context.Context) ([]string, error) {
	return s.persist.List(ctx)
}

// DeleteSavedSelection removes a saved selection. Unknown names are a no-op.
func (s *Store) DeleteSavedSelection(ctx context.Context, name string) error {
	return s.persist.Delete(ctx, name)
}
