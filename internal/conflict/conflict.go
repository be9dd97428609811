// Package conflict tracks disagreements about whether an item belongs in
// the export. The tracker only records them; applying a resolution to the
// selection is the caller's job.
package conflict

import "slices"

// Resolution is the decision recorded for a conflict.
type Resolution string

const (
	ResolutionInclude Resolution = "include"
	ResolutionExclude Resolution = "exclude"
	ResolutionPending Resolution = "pending"
)

// Valid reports whether r is a known resolution.
func (r Resolution) Valid() bool {
	switch r {
	case ResolutionInclude, ResolutionExclude, ResolutionPending:
		return true
	default:
		return false
	}
}

// Conflict is one recorded disagreement about an item.
// ItemID need not refer to an item that currently exists.
type Conflict struct {
	ID         string     `json:"id"`
	ItemID     string     `json:"item_id"`
	Reason     string     `json:"reason"`
	Resolution Resolution `json:"resolution"`
}

// Tracker holds conflicts in the order they were added.
// The zero value is ready to use.
type Tracker struct {
	conflicts []Conflict
}

// Add appends c. Several conflicts may name the same item.
// An unset resolution is recorded as pending.
func (t *Tracker) Add(c Conflict) {
	if c.Resolution == "" {
		c.Resolution = ResolutionPending
	}
	t.conflicts = append(t.conflicts, c)
}

// Resolve sets the resolution of every conflict naming itemID and
// returns how many were updated.
func (t *Tracker) Resolve(itemID string, r Resolution) int {
	n := 0
	for i := range t.conflicts {
		if t.conflicts[i].ItemID == itemID {
			t.conflicts[i].Resolution = r
			n++
		}
	}
	return n
}

// Clear drops every conflict.
func (t *Tracker) Clear() {
	t.conflicts = nil
}

// List returns a copy of the conflicts.
func (t *Tracker) List() []Conflict {
	out := slices.Clone(t.conflicts)
	if out == nil {
		out = []Conflict{}
	}
	return out
}

// Pending returns the number of unresolved conflicts.
func (t *Tracker) Pending() int {
	n := 0
	for _, c := range t.conflicts {
		if c.Resolution == ResolutionPending {
			n++
		}
	}
	return n
}
