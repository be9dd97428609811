// Package history implements linear undo/redo over selection snapshots.
//
// Past is ordered oldest first and behaves as a stack. Future is ordered
// nearest redo first: Undo pushes onto its head and Redo shifts from its
// head, so "undo, undo, redo" lands exactly one undo back. A new Push
// discards the whole future.
//
// History is a value. Every method returns a new History whose slices are
// not aliased with the receiver's. Snapshots in Past and Future are shared
// between History values and are never mutated; Present is always a
// private copy. Clone copies everything.
package history

import (
	"slices"

	"github.com/insult0o/pdfsel/internal/selection"
)

// History holds the undo/redo timeline around the present selection.
type History struct {
	Past    []selection.ExportSelection `json:"past"`
	Present selection.ExportSelection   `json:"present"`
	Future  []selection.ExportSelection `json:"future"`
}

// New starts a timeline at present with nothing to undo or redo.
func New(present selection.ExportSelection) History {
	return History{
		Past:    []selection.ExportSelection{},
		Present: present.Clone(),
		Future:  []selection.ExportSelection{},
	}
}

// Push makes next the present, moves the old present onto Past and clears Future.
func (h History) Push(next selection.ExportSelection) History {
	return History{
		Past:    append(slices.Clip(h.Past), h.Present.Clone()),
		Present: next.Clone(),
		Future:  []selection.ExportSelection{},
	}
}

// Undo steps back one snapshot. It is a no-op when Past is empty.
func (h History) Undo() History {
	if !h.CanUndo() {
		return h.Clone()
	}
	last := len(h.Past) - 1
	future := make([]selection.ExportSelection, 0, len(h.Future)+1)
	future = append(future, h.Present.Clone())
	future = append(future, h.Future...)
	return History{
		Past:    slices.Clone(h.Past[:last]),
		Present: h.Past[last].Clone(),
		Future:  future,
	}
}

// Redo steps forward one snapshot. It is a no-op when Future is empty.
func (h History) Redo() History {
	if !h.CanRedo() {
		return h.Clone()
	}
	return History{
		Past:    append(slices.Clip(h.Past), h.Present.Clone()),
		Present: h.Future[0].Clone(),
		Future:  slices.Clone(h.Future[1:]),
	}
}

// CanUndo reports whether Past is non-empty.
func (h History) CanUndo() bool {
	return len(h.Past) > 0
}

// CanRedo reports whether Future is non-empty.
func (h History) CanRedo() bool {
	return len(h.Future) > 0
}

// Clear empties Past and Future and keeps Present.
func (h History) Clear() History {
	return New(h.Present)
}

// Clone returns a deep copy.
func (h History) Clone() History {
	return History{
		Past:    cloneAll(h.Past),
		Present: h.Present.Clone(),
		Future:  cloneAll(h.Future),
	}
}

func cloneAll(snaps []selection.ExportSelection) []selection.ExportSelection {
	out := make([]selection.ExportSelection, len(snaps))
	for i, s := range snaps {
		out[i] = s.Clone()
	}
	return out
}
