package selection

import (
	"fmt"
	"slices"
)

// Record is the persisted form of an ExportSelection. Sets become sorted
// arrays because JSON has no set type; ToSelection rebuilds them.
type Record struct {
	Mode        Mode     `json:"mode"`
	ZoneIDs     []string `json:"zone_ids"`
	PageNumbers []int    `json:"page_numbers"`
	Items       []Item   `json:"items"`
	TotalCount  int      `json:"total_count"`
}

// ToRecord converts a selection to its persisted form.
func ToRecord(sel ExportSelection) Record {
	items := cloneItems(sel.Items)
	return Record{
		Mode:        sel.Mode,
		ZoneIDs:     sel.ZoneIDs.Sorted(),
		PageNumbers: sel.PageNumbers.Sorted(),
		Items:       items,
		TotalCount:  sel.TotalCount,
	}
}

// ToSelection rebuilds a selection from its persisted form.
// It fails when the record uses unknown enum values, repeats an item id,
// or carries sets and counts that disagree with its items.
func (r Record) ToSelection() (ExportSelection, error) {
	if !r.Mode.Valid() {
		return ExportSelection{}, fmt.Errorf("unknown mode %q", r.Mode)
	}
	seen := make(map[string]bool, len(r.Items))
	for i, it := range r.Items {
		if !it.Kind.Valid() {
			return ExportSelection{}, fmt.Errorf("items[%d]: unknown kind %q", i, it.Kind)
		}
		if !it.ValidationStatus.Valid() {
			return ExportSelection{}, fmt.Errorf("items[%d]: unknown validation status %q", i, it.ValidationStatus)
		}
		if seen[it.ID] {
			return ExportSelection{}, fmt.Errorf("items[%d]: duplicate id %q", i, it.ID)
		}
		seen[it.ID] = true
	}

	sel := ExportSelection{
		Mode:        r.Mode,
		ZoneIDs:     NewSet(r.ZoneIDs...),
		PageNumbers: NewSet(r.PageNumbers...),
		Items:       cloneItems(r.Items),
		TotalCount:  r.TotalCount,
	}

	derived := build(r.Mode, cloneItems(r.Items))
	if derived.TotalCount != sel.TotalCount ||
		!slices.Equal(derived.ZoneIDs.Sorted(), sel.ZoneIDs.Sorted()) ||
		!slices.Equal(derived.PageNumbers.Sorted(), sel.PageNumbers.Sorted()) {
		return ExportSelection{}, fmt.Errorf("derived fields disagree with items")
	}
	return sel, nil
}
