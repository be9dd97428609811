package selection

// State classifies a selection by how much of it is included.
type State string

const (
	StateEmpty   State = "empty"
	StatePartial State = "partial"
	StateFull    State = "full"
)

// Statistics summarizes a selection for display.
type Statistics struct {
	TotalItems    int     `json:"total_items"`
	SelectedItems int     `json:"selected_items"`
	SelectedZones int     `json:"selected_zones"`
	SelectedPages int     `json:"selected_pages"`
	Conflicts     int     `json:"conflicts"`
	Coverage      float64 `json:"coverage"`
	State         State   `json:"state"`
}

// StateOf returns the selection state: empty when nothing is included,
// full when every item is included, partial otherwise.
func StateOf(sel ExportSelection) State {
	switch {
	case sel.TotalCount == 0:
		return StateEmpty
	case sel.TotalCount == len(sel.Items):
		return StateFull
	default:
		return StatePartial
	}
}

// Summarize computes statistics for sel. pendingConflicts is supplied by
// the conflict tracker. Coverage is 0 when there are no items.
func Summarize(sel ExportSelection, pendingConflicts int) Statistics {
	total := len(sel.Items)
	coverage := 0.0
	if total > 0 {
		coverage = float64(sel.TotalCount) / float64(total) * 100
	}
	return Statistics{
		TotalItems:    total,
		SelectedItems: sel.TotalCount,
		SelectedZones: sel.ZoneIDs.Len(),
		SelectedPages: sel.PageNumbers.Len(),
		Conflicts:     pendingConflicts,
		Coverage:      coverage,
		State:         StateOf(sel),
	}
}
