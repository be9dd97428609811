// Package selection models what is selected for export from a processed
// document: zone and page items plus the derived zone/page sets and count.
//
// Every operation in this package is a pure function. It returns a new,
// fully consistent ExportSelection and never mutates its input, which is
// what lets the history stack keep plain snapshots.
package selection

// Kind identifies what a selection item refers to.
type Kind string

const (
	KindZone Kind = "zone"
	KindPage Kind = "page"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindZone, KindPage:
		return true
	default:
		return false
	}
}

// Mode is the selection strategy in effect.
type Mode string

const (
	ModeZones Mode = "zones"
	ModePages Mode = "pages"
	ModeAll   Mode = "all"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeZones, ModePages, ModeAll:
		return true
	default:
		return false
	}
}

// ValidationStatus is the per-item review status.
type ValidationStatus string

const (
	StatusValid   ValidationStatus = "valid"
	StatusWarning ValidationStatus = "warning"
	StatusInvalid ValidationStatus = "invalid"
)

// Valid reports whether s is a known status.
func (s ValidationStatus) Valid() bool {
	switch s {
	case StatusValid, StatusWarning, StatusInvalid:
		return true
	default:
		return false
	}
}

// Boundaries locates an item on its page. Page items use a zero rectangle.
type Boundaries struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Page   int     `json:"page"`
}

// Item is one selectable unit (a zone or a whole page).
type Item struct {
	ID               string           `json:"id"`
	Kind             Kind             `json:"kind"`
	Boundaries       Boundaries       `json:"boundaries"`
	Dependencies     []string         `json:"dependencies"`
	ContentPreview   string           `json:"content_preview"`
	IncludeInExport  bool             `json:"include_in_export"`
	ValidationStatus ValidationStatus `json:"validation_status"`
}

// clone returns a copy of the item that shares no memory with it.
func (it Item) clone() Item {
	if it.Dependencies != nil {
		it.Dependencies = append([]string(nil), it.Dependencies...)
	}
	return it
}

// ExportSelection is the aggregate selection state.
//
// ZoneIDs, PageNumbers and TotalCount are derived from Items and are
// recomputed by every operation; callers must not edit them directly.
type ExportSelection struct {
	Mode        Mode        `json:"mode"`
	ZoneIDs     Set[string] `json:"zone_ids"`
	PageNumbers Set[int]    `json:"page_numbers"`
	Items       []Item      `json:"items"`
	TotalCount  int         `json:"total_count"`
}

// Clone returns a deep copy of the selection.
func (s ExportSelection) Clone() ExportSelection {
	out := ExportSelection{
		Mode:        s.Mode,
		ZoneIDs:     s.ZoneIDs.Clone(),
		PageNumbers: s.PageNumbers.Clone(),
		TotalCount:  s.TotalCount,
	}
	if s.Items != nil {
		out.Items = make([]Item, len(s.Items))
		for i, it := range s.Items {
			out.Items[i] = it.clone()
		}
	}
	return out
}

// Find returns the item with the given id.
func (s ExportSelection) Find(id string) (Item, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// ZoneType is the content type of a detected zone.
type ZoneType string

const (
	ZoneText    ZoneType = "text"
	ZoneTable   ZoneType = "table"
	ZoneImage   ZoneType = "image"
	ZoneDiagram ZoneType = "diagram"
	ZoneHeader  ZoneType = "header"
	ZoneFooter  ZoneType = "footer"
	ZoneUnknown ZoneType = "unknown"
)

// Valid reports whether t is a known zone type.
func (t ZoneType) Valid() bool {
	switch t {
	case ZoneText, ZoneTable, ZoneImage, ZoneDiagram, ZoneHeader, ZoneFooter, ZoneUnknown:
		return true
	default:
		return false
	}
}

// Rect is a zone rectangle in page coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Zone is a detected content region supplied by the document provider.
// The selection code only reads these fields.
type Zone struct {
	ID           string   `json:"id"`
	Page         int      `json:"page_number"`
	Type         ZoneType `json:"zone_type"`
	Coordinates  Rect     `json:"coordinates"`
	Confidence   float64  `json:"confidence"`
	Content      string   `json:"content"`
	Dependencies []string `json:"dependencies,omitempty"`
}
