package selection

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// PreviewMaxChars is the maximum rune length of an item's content preview.
	PreviewMaxChars = 100

	// LowConfidence is the cutoff below which a zone item is marked as a warning.
	LowConfidence = 0.5

	pageIDPrefix = "page_"
)

// Empty returns the initial selection: zones mode, no items.
func Empty() ExportSelection {
	return ExportSelection{
		Mode:        ModeZones,
		ZoneIDs:     NewSet[string](),
		PageNumbers: NewSet[int](),
		Items:       []Item{},
		TotalCount:  0,
	}
}

// PageItemID returns the synthesized id of the page item for page n.
func PageItemID(n int) string {
	return pageIDPrefix + strconv.Itoa(n)
}

// pageNumberOf returns the page number a page item stands for.
// The id is authoritative; Boundaries.Page covers ids that do not parse.
func pageNumberOf(it Item) int {
	if rest, ok := strings.CutPrefix(it.ID, pageIDPrefix); ok {
		if n, err := strconv.Atoi(rest); err == nil {
			return n
		}
	}
	return it.Boundaries.Page
}

// build derives ZoneIDs, PageNumbers and TotalCount from items.
// items is owned by the returned selection.
func build(mode Mode, items []Item) ExportSelection {
	if items == nil {
		items = []Item{}
	}
	sel := ExportSelection{
		Mode:        mode,
		ZoneIDs:     NewSet[string](),
		PageNumbers: NewSet[int](),
		Items:       items,
	}
	for _, it := range items {
		if !it.IncludeInExport {
			continue
		}
		sel.TotalCount++
		switch it.Kind {
		case KindZone:
			sel.ZoneIDs[it.ID] = struct{}{}
		case KindPage:
			sel.PageNumbers[pageNumberOf(it)] = struct{}{}
		}
	}
	return sel
}

// cloneItems copies items so the result shares no memory with the input.
func cloneItems(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		out = append(out, it.clone())
	}
	return out
}

// uniqueItems keeps the first item for every id.
func uniqueItems(items []Item) []Item {
	seen := make(map[string]bool, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		out = append(out, it)
	}
	return out
}

// Replace returns sel with its derived fields recomputed from its items.
// For a consistent selection this is the identity. An unset or unknown
// mode falls back to ModeZones and repeated ids keep their first item.
func Replace(sel ExportSelection) ExportSelection {
	mode := sel.Mode
	if !mode.Valid() {
		mode = ModeZones
	}
	return build(mode, uniqueItems(cloneItems(sel.Items)))
}

// AddItems appends the items whose id is not already present.
// Duplicates (against cur or within items) are dropped silently.
func AddItems(cur ExportSelection, items []Item) ExportSelection {
	seen := make(map[string]bool, len(cur.Items)+len(items))
	for _, it := range cur.Items {
		seen[it.ID] = true
	}

	next := cloneItems(cur.Items)
	added := 0
	for _, it := range items {
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		next = append(next, it.clone())
		added++
	}
	if added == 0 {
		return cur.Clone()
	}
	return build(cur.Mode, next)
}

// RemoveItems drops every item whose id is in ids. Unknown ids are ignored.
func RemoveItems(cur ExportSelection, ids []string) ExportSelection {
	drop := NewSet(ids...)
	next := make([]Item, 0, len(cur.Items))
	for _, it := range cur.Items {
		if drop.Has(it.ID) {
			continue
		}
		next = append(next, it.clone())
	}
	return build(cur.Mode, next)
}

// ToggleItem flips IncludeInExport on the item with the given id.
// An unknown id leaves the selection unchanged.
func ToggleItem(cur ExportSelection, id string) ExportSelection {
	next := cloneItems(cur.Items)
	for i := range next {
		if next[i].ID == id {
			next[i].IncludeInExport = !next[i].IncludeInExport
			break
		}
	}
	return build(cur.Mode, next)
}

// SetInclusion sets IncludeInExport on the item with the given id.
// found is false when no such item exists; the selection is then unchanged.
func SetInclusion(cur ExportSelection, id string, include bool) (next ExportSelection, found bool) {
	items := cloneItems(cur.Items)
	for i := range items {
		if items[i].ID == id {
			items[i].IncludeInExport = include
			found = true
			break
		}
	}
	return build(cur.Mode, items), found
}

// ZoneItem builds an included selection item for a zone.
func ZoneItem(z Zone, status ValidationStatus) Item {
	var deps []string
	if z.Dependencies != nil {
		deps = append([]string(nil), z.Dependencies...)
	}
	return Item{
		ID:   z.ID,
		Kind: KindZone,
		Boundaries: Boundaries{
			X:      z.Coordinates.X,
			Y:      z.Coordinates.Y,
			Width:  z.Coordinates.Width,
			Height: z.Coordinates.Height,
			Page:   z.Page,
		},
		Dependencies:     deps,
		ContentPreview:   Preview(z.Content),
		IncludeInExport:  true,
		ValidationStatus: status,
	}
}

// PageItem builds an included selection item for page n.
func PageItem(n int) Item {
	return Item{
		ID:               PageItemID(n),
		Kind:             KindPage,
		Boundaries:       Boundaries{Page: n},
		ContentPreview:   fmt.Sprintf("Page %d", n),
		IncludeInExport:  true,
		ValidationStatus: StatusValid,
	}
}

// SelectAll selects every zone and every page.
func SelectAll(zones []Zone, pages []int) ExportSelection {
	items := make([]Item, 0, len(zones)+len(pages))
	for _, z := range zones {
		items = append(items, ZoneItem(z, StatusValid))
	}
	for _, p := range pages {
		items = append(items, PageItem(p))
	}
	return build(ModeAll, uniqueItems(items))
}

// SelectNone returns the empty initial selection.
func SelectNone() ExportSelection {
	return Empty()
}

// SelectByType selects the zones of type t.
func SelectByType(t ZoneType, zones []Zone) ExportSelection {
	items := make([]Item, 0, len(zones))
	for _, z := range zones {
		if z.Type == t {
			items = append(items, ZoneItem(z, StatusValid))
		}
	}
	return build(ModeZones, uniqueItems(items))
}

// SelectByPage selects the zones lying on the requested pages followed by
// one page item per requested page.
func SelectByPage(pages []int, zones []Zone) ExportSelection {
	wanted := NewSet(pages...)
	items := make([]Item, 0, len(zones)+len(pages))
	for _, z := range zones {
		if wanted.Has(z.Page) {
			items = append(items, ZoneItem(z, StatusValid))
		}
	}
	for _, p := range pages {
		items = append(items, PageItem(p))
	}
	return build(ModePages, uniqueItems(items))
}

// SelectByConfidence selects the low-confidence zones: those with
// confidence strictly below threshold. Zones under LowConfidence are
// marked as warnings.
func SelectByConfidence(threshold float64, zones []Zone) ExportSelection {
	items := make([]Item, 0, len(zones))
	for _, z := range zones {
		if z.Confidence >= threshold {
			continue
		}
		status := StatusValid
		if z.Confidence < LowConfidence {
			status = StatusWarning
		}
		items = append(items, ZoneItem(z, status))
	}
	return build(ModeZones, uniqueItems(items))
}
