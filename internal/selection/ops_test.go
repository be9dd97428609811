package selection

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testZones() []Zone {
	return []Zone{
		{ID: "z1", Page: 1, Type: ZoneText, Coordinates: Rect{X: 10, Y: 20, Width: 100, Height: 50}, Confidence: 0.9, Content: "Introduction"},
		{ID: "z2", Page: 1, Type: ZoneTable, Coordinates: Rect{X: 10, Y: 80, Width: 200, Height: 120}, Confidence: 0.4, Content: "| a | b |", Dependencies: []string{"z1"}},
		{ID: "z3", Page: 2, Type: ZoneDiagram, Coordinates: Rect{X: 0, Y: 0, Width: 300, Height: 300}, Confidence: 0.6},
	}
}

// requireConsistent checks that the derived fields match the items.
func requireConsistent(t *testing.T, sel ExportSelection) {
	t.Helper()
	zones := NewSet[string]()
	pages := NewSet[int]()
	count := 0
	ids := make(map[string]bool)
	for _, it := range sel.Items {
		require.False(t, ids[it.ID], "duplicate item id %q", it.ID)
		ids[it.ID] = true
		if !it.IncludeInExport {
			continue
		}
		count++
		switch it.Kind {
		case KindZone:
			zones[it.ID] = struct{}{}
		case KindPage:
			pages[pageNumberOf(it)] = struct{}{}
		}
	}
	require.Equal(t, zones, sel.ZoneIDs, "ZoneIDs")
	require.Equal(t, pages, sel.PageNumbers, "PageNumbers")
	require.Equal(t, count, sel.TotalCount, "TotalCount")
}

func TestEmpty(t *testing.T) {
	sel := Empty()
	requireConsistent(t, sel)
	if sel.Mode != ModeZones {
		t.Errorf("Mode = %q, want %q", sel.Mode, ModeZones)
	}
	if sel.TotalCount != 0 || len(sel.Items) != 0 {
		t.Errorf("Empty() has %d items, total %d; want none", len(sel.Items), sel.TotalCount)
	}
	require.Equal(t, sel, SelectNone())
}

func TestSelectAll(t *testing.T) {
	sel := SelectAll(testZones(), []int{1, 2})
	requireConsistent(t, sel)

	require.Equal(t, ModeAll, sel.Mode)
	require.Equal(t, 5, sel.TotalCount)
	require.Len(t, sel.Items, 5)

	z2, ok := sel.Find("z2")
	require.True(t, ok)
	require.Equal(t, Boundaries{X: 10, Y: 80, Width: 200, Height: 120, Page: 1}, z2.Boundaries)
	require.Equal(t, []string{"z1"}, z2.Dependencies)
	require.Equal(t, StatusValid, z2.ValidationStatus)

	p2, ok := sel.Find("page_2")
	require.True(t, ok)
	require.Equal(t, KindPage, p2.Kind)
	require.Equal(t, "Page 2", p2.ContentPreview)
	require.Equal(t, Boundaries{Page: 2}, p2.Boundaries)

	z3, _ := sel.Find("z3")
	require.Equal(t, "", z3.ContentPreview)
}

func TestSelectAll_EmptyInputs(t *testing.T) {
	sel := SelectAll(nil, nil)
	requireConsistent(t, sel)
	require.Equal(t, 0, sel.TotalCount)
	require.Empty(t, sel.Items)
}

func TestSelectAll_DoesNotAliasZoneDependencies(t *testing.T) {
	zones := testZones()
	sel := SelectAll(zones, nil)
	zones[1].Dependencies[0] = "changed"

	z2, _ := sel.Find("z2")
	require.Equal(t, []string{"z1"}, z2.Dependencies)
}

func TestSelectByType(t *testing.T) {
	sel := SelectByType(ZoneTable, testZones())
	requireConsistent(t, sel)
	require.Equal(t, ModeZones, sel.Mode)
	require.Equal(t, NewSet("z2"), sel.ZoneIDs)

	none := SelectByType(ZoneFooter, testZones())
	requireConsistent(t, none)
	require.Equal(t, 0, none.TotalCount)
}

func TestSelectByPage(t *testing.T) {
	sel := SelectByPage([]int{1}, testZones())
	requireConsistent(t, sel)

	require.Equal(t, ModePages, sel.Mode)
	require.Equal(t, NewSet("z1", "z2"), sel.ZoneIDs)
	require.Equal(t, NewSet(1), sel.PageNumbers)
	require.Equal(t, 3, sel.TotalCount)
	// zone items come first, then page items
	require.Equal(t, "page_1", sel.Items[len(sel.Items)-1].ID)
}

func TestSelectByPage_DuplicatePages(t *testing.T) {
	sel := SelectByPage([]int{2, 2}, testZones())
	requireConsistent(t, sel)
	require.Equal(t, 2, sel.TotalCount)
}

func TestSelectByConfidence(t *testing.T) {
	zones := []Zone{
		{ID: "a", Page: 1, Confidence: 0.9},
		{ID: "b", Page: 1, Confidence: 0.4},
		{ID: "c", Page: 1, Confidence: 0.6},
	}

	sel := SelectByConfidence(0.5, zones)
	requireConsistent(t, sel)
	require.Equal(t, ModeZones, sel.Mode)
	require.Equal(t, NewSet("b"), sel.ZoneIDs)
	require.Equal(t, StatusWarning, sel.Items[0].ValidationStatus)
}

func TestSelectByConfidence_ThresholdIsStrict(t *testing.T) {
	zones := []Zone{{ID: "edge", Page: 1, Confidence: 0.5}}
	sel := SelectByConfidence(0.5, zones)
	if sel.TotalCount != 0 {
		t.Errorf("TotalCount = %d, want 0 (confidence equal to threshold is excluded)", sel.TotalCount)
	}
}

func TestSelectByConfidence_ValidAboveLowConfidence(t *testing.T) {
	zones := []Zone{{ID: "mid", Page: 1, Confidence: 0.6}, {ID: "low", Page: 1, Confidence: 0.2}}
	sel := SelectByConfidence(0.8, zones)
	requireConsistent(t, sel)

	mid, _ := sel.Find("mid")
	low, _ := sel.Find("low")
	require.Equal(t, StatusValid, mid.ValidationStatus)
	require.Equal(t, StatusWarning, low.ValidationStatus)
}

func TestAddItems(t *testing.T) {
	sel := AddItems(Empty(), []Item{PageItem(3), {ID: "z9", Kind: KindZone, IncludeInExport: false, ValidationStatus: StatusValid}})
	requireConsistent(t, sel)
	require.Len(t, sel.Items, 2)
	require.Equal(t, 1, sel.TotalCount)
	require.Equal(t, NewSet(3), sel.PageNumbers)
	require.Empty(t, sel.ZoneIDs)
}

func TestAddItems_Idempotent(t *testing.T) {
	items := []Item{PageItem(1), ZoneItem(testZones()[0], StatusValid)}
	first := AddItems(Empty(), items)
	second := AddItems(first, items)
	require.Equal(t, first, second)
}

func TestAddItems_DuplicatesWithinInput(t *testing.T) {
	sel := AddItems(Empty(), []Item{PageItem(1), PageItem(1)})
	requireConsistent(t, sel)
	require.Len(t, sel.Items, 1)
}

func TestAddItems_DoesNotMutateInput(t *testing.T) {
	base := SelectAll(testZones(), nil)
	before := base.Clone()
	_ = AddItems(base, []Item{PageItem(7)})
	require.Equal(t, before, base)
}

func TestRemoveItems(t *testing.T) {
	sel := RemoveItems(SelectAll(testZones(), []int{1, 2}), []string{"z1", "page_2", "unknown"})
	requireConsistent(t, sel)
	require.Len(t, sel.Items, 3)
	require.False(t, sel.ZoneIDs.Has("z1"))
	require.Equal(t, NewSet(1), sel.PageNumbers)
}

func TestToggleItem(t *testing.T) {
	base := SelectAll(testZones(), []int{1})
	sel := ToggleItem(base, "z1")
	requireConsistent(t, sel)
	require.False(t, sel.ZoneIDs.Has("z1"))
	require.Equal(t, base.TotalCount-1, sel.TotalCount)

	back := ToggleItem(sel, "z1")
	require.Equal(t, base, back)

	// the original snapshot is untouched
	require.True(t, base.ZoneIDs.Has("z1"))
}

func TestToggleItem_UnknownID(t *testing.T) {
	base := SelectAll(testZones(), nil)
	require.Equal(t, base, ToggleItem(base, "nope"))
}

func TestSetInclusion(t *testing.T) {
	base := SelectAll(testZones(), nil)

	sel, found := SetInclusion(base, "z2", false)
	require.True(t, found)
	requireConsistent(t, sel)
	require.False(t, sel.ZoneIDs.Has("z2"))

	same, found := SetInclusion(base, "missing", false)
	require.False(t, found)
	require.Equal(t, base, same)
}

func TestReplace_RecomputesDerivedFields(t *testing.T) {
	bogus := ExportSelection{
		Items:      []Item{PageItem(4), PageItem(4), {ID: "z", Kind: KindZone, IncludeInExport: true}},
		TotalCount: 99,
	}
	sel := Replace(bogus)
	requireConsistent(t, sel)
	require.Equal(t, ModeZones, sel.Mode)
	require.Equal(t, 2, sel.TotalCount)
}

func TestInvariantHoldsAcrossOperations(t *testing.T) {
	zones := testZones()
	sel := Empty()
	steps := []func(ExportSelection) ExportSelection{
		func(s ExportSelection) ExportSelection { return SelectAll(zones, []int{1, 2}) },
		func(s ExportSelection) ExportSelection { return ToggleItem(s, "page_1") },
		func(s ExportSelection) ExportSelection { return RemoveItems(s, []string{"z3"}) },
		func(s ExportSelection) ExportSelection { return AddItems(s, []Item{PageItem(5)}) },
		func(s ExportSelection) ExportSelection { return SelectByType(ZoneText, zones) },
		func(s ExportSelection) ExportSelection { return SelectByPage([]int{2}, zones) },
		func(s ExportSelection) ExportSelection { return SelectByConfidence(0.7, zones) },
		func(s ExportSelection) ExportSelection { return ToggleItem(s, "z2") },
	}
	for i, step := range steps {
		sel = step(sel)
		t.Run(fmt.Sprintf("step%d", i), func(t *testing.T) {
			requireConsistent(t, sel)
		})
	}
}

func TestPreview(t *testing.T) {
	short := "héllo"
	if got := Preview(short); got != short {
		t.Errorf("Preview(%q) = %q", short, got)
	}

	long := strings.Repeat("é", 150)
	got := Preview(long)
	if n := len([]rune(got)); n != PreviewMaxChars {
		t.Errorf("Preview rune length = %d, want %d", n, PreviewMaxChars)
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"preset-A", "preset-a"},
		{"  Review   Low  Confidence ", "review low confidence"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.input); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
