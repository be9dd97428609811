package selection

import (
	"fmt"
	"strings"
	"time"
)

// ManifestInput describes a saved selection to render as a manifest.
type ManifestInput struct {
	Name      string
	Selection ExportSelection
	SavedAt   int64
	SavedBy   *string
}

// Manifest renders a Markdown summary of a saved selection: header facts,
// a table of zone items and a list of page items.
func Manifest(in ManifestInput) string {
	var b strings.Builder
	stats := Summarize(in.Selection, 0)

	fmt.Fprintf(&b, "# %s\n\n", in.Name)
	fmt.Fprintf(&b, "- **Mode:** %s\n", in.Selection.Mode)
	fmt.Fprintf(&b, "- **Included:** %d of %d items (%.1f%%)\n", stats.SelectedItems, stats.TotalItems, stats.Coverage)
	fmt.Fprintf(&b, "- **Zones:** %d, **Pages:** %d\n", stats.SelectedZones, stats.SelectedPages)
	if in.SavedAt > 0 {
		fmt.Fprintf(&b, "- **Saved:** %s", time.Unix(in.SavedAt, 0).UTC().Format("2006-01-02 15:04 UTC"))
		if in.SavedBy != nil && *in.SavedBy != "" {
			fmt.Fprintf(&b, " by %s", *in.SavedBy)
		}
		b.WriteString("\n")
	}

	var zones, pages []Item
	for _, it := range in.Selection.Items {
		switch it.Kind {
		case KindZone:
			zones = append(zones, it)
		case KindPage:
			pages = append(pages, it)
		}
	}

	if len(zones) > 0 {
		b.WriteString("\n## Zones\n\n")
		b.WriteString("| Zone | Page | Included | Status | Preview |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, it := range zones {
			fmt.Fprintf(&b, "| %s | %d | %s | %s | %s |\n",
				escapeCell(it.ID), it.Boundaries.Page, yesNo(it.IncludeInExport),
				it.ValidationStatus, escapeCell(it.ContentPreview))
		}
	}

	if len(pages) > 0 {
		b.WriteString("\n## Pages\n\n")
		for _, it := range pages {
			mark := "x"
			if !it.IncludeInExport {
				mark = " "
			}
			fmt.Fprintf(&b, "- [%s] Page %d\n", mark, pageNumberOf(it))
		}
	}

	return b.String()
}

// escapeCell makes text safe inside a Markdown table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
