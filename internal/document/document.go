// Package document loads the zones and pages a selection is built from.
//
// A document is a JSON file produced by the processing pipeline:
//
//	{"zones": [{"id": "z1", "page_number": 1, "zone_type": "text", ...}], "pages": [1, 2]}
//
// When "pages" is omitted the page list is derived from the zones, or from
// the page count of the source PDF when one is supplied.
package document

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/insult0o/pdfsel/internal/errors"
	"github.com/insult0o/pdfsel/internal/selection"
)

// Document is the zone and page list of one processed PDF.
type Document struct {
	Zones []selection.Zone `json:"zones"`
	Pages []int            `json:"pages,omitempty"`
}

// Load reads and validates a document file.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFound(path)
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open document: %w", err))
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates a document.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid document: %v", err))
	}
	if err := doc.normalize(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// normalize fills defaults and rejects zones the selection code cannot use.
func (d *Document) normalize() error {
	if d.Zones == nil {
		d.Zones = []selection.Zone{}
	}
	seen := make(map[string]bool, len(d.Zones))
	for i := range d.Zones {
		z := &d.Zones[i]
		if z.ID == "" {
			return errors.NewInvalidRequest(fmt.Sprintf("zones[%d]: id is required", i))
		}
		if seen[z.ID] {
			return errors.NewInvalidRequest(fmt.Sprintf("zones[%d]: duplicate id %q", i, z.ID))
		}
		seen[z.ID] = true
		if z.Page < 1 {
			return errors.NewInvalidRequest(fmt.Sprintf("zone %s: page_number must be at least 1", z.ID))
		}
		if z.Type == "" {
			z.Type = selection.ZoneUnknown
		}
		if !z.Type.Valid() {
			return errors.NewInvalidRequest(fmt.Sprintf("zone %s: unknown zone_type %q", z.ID, z.Type))
		}
	}
	for _, p := range d.Pages {
		if p < 1 {
			return errors.NewInvalidRequest(fmt.Sprintf("invalid page number %d", p))
		}
	}
	return nil
}

// PageList returns the explicit pages, or else the sorted distinct pages
// the zones lie on.
func (d *Document) PageList() []int {
	if len(d.Pages) > 0 {
		return slices.Clone(d.Pages)
	}
	pages := make([]int, 0, len(d.Zones))
	for _, z := range d.Zones {
		pages = append(pages, z.Page)
	}
	slices.Sort(pages)
	return slices.Compact(pages)
}

// UsePDF replaces the page list with every page of the PDF at path.
func (d *Document) UsePDF(path string) error {
	n, err := PageCount(path)
	if err != nil {
		return err
	}
	d.Pages = make([]int, n)
	for i := range n {
		d.Pages[i] = i + 1
	}
	return nil
}

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errors.NewFileNotFound(path)
		}
		return 0, errors.NewInternal(fmt.Errorf("failed to open PDF file: %w", err))
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return 0, errors.NewInvalidRequest(fmt.Sprintf("failed to read PDF: %v", err))
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return 0, errors.NewInvalidRequest(fmt.Sprintf("failed to count PDF pages: %v", err))
	}
	return ctx.PageCount, nil
}
