package document

import (
	"fmt"

	"github.com/insult0o/pdfsel/internal/errors"
	"github.com/insult0o/pdfsel/internal/selection"
)

// Strategy names how a selection is built from a document.
type Strategy string

const (
	ByAll        Strategy = "all"
	ByType       Strategy = "type"
	ByPage       Strategy = "page"
	ByConfidence Strategy = "confidence"
	ByNone       Strategy = "none"
)

// Criteria selects zones and pages from a document.
type Criteria struct {
	By        Strategy           `json:"by"`
	ZoneType  selection.ZoneType `json:"zone_type,omitempty"`
	Pages     []int              `json:"pages,omitempty"`
	Threshold *float64           `json:"threshold,omitempty"`
}

// Check validates c. defaultThreshold fills an unset confidence threshold.
func (c Criteria) Check(defaultThreshold float64) (Criteria, error) {
	if c.By == "" {
		c.By = ByAll
	}
	switch c.By {
	case ByAll, ByNone:
	case ByType:
		if !c.ZoneType.Valid() {
			return c, errors.NewInvalidRequest(fmt.Sprintf("zone_type must be a known zone type, got %q", c.ZoneType))
		}
	case ByPage:
		if len(c.Pages) == 0 {
			return c, errors.NewInvalidRequest("pages is required when selecting by page")
		}
	case ByConfidence:
		if c.Threshold == nil {
			t := defaultThreshold
			c.Threshold = &t
		}
		if *c.Threshold < 0 || *c.Threshold > 1 {
			return c, errors.NewInvalidRequest("threshold must be between 0 and 1")
		}
	default:
		return c, errors.NewInvalidRequest("by must be one of: all, type, page, confidence, none")
	}
	return c, nil
}

// Apply builds the selection c describes. c must have passed Check.
func (c Criteria) Apply(doc *Document) selection.ExportSelection {
	switch c.By {
	case ByType:
		return selection.SelectByType(c.ZoneType, doc.Zones)
	case ByPage:
		return selection.SelectByPage(c.Pages, doc.Zones)
	case ByConfidence:
		return selection.SelectByConfidence(*c.Threshold, doc.Zones)
	case ByNone:
		return selection.SelectNone()
	default:
		return selection.SelectAll(doc.Zones, doc.PageList())
	}
}
