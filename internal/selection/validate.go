package selection

import (
	"fmt"
	"math"
)

// Score penalties per finding.
const (
	errorPenalty   = 25.0
	warningPenalty = 5.0
)

// ValidationResult reports whether a selection is ready for export.
type ValidationResult struct {
	IsValid     bool     `json:"is_valid"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
	Score       float64  `json:"score"`
}

// Validate checks the included items of sel. Dependencies are reported,
// never enforced: an included item whose dependency is excluded is a warning.
func Validate(sel ExportSelection) ValidationResult {
	res := ValidationResult{
		Errors:      []string{},
		Warnings:    []string{},
		Suggestions: []string{},
	}

	if sel.TotalCount == 0 {
		res.Errors = append(res.Errors, "no items are included in the export")
		res.Suggestions = append(res.Suggestions, "select zones or pages before exporting")
	}

	included := make(map[string]bool, len(sel.Items))
	for _, it := range sel.Items {
		if it.IncludeInExport {
			included[it.ID] = true
		}
	}

	for _, it := range sel.Items {
		if !it.IncludeInExport {
			continue
		}
		switch it.ValidationStatus {
		case StatusInvalid:
			res.Errors = append(res.Errors, fmt.Sprintf("%s %s is invalid", it.Kind, it.ID))
		case StatusWarning:
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s %s needs review", it.Kind, it.ID))
		case StatusValid:
		}
		for _, dep := range it.Dependencies {
			if included[dep] {
				continue
			}
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s %s depends on %s, which is not included", it.Kind, it.ID, dep))
			res.Suggestions = append(res.Suggestions, fmt.Sprintf("include %s or exclude %s", dep, it.ID))
		}
	}

	score := 100 - errorPenalty*float64(len(res.Errors)) - warningPenalty*float64(len(res.Warnings))
	res.Score = math.Max(0, math.Min(100, score))
	res.IsValid = len(res.Errors) == 0
	return res
}
