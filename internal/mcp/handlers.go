package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/insult0o/pdfsel/internal/config"
	"github.com/insult0o/pdfsel/internal/conflict"
	"github.com/insult0o/pdfsel/internal/document"
	"github.com/insult0o/pdfsel/internal/errors"
	"github.com/insult0o/pdfsel/internal/ops"
	"github.com/insult0o/pdfsel/internal/selection"
	"github.com/insult0o/pdfsel/internal/store"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	store *store.Store
	db    *sql.DB
	cfg   *config.Config
	log   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(st *store.Store, db *sql.DB, cfg *config.Config, log *slog.Logger) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{store: st, db: db, cfg: cfg, log: log}
}

func persister(db *sql.DB) store.Persistence {
	return ops.Persister{DB: db}
}

// Request types for each tool

// CriteriaRequest represents the arguments for selection_select and selection_preview.
type CriteriaRequest struct {
	DocumentPath string             `json:"document_path"`
	PDFPath      string             `json:"pdf_path,omitempty"`
	By           string             `json:"by,omitempty"`
	ZoneType     selection.ZoneType `json:"zone_type,omitempty"`
	Pages        []int              `json:"pages,omitempty"`
	Threshold    *float64           `json:"threshold,omitempty"`
}

// AddItemsRequest represents the arguments for selection_add_items.
type AddItemsRequest struct {
	Items []selection.Item `json:"items"`
}

// RemoveItemsRequest represents the arguments for selection_remove_items.
type RemoveItemsRequest struct {
	IDs []string `json:"ids"`
}

// ToggleRequest represents the arguments for selection_toggle.
type ToggleRequest struct {
	ID string `json:"id"`
}

// ConflictAddRequest represents the arguments for conflict_add.
type ConflictAddRequest struct {
	ItemID string `json:"item_id"`
	Reason string `json:"reason,omitempty"`
}

// ConflictResolveRequest represents the arguments for conflict_resolve.
type ConflictResolveRequest struct {
	ItemID     string `json:"item_id"`
	Resolution string `json:"resolution"`
}

// NameRequest represents the arguments for saved_save, saved_load and saved_delete.
type NameRequest struct {
	Name string `json:"name"`
}

// ListRequest represents the arguments for saved_list.
type ListRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// ExportRequest represents the arguments for saved_export.
type ExportRequest struct {
	Path string `json:"path,omitempty"`
}

// ImportRequest represents the arguments for saved_import.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// Response types

// SelectionResult is returned by every tool that changes or reads the selection.
type SelectionResult struct {
	Selection  selection.ExportSelection `json:"selection"`
	Statistics selection.Statistics      `json:"statistics"`
	CanUndo    bool                      `json:"can_undo"`
	CanRedo    bool                      `json:"can_redo"`
}

// HistoryResult is returned by selection_undo and selection_redo.
type HistoryResult struct {
	Changed bool `json:"changed"`
	SelectionResult
}

// PreviewResult is returned by selection_preview.
type PreviewResult struct {
	Preview    selection.ExportSelection  `json:"preview"`
	Statistics selection.Statistics       `json:"statistics"`
	Validation selection.ValidationResult `json:"validation"`
}

func (h *Handlers) snapshot() SelectionResult {
	snap := h.store.Snapshot()
	return SelectionResult{
		Selection:  snap.Selection,
		Statistics: snap.Statistics,
		CanUndo:    snap.CanUndo,
		CanRedo:    snap.CanRedo,
	}
}

// buildSelection loads the document named by input and applies its criteria.
func (h *Handlers) buildSelection(input CriteriaRequest) (selection.ExportSelection, error) {
	if input.DocumentPath == "" {
		return selection.ExportSelection{}, errors.NewInvalidRequest("document_path is required")
	}
	crit, err := document.Criteria{
		By:        document.Strategy(input.By),
		ZoneType:  input.ZoneType,
		Pages:     input.Pages,
		Threshold: input.Threshold,
	}.Check(h.cfg.DefaultConfidenceThreshold)
	if err != nil {
		return selection.ExportSelection{}, err
	}

	doc, err := document.Load(input.DocumentPath)
	if err != nil {
		return selection.ExportSelection{}, err
	}
	if input.PDFPath != "" {
		if err := doc.UsePDF(input.PDFPath); err != nil {
			return selection.ExportSelection{}, err
		}
	}
	return crit.Apply(doc), nil
}

// Handler implementations

// HandleSelect handles the selection_select tool call.
func (h *Handlers) HandleSelect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CriteriaRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	sel, err := h.buildSelection(input)
	if err != nil {
		return errorResult(err), nil
	}
	h.store.SetSelection(sel)
	h.log.Debug("selection replaced", "by", input.By, "total_count", sel.TotalCount)

	return successResult(h.snapshot())
}

// HandleAddItems handles the selection_add_items tool call.
func (h *Handlers) HandleAddItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AddItemsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if len(input.Items) == 0 {
		return errorResult(errors.NewInvalidRequest("items must not be empty")), nil
	}
	for i := range input.Items {
		it := &input.Items[i]
		if it.ID == "" {
			return errorResult(errors.NewInvalidRequest(fmt.Sprintf("items[%d]: id is required", i))), nil
		}
		if !it.Kind.Valid() {
			return errorResult(errors.NewInvalidRequest(fmt.Sprintf("items[%d]: kind must be zone or page", i))), nil
		}
		if it.ValidationStatus == "" {
			it.ValidationStatus = selection.StatusValid
		}
		if !it.ValidationStatus.Valid() {
			return errorResult(errors.NewInvalidRequest(fmt.Sprintf("items[%d]: validation_status must be valid, warning or invalid", i))), nil
		}
	}

	h.store.AddItems(input.Items)
	return successResult(h.snapshot())
}

// HandleRemoveItems handles the selection_remove_items tool call.
func (h *Handlers) HandleRemoveItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RemoveItemsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if len(input.IDs) == 0 {
		return errorResult(errors.NewInvalidRequest("ids must not be empty")), nil
	}

	h.store.RemoveItems(input.IDs)
	return successResult(h.snapshot())
}

// HandleToggle handles the selection_toggle tool call.
func (h *Handlers) HandleToggle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ToggleRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.ID == "" {
		return errorResult(errors.NewInvalidRequest("id is required")), nil
	}

	h.store.ToggleItem(input.ID)
	return successResult(h.snapshot())
}

// HandleUndo handles the selection_undo tool call.
func (h *Handlers) HandleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, changed := h.store.Undo()
	return successResult(HistoryResult{Changed: changed, SelectionResult: h.snapshot()})
}

// HandleRedo handles the selection_redo tool call.
func (h *Handlers) HandleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, changed := h.store.Redo()
	return successResult(HistoryResult{Changed: changed, SelectionResult: h.snapshot()})
}

// HandleGet handles the selection_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(h.snapshot())
}

// HandleStats handles the selection_stats tool call.
func (h *Handlers) HandleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(h.store.Statistics())
}

// HandleValidate handles the selection_validate tool call.
func (h *Handlers) HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(h.store.Validate())
}

// HandlePreview handles the selection_preview tool call.
func (h *Handlers) HandlePreview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CriteriaRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	sel, err := h.buildSelection(input)
	if err != nil {
		return errorResult(err), nil
	}
	h.store.SetTempSelection(&sel)
	preview, _ := h.store.TempSelection()

	return successResult(PreviewResult{
		Preview:    preview,
		Statistics: selection.Summarize(preview, 0),
		Validation: selection.Validate(preview),
	})
}

// HandleApplyPreview handles the selection_apply_preview tool call.
func (h *Handlers) HandleApplyPreview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, ok := h.store.ApplyTempSelection(); !ok {
		return errorResult(errors.NewInvalidRequest("no preview to apply; call selection_preview first")), nil
	}
	return successResult(h.snapshot())
}

// HandleReset handles the selection_reset tool call.
func (h *Handlers) HandleReset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.store.Reset()
	return successResult(h.snapshot())
}

// HandleConflictAdd handles the conflict_add tool call.
func (h *Handlers) HandleConflictAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ConflictAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	c, err := h.store.AddConflict(conflict.Conflict{ItemID: input.ItemID, Reason: input.Reason})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(c)
}

// HandleConflictResolve handles the conflict_resolve tool call.
func (h *Handlers) HandleConflictResolve(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ConflictResolveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.ItemID == "" {
		return errorResult(errors.NewInvalidRequest("item_id is required")), nil
	}

	n, err := h.store.ResolveConflict(input.ItemID, conflict.Resolution(input.Resolution))
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{
		"item_id":    input.ItemID,
		"resolution": input.Resolution,
		"resolved":   n,
		"selection":  h.snapshot(),
	})
}

// HandleConflictList handles the conflict_list tool call.
func (h *Handlers) HandleConflictList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conflicts := h.store.Conflicts()
	pending := 0
	for _, c := range conflicts {
		if c.Resolution == conflict.ResolutionPending {
			pending++
		}
	}
	return successResult(map[string]any{
		"conflicts": conflicts,
		"pending":   pending,
	})
}

// HandleConflictClear handles the conflict_clear tool call.
func (h *Handlers) HandleConflictClear(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.store.ClearConflicts()
	return successResult(map[string]any{"cleared": true})
}

// HandleSavedSave handles the saved_save tool call.
func (h *Handlers) HandleSavedSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NameRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if err := h.store.SaveSelection(ctx, input.Name); err != nil {
		return errorResult(err), nil
	}
	stats := h.store.Statistics()
	return successResult(map[string]any{
		"saved":       true,
		"name":        input.Name,
		"total_count": stats.SelectedItems,
		"item_count":  stats.TotalItems,
	})
}

// HandleSavedLoad handles the saved_load tool call.
func (h *Handlers) HandleSavedLoad(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NameRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Name == "" {
		return errorResult(errors.NewInvalidRequest("name is required")), nil
	}

	loaded, err := h.store.LoadSelection(ctx, input.Name)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(struct {
		Loaded bool   `json:"loaded"`
		Name   string `json:"name"`
		SelectionResult
	}{loaded, input.Name, h.snapshot()})
}

// HandleSavedList handles the saved_list tool call.
func (h *Handlers) HandleSavedList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(ctx, h.db, ops.ListInput{
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSavedDelete handles the saved_delete tool call.
func (h *Handlers) HandleSavedDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NameRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(ctx, h.db, ops.DeleteInput{Name: input.Name})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSavedExport handles the saved_export tool call.
func (h *Handlers) HandleSavedExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.db, h.cfg, ops.ExportInput{Path: input.Path})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSavedImport handles the saved_import tool call.
func (h *Handlers) HandleSavedImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	mode := ops.ImportModeError
	switch input.Mode {
	case "", "error":
	case "replace":
		mode = ops.ImportModeReplace
	case "skip":
		mode = ops.ImportModeSkip
	default:
		return errorResult(errors.NewInvalidRequest("mode must be one of: error, replace, skip")), nil
	}

	result, err := ops.Import(ctx, h.db, h.cfg, ops.ImportInput{
		Path: input.Path,
		Mode: mode,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal and storage error details are not exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if selErr, ok := err.(*errors.SelError); ok {
		errorObj := map[string]any{
			"code":    selErr.Code,
			"message": selErr.Message,
			"status":  selErr.Status,
		}
		if selErr.Code != errors.ErrInternal && selErr.Code != errors.ErrStorageFailure && selErr.Details != nil {
			errorObj["details"] = selErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
