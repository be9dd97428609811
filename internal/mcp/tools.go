package mcp

import "github.com/mark3labs/mcp-go/mcp"

// criteriaOptions are the arguments shared by selection_select and selection_preview.
func criteriaOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("document_path",
			mcp.Required(),
			mcp.Description("Path to the processed document JSON (zones and optional pages)"),
		),
		mcp.WithString("pdf_path",
			mcp.Description("Optional source PDF; its page count replaces the document's page list"),
		),
		mcp.WithString("by",
			mcp.Description("Selection strategy (default: all)"),
			mcp.Enum("all", "type", "page", "confidence", "none"),
		),
		mcp.WithString("zone_type",
			mcp.Description("Zone type to select when by=type"),
			mcp.Enum("text", "table", "image", "diagram", "header", "footer", "unknown"),
		),
		mcp.WithArray("pages",
			mcp.Description("Page numbers to select when by=page"),
			mcp.Items(map[string]any{"type": "integer", "minimum": 1}),
		),
		mcp.WithNumber("threshold",
			mcp.Description("Select zones with confidence strictly below this value when by=confidence (default from config)"),
			mcp.Min(0),
			mcp.Max(1),
		),
	}
}

var selectToolDef = mcp.NewTool("selection_select",
	append([]mcp.ToolOption{
		mcp.WithDescription("Replace the current selection with one built from a document. Undoable."),
	}, criteriaOptions()...)...,
)

var previewToolDef = mcp.NewTool("selection_preview",
	append([]mcp.ToolOption{
		mcp.WithDescription("Build a preview selection from a document without committing it. Use selection_apply_preview to commit."),
	}, criteriaOptions()...)...,
)

var applyPreviewToolDef = mcp.NewTool("selection_apply_preview",
	mcp.WithDescription("Commit the current preview as the selection and clear it. Undoable."),
)

var addItemsToolDef = mcp.NewTool("selection_add_items",
	mcp.WithDescription("Add items to the selection. Items whose id already exists are ignored."),
	mcp.WithArray("items",
		mcp.Required(),
		mcp.Description("Items: {id, kind (zone|page), boundaries, dependencies, content_preview, include_in_export, validation_status}"),
		mcp.Items(map[string]any{"type": "object"}),
	),
)

var removeItemsToolDef = mcp.NewTool("selection_remove_items",
	mcp.WithDescription("Remove items by id. Unknown ids are ignored."),
	mcp.WithArray("ids",
		mcp.Required(),
		mcp.Description("Item ids to remove"),
		mcp.WithStringItems(),
	),
)

var toggleToolDef = mcp.NewTool("selection_toggle",
	mcp.WithDescription("Flip whether an item is included in the export. Unknown ids are ignored."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Item id (zone id or page_<n>)"),
	),
)

var undoToolDef = mcp.NewTool("selection_undo",
	mcp.WithDescription("Undo the last selection change"),
)

var redoToolDef = mcp.NewTool("selection_redo",
	mcp.WithDescription("Redo the most recently undone change"),
)

var getToolDef = mcp.NewTool("selection_get",
	mcp.WithDescription("Return the current selection with statistics and undo/redo availability"),
)

var statsToolDef = mcp.NewTool("selection_stats",
	mcp.WithDescription("Return selection statistics: counts, coverage, pending conflicts and state"),
)

var validateToolDef = mcp.NewTool("selection_validate",
	mcp.WithDescription("Check the selection for export readiness and return errors, warnings, suggestions and a score"),
)

var resetToolDef = mcp.NewTool("selection_reset",
	mcp.WithDescription("Clear the selection, history, conflicts and preview. Saved selections are kept."),
)

var conflictAddToolDef = mcp.NewTool("conflict_add",
	mcp.WithDescription("Record a disagreement about whether an item belongs in the export"),
	mcp.WithString("item_id",
		mcp.Required(),
		mcp.Description("Item id the conflict is about"),
	),
	mcp.WithString("reason",
		mcp.Description("Why the item is disputed"),
	),
)

var conflictResolveToolDef = mcp.NewTool("conflict_resolve",
	mcp.WithDescription("Resolve every conflict on an item. include/exclude also set the item's inclusion (undoable)."),
	mcp.WithString("item_id",
		mcp.Required(),
		mcp.Description("Item id"),
	),
	mcp.WithString("resolution",
		mcp.Required(),
		mcp.Enum("include", "exclude", "pending"),
	),
)

var conflictListToolDef = mcp.NewTool("conflict_list",
	mcp.WithDescription("List recorded conflicts"),
)

var conflictClearToolDef = mcp.NewTool("conflict_clear",
	mcp.WithDescription("Drop every recorded conflict"),
)

var savedSaveToolDef = mcp.NewTool("saved_save",
	mcp.WithDescription("Save the current selection under a name, overwriting any selection with the same name"),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Name (matched case-insensitively)"),
	),
)

var savedLoadToolDef = mcp.NewTool("saved_load",
	mcp.WithDescription("Replace the current selection with a saved one. Undoable. Unknown names change nothing."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Saved selection name"),
	),
)

var savedListToolDef = mcp.NewTool("saved_list",
	mcp.WithDescription("List saved selections, most recently saved first"),
	mcp.WithNumber("limit",
		mcp.Description("Max results (default 20, max 100)"),
	),
	mcp.WithNumber("offset",
		mcp.Description("Results to skip"),
	),
)

var savedDeleteToolDef = mcp.NewTool("saved_delete",
	mcp.WithDescription("Delete a saved selection. Unknown names are a no-op."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Saved selection name"),
	),
)

var savedExportToolDef = mcp.NewTool("saved_export",
	mcp.WithDescription("Export all saved selections to a JSONL file"),
	mcp.WithString("path",
		mcp.Description("Output .jsonl path (default: ~/.pdfsel/exports/selections-<timestamp>.jsonl)"),
	),
)

var savedImportToolDef = mcp.NewTool("saved_import",
	mcp.WithDescription("Import saved selections from a JSONL export file"),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Input .jsonl path"),
	),
	mcp.WithString("mode",
		mcp.Description("Collision handling (default: error)"),
		mcp.Enum("error", "replace", "skip"),
	),
)
