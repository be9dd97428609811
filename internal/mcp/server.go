package mcp

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/insult0o/pdfsel/internal/config"
	"github.com/insult0o/pdfsel/internal/store"
)

// KnownTypes lists all valid type names.
var KnownTypes = []string{"selection", "conflict", "saved"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"selection_select": {
		def:     selectToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSelect },
	},
	"selection_add_items": {
		def:     addItemsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAddItems },
	},
	"selection_remove_items": {
		def:     removeItemsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRemoveItems },
	},
	"selection_toggle": {
		def:     toggleToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleToggle },
	},
	"selection_undo": {
		def:     undoToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleUndo },
	},
	"selection_redo": {
		def:     redoToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRedo },
	},
	"selection_get": {
		def:     getToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGet },
	},
	"selection_stats": {
		def:     statsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStats },
	},
	"selection_validate": {
		def:     validateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleValidate },
	},
	"selection_preview": {
		def:     previewToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePreview },
	},
	"selection_apply_preview": {
		def:     applyPreviewToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleApplyPreview },
	},
	"selection_reset": {
		def:     resetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleReset },
	},
	"conflict_add": {
		def:     conflictAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleConflictAdd },
	},
	"conflict_resolve": {
		def:     conflictResolveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleConflictResolve },
	},
	"conflict_list": {
		def:     conflictListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleConflictList },
	},
	"conflict_clear": {
		def:     conflictClearToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleConflictClear },
	},
	"saved_save": {
		def:     savedSaveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSavedSave },
	},
	"saved_load": {
		def:     savedLoadToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSavedLoad },
	},
	"saved_list": {
		def:     savedListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSavedList },
	},
	"saved_delete": {
		def:     savedDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSavedDelete },
	},
	"saved_export": {
		def:     savedExportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSavedExport },
	},
	"saved_import": {
		def:     savedImportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSavedImport },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// ValidateDisabledTypes returns a list of unknown type names from the given list.
func ValidateDisabledTypes(names []string) []string {
	known := make(map[string]bool, len(KnownTypes))
	for _, t := range KnownTypes {
		known[t] = true
	}

	unknown := make([]string, 0)
	for _, name := range names {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool extracts the type name from a tool name.
// Tool names follow the pattern "type_action" (e.g., "saved_load" → "saved").
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// ExpandTypesToTools returns all tool names belonging to the given types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}

	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	tools := make([]string, 0)
	for name := range toolRegistry {
		if typeSet[GetTypeForTool(name)] {
			tools = append(tools, name)
		}
	}
	return tools
}

// NewServer creates an MCP server around one session store.
// Tools listed in cfg.DisabledTools or belonging to cfg.DisabledTypes
// are excluded from registration.
func NewServer(h *Handlers, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"pdfsel",
		version,
		server.WithToolCapabilities(true),
	)

	disabled := make(map[string]bool)
	for _, tool := range ExpandTypesToTools(cfg.DisabledTypes) {
		disabled[tool] = true
	}
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport. The session store
// persists saved selections to db.
func Run(db *sql.DB, cfg *config.Config, version string, logger *slog.Logger) error {
	st := store.New(store.Options{
		Persistence: persister(db),
		Logger:      logger,
		User:        cfg.User,
	})
	h := NewHandlers(st, db, cfg, logger)
	logger.Info("mcp server starting", "version", version, "tools", len(toolRegistry))
	return server.ServeStdio(NewServer(h, cfg, version))
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
