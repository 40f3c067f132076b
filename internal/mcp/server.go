package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/lapse/internal/ops"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"lapse_report": {
		def:     reportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleReport },
	},
	"lapse_document": {
		def:     documentToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDocument },
	},
	"lapse_refresh": {
		def:     refreshToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRefresh },
	},
	"lapse_write": {
		def:     writeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleWrite },
	},
}

var reportToolDef = mcp.NewTool("lapse_report",
	mcp.WithDescription("Run a time-tracking report over the vault. The query uses line-oriented 'key: value' pairs: project, tag, note, from, to, period (today|thisWeek|thisMonth|lastWeek|lastMonth), group-by (project|date|tag|note), sub-group-by, display (table|summary|chart), chart (bar|pie|none)."),
	mcp.WithString("query", mcp.Description("Inline query text. Empty means today, no filters.")),
)

var documentToolDef = mcp.NewTool("lapse_document",
	mcp.WithDescription("Return one document's parsed time data: entries, project, tags, and total tracked time."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Vault-relative markdown path, e.g. Projects/acme.md")),
)

var refreshToolDef = mcp.NewTool("lapse_refresh",
	mcp.WithDescription("Walk the vault, re-validate every cache record against document mtimes, and flush the persisted snapshot."),
	mcp.WithBoolean("include_excluded", mcp.Description("Also warm documents matched by exclude_paths.")),
)

var writeToolDef = mcp.NewTool("lapse_write",
	mcp.WithDescription("Replace a document's time data. Entries are serialized into the document's frontmatter; unrelated header fields are preserved."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Vault-relative markdown path.")),
	mcp.WithObject("data", mcp.Required(), mcp.Description("Document time data: {entries: [{label, start_time, end_time, duration, tags}]}. Duration is milliseconds.")),
)

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

// NewServer creates a new MCP server with lapse tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(env *ops.Env, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"lapse",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(env)

	disabled := make(map[string]bool)
	for _, name := range env.Config.DisabledTools {
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

// Run starts the MCP server using stdio transport.
func Run(env *ops.Env, version string) error {
	s := NewServer(env, version)
	return server.ServeStdio(s)
}
