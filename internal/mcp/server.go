// Package mcp provides a Model Context Protocol server for tagline.
//
// It exposes the annotation parser as MCP tools (parse, format, stored
// entity queries) plus a stats resource, over stdio transport for agent
// clients.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hurttlocker/tagline"
	"github.com/hurttlocker/tagline/internal/store"
)

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Parser  *tagline.Parser
	Store   store.Store // optional; persistence tools degrade gracefully without it
	Version string
}

// dbMu serializes tool calls that touch the database. The mcp-go library
// dispatches handlers concurrently via goroutines, and SQLite supports
// only one writer at a time.
var dbMu sync.Mutex

// NewServer creates a configured MCP server with all tagline tools.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}

	s := server.NewMCPServer(
		"Tagline",
		ver,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(true, false),
	)

	registerParseTool(s, cfg.Parser, cfg.Store)
	registerFormatTool(s, cfg.Parser)
	registerEntitiesTool(s, cfg.Store)

	if cfg.Store != nil {
		registerStatsResource(s, cfg.Store)
	}

	return s
}

// ServeStdio blocks serving the MCP protocol on stdin/stdout.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// --- Tools ---

func registerParseTool(s *server.MCPServer, p *tagline.Parser, st store.Store) {
	tool := mcp.NewTool("tagline_parse",
		mcp.WithDescription("Extract typed annotations from a message. Returns each entity with its raw value, coerced value, formatted value, inferred type, and position span. Optionally persists the parse."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("The text to scan for annotations"),
		),
		mcp.WithString("source",
			mcp.Description("Source identifier recorded when persisting (e.g. filename, channel). Defaults to 'mcp'."),
		),
		mcp.WithBoolean("save",
			mcp.Description("Persist the message and its entities to the store (default: false)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message, err := req.RequireString("message")
		if err != nil {
			return mcp.NewToolResultError("message is required"), nil
		}

		res := p.Parse(message)

		save := false
		if v, err := req.RequireString("save"); err == nil {
			save = v == "true"
		} else if v, err := req.RequireBool("save"); err == nil {
			save = v
		}

		var messageID int64
		if save {
			if st == nil {
				return mcp.NewToolResultError("no store configured, cannot save"), nil
			}
			source := "mcp"
			if v, err := req.RequireString("source"); err == nil && v != "" {
				source = v
			}
			dbMu.Lock()
			messageID, err = st.SaveParse(ctx, source, res)
			dbMu.Unlock()
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("save error: %v", err)), nil
			}
		}

		out := struct {
			MessageID int64            `json:"message_id,omitempty"`
			Entities  []tagline.Entity `json:"entities"`
			Types     []string         `json:"types"`
		}{messageID, res.Entities, res.Types()}

		data, _ := json.MarshalIndent(out, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerFormatTool(s *server.MCPServer, p *tagline.Parser) {
	tool := mcp.NewTool("tagline_format",
		mcp.WithDescription("Parse a message and return it reconstructed with every annotation replaced by its formatted value."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("The text to reconstruct"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message, err := req.RequireString("message")
		if err != nil {
			return mcp.NewToolResultError("message is required"), nil
		}
		return mcp.NewToolResultText(p.Parse(message).Format()), nil
	})
}

func registerEntitiesTool(s *server.MCPServer, st store.Store) {
	tool := mcp.NewTool("tagline_entities",
		mcp.WithDescription("Query previously stored annotations, optionally filtered by type name. Newest messages first."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("type",
			mcp.Description("Entity type name to filter on (empty = all)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum rows to return (default: 50, max: 500)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if st == nil {
			return mcp.NewToolResultError("no store configured"), nil
		}

		opts := store.ListOpts{Limit: 50}
		if v, err := req.RequireString("type"); err == nil && v != "" {
			opts.Type = v
		}
		if v, err := req.RequireFloat("limit"); err == nil {
			limit := int(v)
			if limit > 500 {
				limit = 500
			}
			if limit > 0 {
				opts.Limit = limit
			}
		}

		dbMu.Lock()
		rows, err := st.ListEntities(ctx, opts)
		dbMu.Unlock()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list error: %v", err)), nil
		}

		data, _ := json.MarshalIndent(rows, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

// --- Resources ---

func registerStatsResource(s *server.MCPServer, st store.Store) {
	resource := mcp.NewResource(
		"tagline://stats",
		"Annotation Store Stats",
		mcp.WithResourceDescription("Message and entity counts, per-type totals, and database size."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dbMu.Lock()
		stats, err := st.Stats(ctx)
		dbMu.Unlock()
		if err != nil {
			return nil, fmt.Errorf("reading stats: %w", err)
		}

		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "tagline://stats",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
