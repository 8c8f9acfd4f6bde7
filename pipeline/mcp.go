package pipeline

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/notemill/notemill/kit"
)

// RegisterMCP registers all note tools on an MCP server.
func (r *Runner) RegisterMCP(srv *mcp.Server) {
	r.registerCreateNote(srv)
	r.registerUpdateNote(srv)
	r.registerGetNote(srv)
	r.registerDeleteNote(srv)
	r.registerSearchNotes(srv)
	r.registerListNotebooks(srv)
	r.registerListTags(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func decodeOp(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	var p Request
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return nil, err
	}
	return &kit.MCPDecodeResult{Request: &p}, nil
}

var attachmentsSchema = map[string]any{
	"type":        "array",
	"description": "Binary attachments, base64-encoded",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":      map[string]any{"type": "string", "description": "Logical attachment name"},
			"data_b64":  map[string]any{"type": "string", "description": "Payload bytes, base64"},
			"mime":      map[string]any{"type": "string", "description": "Declared MIME type"},
			"file_name": map[string]any{"type": "string", "description": "Display file name"},
		},
		"required": []string{"name", "data_b64"},
	},
}

func (r *Runner) registerCreateNote(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "notemill_create_note",
		Description: "Create a note from plain text, HTML or Markdown, with optional tags, attributes and attachments",
		InputSchema: inputSchema(map[string]any{
			"title":           map[string]any{"type": "string", "description": "Note title"},
			"content":         map[string]any{"type": "string", "description": "Note content"},
			"content_kind":    map[string]any{"type": "string", "description": "Content encoding: text, html or markdown"},
			"tags":            map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Tag names"},
			"attributes_json": map[string]any{"type": "string", "description": "Free-form JSON object of note attributes"},
			"notebook_id":     map[string]any{"type": "string", "description": "Target notebook (default notebook if omitted)"},
			"attachments":     attachmentsSchema,
		}, []string{"title"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		item, err := req.(*Request).Item(KindCreate)
		if err != nil {
			return nil, err
		}
		res, err := r.RunOne(ctx, item)
		if err != nil {
			return nil, err
		}
		return res.Meta, nil
	}
	kit.RegisterMCPTool(srv, tool, endpoint, decodeOp)
}

func (r *Runner) registerUpdateNote(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "notemill_update_note",
		Description: "Update a note: replace, append, keep or search-and-replace content, reconcile tags, merge attributes",
		InputSchema: inputSchema(map[string]any{
			"note_id":         map[string]any{"type": "string", "description": "Note ID"},
			"title":           map[string]any{"type": "string", "description": "New title"},
			"content":         map[string]any{"type": "string", "description": "New content (replace/append modes)"},
			"content_kind":    map[string]any{"type": "string", "description": "Content encoding: text, html or markdown"},
			"content_mode":    map[string]any{"type": "string", "description": "replace, append, keep or searchReplace"},
			"search":          map[string]any{"type": "string", "description": "Search value (searchReplace mode)"},
			"replacement":     map[string]any{"type": "string", "description": "Replacement value (searchReplace mode)"},
			"use_regex":       map[string]any{"type": "boolean", "description": "Treat search as a regular expression"},
			"case_sensitive":  map[string]any{"type": "boolean", "description": "Case-sensitive matching (default insensitive)"},
			"tag_mode":        map[string]any{"type": "string", "description": "replace, add, remove or ignore"},
			"tags":            map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Tag names"},
			"attributes_json": map[string]any{"type": "string", "description": "Free-form JSON object of note attributes"},
			"notebook_id":     map[string]any{"type": "string", "description": "Move the note to this notebook"},
			"attachments":     attachmentsSchema,
		}, []string{"note_id"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		item, err := req.(*Request).Item(KindUpdate)
		if err != nil {
			return nil, err
		}
		res, err := r.RunOne(ctx, item)
		if err != nil {
			return nil, err
		}
		return res.Meta, nil
	}
	kit.RegisterMCPTool(srv, tool, endpoint, decodeOp)
}

func (r *Runner) registerGetNote(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "notemill_get_note",
		Description: "Fetch a note, optionally rendering its content as HTML or Markdown",
		InputSchema: inputSchema(map[string]any{
			"note_id":       map[string]any{"type": "string", "description": "Note ID"},
			"format":        map[string]any{"type": "string", "description": "Content rendering: enml, html or markdown (metadata only if omitted)"},
			"resource_data": map[string]any{"type": "boolean", "description": "Include raw attachment bytes"},
		}, []string{"note_id"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		res, err := r.RunOne(ctx, Item{Op: req.(*Request).Operation})
		if err != nil {
			return nil, err
		}
		return res.Note, nil
	}
	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p Request
		if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
			return nil, err
		}
		p.Kind = KindGet
		return &kit.MCPDecodeResult{Request: &p}, nil
	}
	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func (r *Runner) registerDeleteNote(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "notemill_delete_note",
		Description: "Delete a note",
		InputSchema: inputSchema(map[string]any{
			"note_id": map[string]any{"type": "string", "description": "Note ID"},
		}, []string{"note_id"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		op := req.(*Request).Operation
		op.Kind = KindDelete
		if _, err := r.RunOne(ctx, Item{Op: op}); err != nil {
			return nil, err
		}
		return map[string]string{"status": "deleted", "note_id": op.NoteID}, nil
	}
	kit.RegisterMCPTool(srv, tool, endpoint, decodeOp)
}

func (r *Runner) registerSearchNotes(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "notemill_search_notes",
		Description: "Full-text search over notes",
		InputSchema: inputSchema(map[string]any{
			"query":       map[string]any{"type": "string", "description": "Search query"},
			"notebook_id": map[string]any{"type": "string", "description": "Restrict to one notebook"},
			"limit":       map[string]any{"type": "integer", "description": "Maximum results (default 20)"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		op := req.(*Request).Operation
		op.Kind = KindSearch
		res, err := r.RunOne(ctx, Item{Op: op})
		if err != nil {
			return nil, err
		}
		return res.Notes, nil
	}
	kit.RegisterMCPTool(srv, tool, endpoint, decodeOp)
}

func (r *Runner) registerListNotebooks(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "notemill_list_notebooks",
		Description: "List notebooks",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		res, err := r.RunOne(ctx, Item{Op: Operation{Kind: KindListNotebooks}})
		if err != nil {
			return nil, err
		}
		return res.Notebooks, nil
	}
	kit.RegisterMCPTool(srv, tool, endpoint, decodeOp)
}

func (r *Runner) registerListTags(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "notemill_list_tags",
		Description: "List tags",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		res, err := r.RunOne(ctx, Item{Op: Operation{Kind: KindListTags}})
		if err != nil {
			return nil, err
		}
		return res.Tags, nil
	}
	kit.RegisterMCPTool(srv, tool, endpoint, decodeOp)
}
