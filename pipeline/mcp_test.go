package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var testMCPImpl = &mcp.Implementation{Name: "notemill-test", Version: "0.1.0"}

func mcpSession(t *testing.T, f *fakeStore) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(testMCPImpl, nil)
	NewRunner(f, slog.New(slog.DiscardHandler)).RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func mcpCallTool(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if err := result.GetError(); err != nil {
		t.Fatalf("CallTool(%s) tool error: %v", name, err)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent", name)
	}
	return tc.Text
}

func TestMCP_CreateNote(t *testing.T) {
	f := newFakeStore()
	session := mcpSession(t, f)

	text := mcpCallTool(t, session, "notemill_create_note", map[string]any{
		"title":   "from mcp",
		"content": "hello",
		"tags":    []string{"mcp"},
	})

	var meta struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(text), &meta); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if meta.ID != "note_new" {
		t.Errorf("id: got %q", meta.ID)
	}
	if f.lastCreate == nil || !strings.Contains(f.lastCreate.Content, "<div>hello</div>") {
		t.Errorf("create payload: %+v", f.lastCreate)
	}
}

func TestMCP_GetNote_Markdown(t *testing.T) {
	f := newFakeStore()
	seedNote(f, "note_1", "<div><i>slanted</i></div>")
	session := mcpSession(t, f)

	text := mcpCallTool(t, session, "notemill_get_note", map[string]any{
		"note_id": "note_1",
		"format":  "markdown",
	})

	var note struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(text), &note); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !strings.Contains(note.Content, "*slanted*") {
		t.Errorf("markdown content: %q", note.Content)
	}
}

func TestMCP_SearchNotes(t *testing.T) {
	f := newFakeStore()
	session := mcpSession(t, f)

	text := mcpCallTool(t, session, "notemill_search_notes", map[string]any{"query": "ridge"})

	var notes []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(text), &notes); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(notes) != 1 || notes[0].ID != "note_hit" {
		t.Errorf("results: %+v", notes)
	}
}

func TestMCP_UpdateNote_ValidationError(t *testing.T) {
	f := newFakeStore()
	seedNote(f, "note_1", "<div>x</div>")
	session := mcpSession(t, f)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "notemill_update_note",
		Arguments: map[string]any{
			"note_id":      "note_1",
			"content_mode": "searchReplace",
		},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected a tool error for searchReplace without a search value")
	}
}
