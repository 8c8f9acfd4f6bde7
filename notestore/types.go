// Package notestore defines the note-storage collaborator contract: the
// Store interface, the note/notebook/tag types that cross it, and the
// remote error surface. Implementations live in sqlitestore (local) and
// client.go (remote HTTP).
package notestore

import "github.com/notemill/notemill/resource"

// Note is one stored note. Content is the full note document including the
// XML shell; it is empty unless fetched with Content set in GetOptions.
type Note struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Content    string              `json:"content,omitempty"`
	NotebookID string              `json:"notebook_id,omitempty"`
	Tags       []string            `json:"tags,omitempty"`
	Attributes map[string]string   `json:"attributes,omitempty"`
	Resources  []resource.Resource `json:"resources,omitempty"`
	CreatedAt  int64               `json:"created_at"`
	UpdatedAt  int64               `json:"updated_at"`
}

// NoteMeta is the metadata slice of a note, returned by writes and search.
type NoteMeta struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	NotebookID string `json:"notebook_id,omitempty"`
	CreatedAt  int64  `json:"created_at"`
	UpdatedAt  int64  `json:"updated_at"`
}

// Notebook describes one notebook.
type Notebook struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Default   bool   `json:"default,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// Tag describes one tag.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GetOptions controls how much of a note a fetch materializes.
type GetOptions struct {
	Content      bool
	ResourceData bool
}

// NoteCreate carries everything for a create call. Nil Tags means "no
// tags", nil Attributes means "no attribute payload".
type NoteCreate struct {
	Title      string              `json:"title"`
	Content    string              `json:"content"`
	NotebookID string              `json:"notebook_id,omitempty"`
	Tags       []string            `json:"tags,omitempty"`
	Attributes map[string]string   `json:"attributes,omitempty"`
	Resources  []resource.Resource `json:"resources,omitempty"`
}
