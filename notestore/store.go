package notestore

import "context"

// Store is the note-storage collaborator. Both the remote HTTP client and
// the local SQLite store satisfy it; the pipeline only ever talks to this
// interface.
type Store interface {
	// GetNote fetches one note. opts controls whether the body and the raw
	// resource bytes are materialized.
	GetNote(ctx context.Context, id string, opts GetOptions) (*Note, error)

	// NoteTagNames returns the names of the tags currently on a note.
	NoteTagNames(ctx context.Context, id string) ([]string, error)

	CreateNote(ctx context.Context, nc *NoteCreate) (*NoteMeta, error)
	UpdateNote(ctx context.Context, id string, u *NoteUpdate) (*NoteMeta, error)
	DeleteNote(ctx context.Context, id string) error

	// Search returns note metadata matching query, newest first. An empty
	// notebookID searches all notebooks.
	Search(ctx context.Context, query, notebookID string, limit int) ([]NoteMeta, error)

	ListNotebooks(ctx context.Context) ([]Notebook, error)
	ListTags(ctx context.Context) ([]Tag, error)
}
