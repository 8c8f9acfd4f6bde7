// Package sqlitestore implements notestore.Store on a local SQLite database
// with FTS5 search. It is the storage backend when no remote service is
// configured.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/notemill/notemill/dbopen"
	"github.com/notemill/notemill/idgen"
	"github.com/notemill/notemill/notestore"
	"github.com/notemill/notemill/resource"
)

// DefaultNotebookName names the notebook that receives notes created
// without an explicit notebook.
const DefaultNotebookName = "Inbox"

// Store implements notestore.Store on a SQLite database.
type Store struct {
	db         *sql.DB
	noteID     idgen.Generator
	notebookID idgen.Generator
	tagID      idgen.Generator
}

// New wraps an already-opened database. The schema must have been applied.
func New(db *sql.DB, gen idgen.Generator) *Store {
	if gen == nil {
		gen = idgen.UUIDv7()
	}
	return &Store{
		db:         db,
		noteID:     idgen.Prefixed("note_", gen),
		notebookID: idgen.Prefixed("nb_", gen),
		tagID:      idgen.Prefixed("tag_", gen),
	}
}

// Open opens (creating if needed) a note database at path and applies the
// schema.
func Open(path string) (*Store, error) {
	db, err := dbopen.Open(path, dbopen.WithMkdirAll(), dbopen.WithSchema(Schema))
	if err != nil {
		return nil, fmt.Errorf("open note db: %w", err)
	}
	return New(db, nil), nil
}

// DB exposes the underlying handle for lifecycle management.
func (s *Store) DB() *sql.DB { return s.db }

var markupTag = regexp.MustCompile(`<[^>]*>`)

// plainText strips markup for FTS indexing.
func plainText(doc string) string {
	return strings.TrimSpace(html.UnescapeString(markupTag.ReplaceAllString(doc, " ")))
}

func (s *Store) GetNote(ctx context.Context, id string, opts notestore.GetOptions) (*notestore.Note, error) {
	n := &notestore.Note{ID: id}
	var attrsJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT title, content, notebook_id, attrs_json, created_at, updated_at FROM notes WHERE id = ?`, id).
		Scan(&n.Title, &n.Content, &n.NotebookID, &attrsJSON, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get note %s: %w", id, notestore.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get note %s: %w", id, err)
	}
	if !opts.Content {
		n.Content = ""
	}
	if attrsJSON != "" && attrsJSON != "{}" {
		if err := json.Unmarshal([]byte(attrsJSON), &n.Attributes); err != nil {
			return nil, fmt.Errorf("get note %s: decode attributes: %w", id, err)
		}
	}

	tags, err := s.NoteTagNames(ctx, id)
	if err != nil {
		return nil, err
	}
	n.Tags = tags

	n.Resources, err = s.noteResources(ctx, id, opts.ResourceData)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Store) noteResources(ctx context.Context, id string, withData bool) ([]resource.Resource, error) {
	cols := `hash, size, mime, file_name, page_count`
	if withData {
		cols += `, data`
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cols+` FROM resources WHERE note_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("note %s resources: %w", id, err)
	}
	defer rows.Close()

	var out []resource.Resource
	for rows.Next() {
		var r resource.Resource
		var hexHash string
		dest := []any{&hexHash, &r.Size, &r.MIME, &r.FileName, &r.PageCount}
		if withData {
			dest = append(dest, &r.Data)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		r.Hash, err = hex.DecodeString(hexHash)
		if err != nil {
			return nil, fmt.Errorf("decode resource hash %q: %w", hexHash, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) NoteTagNames(ctx context.Context, id string) ([]string, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes WHERE id = ?`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("note %s tags: %w", id, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("note %s tags: %w", id, notestore.ErrNotFound)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.name FROM note_tags nt JOIN tags t ON t.id = nt.tag_id
		WHERE nt.note_id = ? ORDER BY nt.position`, id)
	if err != nil {
		return nil, fmt.Errorf("note %s tags: %w", id, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Store) CreateNote(ctx context.Context, nc *notestore.NoteCreate) (*notestore.NoteMeta, error) {
	id := s.noteID()
	now := time.Now().UnixMilli()
	attrsJSON, err := encodeAttrs(nc.Attributes)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	err = dbopen.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		notebookID := nc.NotebookID
		if notebookID == "" {
			nb, err := s.ensureDefaultNotebook(ctx, tx, now)
			if err != nil {
				return err
			}
			notebookID = nb
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO notes (id, title, content, content_text, notebook_id, attrs_json, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, nc.Title, nc.Content, plainText(nc.Content), notebookID, attrsJSON, now, now); err != nil {
			return fmt.Errorf("insert note: %w", err)
		}
		if err := s.setNoteTags(ctx, tx, id, nc.Tags); err != nil {
			return err
		}
		return s.appendResources(ctx, tx, id, nc.Resources, 0)
	})
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return &notestore.NoteMeta{ID: id, Title: nc.Title, NotebookID: nc.NotebookID, CreatedAt: now, UpdatedAt: now}, nil
}

func (s *Store) UpdateNote(ctx context.Context, id string, u *notestore.NoteUpdate) (*notestore.NoteMeta, error) {
	now := time.Now().UnixMilli()
	var meta notestore.NoteMeta

	err := dbopen.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		var title, content, notebookID string
		var createdAt int64
		err := tx.QueryRowContext(ctx,
			`SELECT title, content, notebook_id, created_at FROM notes WHERE id = ?`, id).
			Scan(&title, &content, &notebookID, &createdAt)
		if errors.Is(err, sql.ErrNoRows) {
			return notestore.ErrNotFound
		}
		if err != nil {
			return err
		}

		if v, ok := u.Title(); ok {
			title = v
		}
		if v, ok := u.Content(); ok {
			content = v
		}
		if v, ok := u.NotebookID(); ok {
			notebookID = v
		}
		set := `title = ?, content = ?, content_text = ?, notebook_id = ?, updated_at = ?`
		args := []any{title, content, plainText(content), notebookID, now}
		if attrs, ok := u.Attributes(); ok {
			attrsJSON, err := encodeAttrs(attrs)
			if err != nil {
				return err
			}
			set += `, attrs_json = ?`
			args = append(args, attrsJSON)
		}
		args = append(args, id)
		if _, err := tx.ExecContext(ctx, `UPDATE notes SET `+set+` WHERE id = ?`, args...); err != nil {
			return fmt.Errorf("update note: %w", err)
		}

		if tags, ok := u.Tags(); ok {
			if _, err := tx.ExecContext(ctx, `DELETE FROM note_tags WHERE note_id = ?`, id); err != nil {
				return fmt.Errorf("clear tags: %w", err)
			}
			if err := s.setNoteTags(ctx, tx, id, tags); err != nil {
				return err
			}
		}

		var maxPos sql.NullInt64
		if err := tx.QueryRowContext(ctx,
			`SELECT MAX(position) FROM resources WHERE note_id = ?`, id).Scan(&maxPos); err != nil {
			return err
		}
		if err := s.appendResources(ctx, tx, id, u.Resources(), int(maxPos.Int64)+1); err != nil {
			return err
		}

		meta = notestore.NoteMeta{ID: id, Title: title, NotebookID: notebookID, CreatedAt: createdAt, UpdatedAt: now}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update note %s: %w", id, err)
	}
	return &meta, nil
}

func (s *Store) DeleteNote(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete note %s: %w", id, notestore.ErrNotFound)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, query, notebookID string, limit int) ([]notestore.NoteMeta, error) {
	if limit <= 0 {
		limit = 20
	}
	var (
		rows *sql.Rows
		err  error
	)
	switch {
	case strings.TrimSpace(query) == "":
		q := `SELECT id, title, notebook_id, created_at, updated_at FROM notes`
		args := []any{}
		if notebookID != "" {
			q += ` WHERE notebook_id = ?`
			args = append(args, notebookID)
		}
		q += ` ORDER BY updated_at DESC LIMIT ?`
		args = append(args, limit)
		rows, err = s.db.QueryContext(ctx, q, args...)
	default:
		q := `SELECT n.id, n.title, n.notebook_id, n.created_at, n.updated_at
			FROM notes_fts f JOIN notes n ON n.rowid = f.rowid
			WHERE notes_fts MATCH ?`
		args := []any{ftsQuery(query)}
		if notebookID != "" {
			q += ` AND n.notebook_id = ?`
			args = append(args, notebookID)
		}
		q += ` ORDER BY rank LIMIT ?`
		args = append(args, limit)
		rows, err = s.db.QueryContext(ctx, q, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	var out []notestore.NoteMeta
	for rows.Next() {
		var m notestore.NoteMeta
		if err := rows.Scan(&m.ID, &m.Title, &m.NotebookID, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ftsQuery quotes each term so user input cannot break FTS5 query syntax.
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}

func (s *Store) ListNotebooks(ctx context.Context) ([]notestore.Notebook, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, is_default, created_at FROM notebooks ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list notebooks: %w", err)
	}
	defer rows.Close()

	var out []notestore.Notebook
	for rows.Next() {
		var nb notestore.Notebook
		if err := rows.Scan(&nb.ID, &nb.Name, &nb.Default, &nb.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notebook: %w", err)
		}
		out = append(out, nb)
	}
	return out, rows.Err()
}

func (s *Store) ListTags(ctx context.Context) ([]notestore.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var out []notestore.Tag
	for rows.Next() {
		var t notestore.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) ensureDefaultNotebook(ctx context.Context, tx *sql.Tx, now int64) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM notebooks WHERE is_default = 1`).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	id = s.notebookID()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO notebooks (id, name, is_default, created_at) VALUES (?, ?, 1, ?)`,
		id, DefaultNotebookName, now); err != nil {
		return "", fmt.Errorf("create default notebook: %w", err)
	}
	return id, nil
}

func (s *Store) setNoteTags(ctx context.Context, tx *sql.Tx, noteID string, names []string) error {
	for pos, name := range names {
		tagID, err := s.upsertTag(ctx, tx, name)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO note_tags (note_id, tag_id, position) VALUES (?, ?, ?)`,
			noteID, tagID, pos); err != nil {
			return fmt.Errorf("attach tag %q: %w", name, err)
		}
	}
	return nil
}

func (s *Store) upsertTag(ctx context.Context, tx *sql.Tx, name string) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	id = s.tagID()
	if _, err := tx.ExecContext(ctx, `INSERT INTO tags (id, name) VALUES (?, ?)`, id, name); err != nil {
		return "", fmt.Errorf("create tag %q: %w", name, err)
	}
	return id, nil
}

func (s *Store) appendResources(ctx context.Context, tx *sql.Tx, noteID string, rs []resource.Resource, startPos int) error {
	for i, r := range rs {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO resources (note_id, hash, data, size, mime, file_name, page_count, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			noteID, r.HexHash(), r.Data, r.Size, r.MIME, r.FileName, r.PageCount, startPos+i); err != nil {
			return fmt.Errorf("insert resource %s: %w", r.HexHash(), err)
		}
	}
	return nil
}

func encodeAttrs(attrs map[string]string) (string, error) {
	if len(attrs) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		return "", fmt.Errorf("encode attributes: %w", err)
	}
	return string(b), nil
}
