package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/notemill/notemill/enml"
	"github.com/notemill/notemill/notedit"
	"github.com/notemill/notemill/notestore"
	"github.com/notemill/notemill/resource"
)

// Result is the outcome of one item. Exactly one of the payload fields is
// populated, matching the operation kind; a failed item carries its
// original operation plus the error.
type Result struct {
	Index int       `json:"index"`
	Op    Operation `json:"op"`

	Meta      *notestore.NoteMeta  `json:"meta,omitempty"`
	Note      *notestore.Note      `json:"note,omitempty"`
	Notes     []notestore.NoteMeta `json:"notes,omitempty"`
	Notebooks []notestore.Notebook `json:"notebooks,omitempty"`
	Tags      []notestore.Tag      `json:"tags,omitempty"`

	Error string `json:"error,omitempty"`
	Err   error  `json:"-"`
}

// RunOptions controls batch behavior.
type RunOptions struct {
	// ContinueOnError isolates failures: a failed item is emitted with its
	// error and processing continues. When false the first failure aborts
	// the batch.
	ContinueOnError bool
}

// Runner executes items against a storage collaborator.
type Runner struct {
	store notestore.Store
	log   *slog.Logger
}

func NewRunner(store notestore.Store, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{store: store, log: log}
}

// Run processes items sequentially, in order. Output order matches input
// order. See RunOptions for failure behavior.
func (r *Runner) Run(ctx context.Context, items []Item, opts RunOptions) ([]Result, error) {
	results := make([]Result, 0, len(items))
	for i, item := range items {
		start := time.Now()
		res, err := r.execute(ctx, item)
		res.Index = i
		res.Op = item.Op
		if err != nil {
			r.log.Error("item failed", "index", i, "kind", item.Op.Kind, "note_id", item.Op.NoteID, "error", err)
			if !opts.ContinueOnError {
				return results, fmt.Errorf("item %d: %w", i, err)
			}
			res.Err = err
			res.Error = err.Error()
			results = append(results, res)
			continue
		}
		r.log.Info("item done", "index", i, "kind", item.Op.Kind, "note_id", item.Op.NoteID,
			"duration_ms", time.Since(start).Milliseconds())
		results = append(results, res)
	}
	return results, nil
}

// RunOne executes a single item.
func (r *Runner) RunOne(ctx context.Context, item Item) (Result, error) {
	res, err := r.execute(ctx, item)
	res.Op = item.Op
	if err != nil {
		res.Err = err
		res.Error = err.Error()
	}
	return res, err
}

func (r *Runner) execute(ctx context.Context, item Item) (Result, error) {
	op := item.Op
	if err := op.Validate(); err != nil {
		return Result{}, err
	}

	switch op.Kind {
	case KindCreate:
		return r.create(ctx, item)
	case KindUpdate:
		return r.update(ctx, item)
	case KindGet:
		return r.get(ctx, op)
	case KindDelete:
		return Result{}, r.store.DeleteNote(ctx, op.NoteID)
	case KindSearch:
		notes, err := r.store.Search(ctx, op.Query, op.NotebookID, op.Limit)
		return Result{Notes: notes}, err
	case KindListNotebooks:
		nbs, err := r.store.ListNotebooks(ctx)
		return Result{Notebooks: nbs}, err
	case KindListTags:
		tags, err := r.store.ListTags(ctx)
		return Result{Tags: tags}, err
	}
	return Result{}, fmt.Errorf("%w: unknown kind %q", ErrValidation, op.Kind)
}

func (r *Runner) create(ctx context.Context, item Item) (Result, error) {
	op := item.Op
	resources, refTags, err := buildResources(item)
	if err != nil {
		return Result{}, err
	}
	doc, err := encodeContent(op.ContentKind, op.Content)
	if err != nil {
		return Result{}, err
	}
	body := enml.Unwrap(doc) + strings.Join(refTags, "")

	nc := &notestore.NoteCreate{
		Title:      op.Title,
		Content:    enml.Wrap(body),
		NotebookID: op.NotebookID,
		Resources:  resources,
	}
	if final, include := notedit.ReconcileTags(resolveTagMode(op), nil, op.Tags); include {
		nc.Tags = final
	}
	attrs, err := mergeAttributes(op)
	if err != nil {
		return Result{}, err
	}
	nc.Attributes = attrs

	meta, err := r.store.CreateNote(ctx, nc)
	return Result{Meta: meta}, err
}

func (r *Runner) update(ctx context.Context, item Item) (Result, error) {
	op := item.Op
	resources, refTags, err := buildResources(item)
	if err != nil {
		return Result{}, err
	}
	mode, edit, err := buildContentEdit(op)
	if err != nil {
		return Result{}, err
	}

	u := notestore.NewNoteUpdate()
	hasResources := len(resources) > 0
	if mode != notedit.ContentKeep || hasResources {
		existingBody := ""
		if mode.NeedsExisting(hasResources) {
			existing, err := r.store.GetNote(ctx, op.NoteID, notestore.GetOptions{Content: true})
			if err != nil {
				return Result{}, err
			}
			existingBody = enml.Unwrap(existing.Content)
		}
		// Reference tags land after the mode transformation, in every
		// mode, whenever attachments are present.
		body := edit.Apply(existingBody) + strings.Join(refTags, "")
		u.SetContent(enml.Wrap(body))
	}

	if op.Title != "" {
		u.SetTitle(op.Title)
	}
	if op.NotebookID != "" {
		u.SetNotebookID(op.NotebookID)
	}

	tagMode := resolveTagMode(op)
	existingTags := []string(nil)
	if tagMode.NeedsExisting() {
		existingTags, err = r.store.NoteTagNames(ctx, op.NoteID)
		if err != nil {
			return Result{}, err
		}
	}
	if final, include := notedit.ReconcileTags(tagMode, existingTags, op.Tags); include {
		u.SetTags(final)
	}

	attrs, err := mergeAttributes(op)
	if err != nil {
		return Result{}, err
	}
	if attrs != nil {
		u.SetAttributes(attrs)
	}
	u.AddResources(resources)

	meta, err := r.store.UpdateNote(ctx, op.NoteID, u)
	return Result{Meta: meta}, err
}

func (r *Runner) get(ctx context.Context, op Operation) (Result, error) {
	opts := notestore.GetOptions{
		Content:      op.Format != "",
		ResourceData: op.ResourceData,
	}
	note, err := r.store.GetNote(ctx, op.NoteID, opts)
	if err != nil {
		return Result{}, err
	}
	switch op.Format {
	case FormatHTML:
		note.Content = enml.ToDisplayHTML(note.Content)
	case FormatMarkdown:
		md, err := enml.ToMarkdown(note.Content)
		if err != nil {
			return Result{}, fmt.Errorf("render markdown: %w", err)
		}
		note.Content = md
	}
	return Result{Note: note}, nil
}

// buildResources resolves the item's binary references, in order, and
// builds the content-addressed descriptors plus their reference tags.
func buildResources(item Item) ([]resource.Resource, []string, error) {
	if len(item.Op.Binary) == 0 {
		return nil, nil, nil
	}
	inputs := make([]resource.Input, 0, len(item.Op.Binary))
	for _, name := range item.Op.Binary {
		p, ok := item.Binary[name]
		if !ok {
			return nil, nil, &InputError{Name: name}
		}
		inputs = append(inputs, resource.Input{
			Name:     name,
			Data:     p.Data,
			MIME:     p.MIME,
			FileName: p.FileName,
		})
	}
	resources, tags := resource.Build(inputs)
	return resources, tags, nil
}

// encodeContent turns raw input into a full markup document.
func encodeContent(kind, content string) (string, error) {
	switch kind {
	case ContentHTML:
		return enml.FromHTML(content)
	case ContentMarkdown:
		return enml.FromMarkdown(content)
	default:
		return enml.FromPlainText(content), nil
	}
}

// buildContentEdit resolves the edit mode and constructs the body
// transformation. An unset mode means replace when content is supplied,
// keep otherwise.
func buildContentEdit(op Operation) (notedit.ContentMode, notedit.ContentEdit, error) {
	name := op.ContentMode
	if name == "" {
		if op.Content != "" {
			name = "replace"
		} else {
			name = "keep"
		}
	}
	mode, err := notedit.ParseContentMode(name)
	if err != nil {
		return 0, notedit.ContentEdit{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	switch mode {
	case notedit.ContentKeep:
		return mode, notedit.Keep(), nil
	case notedit.ContentSearchReplace:
		edit, err := notedit.SearchReplace(op.Search, op.Replacement, op.UseRegex, op.CaseSensitive)
		if err != nil {
			if errors.Is(err, notedit.ErrEmptySearch) {
				err = fmt.Errorf("%w: %v", ErrValidation, err)
			}
			return 0, notedit.ContentEdit{}, err
		}
		return mode, edit, nil
	}

	doc, err := encodeContent(op.ContentKind, op.Content)
	if err != nil {
		return 0, notedit.ContentEdit{}, err
	}
	body := enml.Unwrap(doc)
	if mode == notedit.ContentAppend {
		return mode, notedit.Append(body), nil
	}
	return mode, notedit.Replace(body), nil
}

// resolveTagMode defaults to replace when tags are supplied, ignore
// otherwise.
func resolveTagMode(op Operation) notedit.TagMode {
	if op.TagMode == "" {
		if len(op.Tags) > 0 {
			return notedit.TagsReplace
		}
		return notedit.TagsIgnore
	}
	mode, err := notedit.ParseTagMode(op.TagMode)
	if err != nil {
		return notedit.TagsIgnore
	}
	return mode
}

func mergeAttributes(op Operation) (map[string]string, error) {
	attrs, err := notedit.MergeAttributes(op.AttributesJSON, op.Attributes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return attrs, nil
}
