package pipeline

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Operation kinds.
const (
	KindCreate        = "create"
	KindUpdate        = "update"
	KindGet           = "get"
	KindDelete        = "delete"
	KindSearch        = "search"
	KindListNotebooks = "listNotebooks"
	KindListTags      = "listTags"
)

// Content encodings accepted on create/update.
const (
	ContentText     = "text"
	ContentHTML     = "html"
	ContentMarkdown = "markdown"
)

// Output formats for get.
const (
	FormatENML     = "enml"
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// ErrValidation marks user configuration mistakes. Always fatal to the
// item, never retried.
var ErrValidation = errors.New("pipeline: invalid operation")

// Operation describes one note operation. Zero values mean "not provided";
// Validate enforces the per-kind required fields.
type Operation struct {
	Kind string `json:"kind"`

	NoteID string `json:"note_id,omitempty"`

	Title       string `json:"title,omitempty"`
	ContentKind string `json:"content_kind,omitempty"`
	Content     string `json:"content,omitempty"`

	ContentMode   string `json:"content_mode,omitempty"`
	Search        string `json:"search,omitempty"`
	Replacement   string `json:"replacement,omitempty"`
	UseRegex      bool   `json:"use_regex,omitempty"`
	CaseSensitive bool   `json:"case_sensitive,omitempty"`

	TagMode string   `json:"tag_mode,omitempty"`
	Tags    []string `json:"tags,omitempty"`

	AttributesJSON string            `json:"attributes_json,omitempty"`
	Attributes     map[string]string `json:"attributes,omitempty"`

	NotebookID string `json:"notebook_id,omitempty"`

	// Binary lists the logical names of payloads to attach, in order.
	Binary []string `json:"binary,omitempty"`

	// Get options.
	Format       string `json:"format,omitempty"`
	ResourceData bool   `json:"resource_data,omitempty"`

	// Search options.
	Query string `json:"query,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// Validate checks the per-kind field requirements. Mode strings are parsed
// again at execution time; this pass rejects the statically detectable
// mistakes before any remote call is made.
func (op Operation) Validate() error {
	err := validation.ValidateStruct(&op,
		validation.Field(&op.Kind, validation.Required, validation.In(
			KindCreate, KindUpdate, KindGet, KindDelete, KindSearch, KindListNotebooks, KindListTags)),
		validation.Field(&op.NoteID, validation.Required.When(
			op.Kind == KindUpdate || op.Kind == KindGet || op.Kind == KindDelete)),
		validation.Field(&op.ContentKind, validation.In(ContentText, ContentHTML, ContentMarkdown)),
		validation.Field(&op.ContentMode, validation.In("replace", "append", "keep", "searchReplace")),
		validation.Field(&op.TagMode, validation.In("replace", "add", "remove", "ignore")),
		validation.Field(&op.Format, validation.In(FormatENML, FormatHTML, FormatMarkdown)),
		validation.Field(&op.Limit, validation.Min(0)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if op.Kind == KindUpdate && op.ContentMode == "searchReplace" && op.Search == "" {
		return fmt.Errorf("%w: searchReplace requires a search value", ErrValidation)
	}
	return nil
}
