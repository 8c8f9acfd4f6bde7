package notestore

import (
	"encoding/json"

	"github.com/notemill/notemill/resource"
)

// NoteUpdate collects the fields of an update call. Only fields explicitly
// set are sent, so "unset" is never confused with "empty": an update that
// never calls SetTags leaves the note's tags untouched, while SetTags(nil)
// clears them.
type NoteUpdate struct {
	title      *string
	content    *string
	notebookID *string
	tags       *[]string
	attributes map[string]string
	attrsSet   bool
	resources  []resource.Resource
}

// NewNoteUpdate returns an update with no fields set.
func NewNoteUpdate() *NoteUpdate { return &NoteUpdate{} }

func (u *NoteUpdate) SetTitle(title string) *NoteUpdate {
	u.title = &title
	return u
}

func (u *NoteUpdate) SetContent(doc string) *NoteUpdate {
	u.content = &doc
	return u
}

func (u *NoteUpdate) SetNotebookID(id string) *NoteUpdate {
	u.notebookID = &id
	return u
}

func (u *NoteUpdate) SetTags(names []string) *NoteUpdate {
	if names == nil {
		names = []string{}
	}
	u.tags = &names
	return u
}

func (u *NoteUpdate) SetAttributes(attrs map[string]string) *NoteUpdate {
	u.attributes = attrs
	u.attrsSet = true
	return u
}

// AddResources appends attachment descriptors to the update.
func (u *NoteUpdate) AddResources(rs []resource.Resource) *NoteUpdate {
	u.resources = append(u.resources, rs...)
	return u
}

// Empty reports whether no field is set at all.
func (u *NoteUpdate) Empty() bool {
	return u.title == nil && u.content == nil && u.notebookID == nil &&
		u.tags == nil && !u.attrsSet && len(u.resources) == 0
}

// Accessors for store implementations: each returns the value and whether
// it was explicitly set.

func (u *NoteUpdate) Title() (string, bool) {
	if u.title == nil {
		return "", false
	}
	return *u.title, true
}

func (u *NoteUpdate) Content() (string, bool) {
	if u.content == nil {
		return "", false
	}
	return *u.content, true
}

func (u *NoteUpdate) NotebookID() (string, bool) {
	if u.notebookID == nil {
		return "", false
	}
	return *u.notebookID, true
}

func (u *NoteUpdate) Tags() ([]string, bool) {
	if u.tags == nil {
		return nil, false
	}
	return *u.tags, true
}

func (u *NoteUpdate) Attributes() (map[string]string, bool) {
	return u.attributes, u.attrsSet
}

func (u *NoteUpdate) Resources() []resource.Resource { return u.resources }

// MarshalJSON emits only the fields that were explicitly set.
func (u *NoteUpdate) MarshalJSON() ([]byte, error) {
	payload := make(map[string]any)
	if u.title != nil {
		payload["title"] = *u.title
	}
	if u.content != nil {
		payload["content"] = *u.content
	}
	if u.notebookID != nil {
		payload["notebook_id"] = *u.notebookID
	}
	if u.tags != nil {
		payload["tags"] = *u.tags
	}
	if u.attrsSet {
		payload["attributes"] = u.attributes
	}
	if len(u.resources) > 0 {
		payload["resources"] = u.resources
	}
	return json.Marshal(payload)
}
