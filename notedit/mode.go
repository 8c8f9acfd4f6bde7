// Package notedit computes the final body, tag set and attribute set for a
// note create/update from an edit request and, where a mode demands it, the
// note's prior state.
package notedit

import "fmt"

// ContentMode selects how an update computes its new body.
type ContentMode int

const (
	ContentReplace ContentMode = iota
	ContentAppend
	ContentKeep
	ContentSearchReplace
)

var contentModeNames = map[string]ContentMode{
	"replace":       ContentReplace,
	"append":        ContentAppend,
	"keep":          ContentKeep,
	"searchReplace": ContentSearchReplace,
}

// ParseContentMode maps a mode name to its ContentMode.
func ParseContentMode(s string) (ContentMode, error) {
	m, ok := contentModeNames[s]
	if !ok {
		return 0, fmt.Errorf("notedit: unknown content mode %q", s)
	}
	return m, nil
}

func (m ContentMode) String() string {
	switch m {
	case ContentReplace:
		return "replace"
	case ContentAppend:
		return "append"
	case ContentKeep:
		return "keep"
	case ContentSearchReplace:
		return "searchReplace"
	}
	return "unknown"
}

// NeedsExisting reports whether applying the mode requires the note's
// current body. Keep normally leaves the stored body untouched, but when
// attachments are present their reference tags must be appended to it, so
// the body has to be fetched after all.
func (m ContentMode) NeedsExisting(hasResources bool) bool {
	switch m {
	case ContentAppend, ContentSearchReplace:
		return true
	case ContentKeep:
		return hasResources
	}
	return false
}

// TagMode selects how the final tag set is computed.
type TagMode int

const (
	TagsReplace TagMode = iota
	TagsAdd
	TagsRemove
	TagsIgnore
)

var tagModeNames = map[string]TagMode{
	"replace": TagsReplace,
	"add":     TagsAdd,
	"remove":  TagsRemove,
	"ignore":  TagsIgnore,
}

// ParseTagMode maps a mode name to its TagMode.
func ParseTagMode(s string) (TagMode, error) {
	m, ok := tagModeNames[s]
	if !ok {
		return 0, fmt.Errorf("notedit: unknown tag mode %q", s)
	}
	return m, nil
}

func (m TagMode) String() string {
	switch m {
	case TagsReplace:
		return "replace"
	case TagsAdd:
		return "add"
	case TagsRemove:
		return "remove"
	case TagsIgnore:
		return "ignore"
	}
	return "unknown"
}

// NeedsExisting reports whether the mode requires the note's current tag
// set before the final set can be computed.
func (m TagMode) NeedsExisting() bool {
	return m == TagsAdd || m == TagsRemove
}
