package notedit

import "regexp"

// ContentEdit is one body-editing request. Construct it with Replace,
// Append, Keep or SearchReplace; the constructors enforce each mode's
// required inputs.
type ContentEdit struct {
	mode        ContentMode
	body        string
	search      *regexp.Regexp
	replacement string
	literal     bool
}

// Replace discards any prior body in favor of body.
func Replace(body string) ContentEdit {
	return ContentEdit{mode: ContentReplace, body: body}
}

// Append concatenates body after the existing body.
func Append(body string) ContentEdit {
	return ContentEdit{mode: ContentAppend, body: body}
}

// Keep leaves the existing body unchanged.
func Keep() ContentEdit {
	return ContentEdit{mode: ContentKeep}
}

// SearchReplace replaces every occurrence of search in the existing body
// with replacement. With useRegex off the search value is matched literally
// and the replacement is inserted verbatim; with it on, the value is a
// regular expression and the replacement may use capture references.
// Matching is case-insensitive unless caseSensitive is set.
func SearchReplace(search, replacement string, useRegex, caseSensitive bool) (ContentEdit, error) {
	re, err := compileSearch(search, useRegex, caseSensitive)
	if err != nil {
		return ContentEdit{}, err
	}
	return ContentEdit{
		mode:        ContentSearchReplace,
		search:      re,
		replacement: replacement,
		literal:     !useRegex,
	}, nil
}

// Mode returns the edit's content mode.
func (e ContentEdit) Mode() ContentMode { return e.mode }

// Apply computes the new body from the existing one.
func (e ContentEdit) Apply(existing string) string {
	switch e.mode {
	case ContentReplace:
		return e.body
	case ContentAppend:
		return existing + e.body
	case ContentSearchReplace:
		if e.literal {
			return e.search.ReplaceAllLiteralString(existing, e.replacement)
		}
		return e.search.ReplaceAllString(existing, e.replacement)
	}
	return existing
}
