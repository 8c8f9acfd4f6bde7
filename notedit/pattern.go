package notedit

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrEmptySearch is returned when a search-and-replace edit carries no
// search value.
var ErrEmptySearch = errors.New("notedit: search value must not be empty")

// PatternError reports a user-supplied search pattern that does not compile.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("notedit: invalid search pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// compileSearch builds the matcher for a search value. With useRegex off
// every metacharacter is matched literally; matching is case-insensitive
// unless caseSensitive is set. This is the only place user-controlled text
// reaches the regexp compiler.
func compileSearch(search string, useRegex, caseSensitive bool) (*regexp.Regexp, error) {
	if search == "" {
		return nil, ErrEmptySearch
	}
	expr := search
	if !useRegex {
		expr = regexp.QuoteMeta(search)
	}
	if !caseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &PatternError{Pattern: search, Err: err}
	}
	return re, nil
}
