package notedit

import (
	"errors"
	"testing"
)

func TestReplaceAndKeep(t *testing.T) {
	if got := Replace("<div>new</div>").Apply("<div>old</div>"); got != "<div>new</div>" {
		t.Errorf("replace: got %q", got)
	}
	if got := Keep().Apply("<div>old</div>"); got != "<div>old</div>" {
		t.Errorf("keep: got %q", got)
	}
}

func TestAppend(t *testing.T) {
	got := Append("<div>two</div>").Apply("<div>one</div>")
	if got != "<div>one</div><div>two</div>" {
		t.Errorf("append: got %q", got)
	}
}

func TestAppendNoDeduplication(t *testing.T) {
	fragment := "<div>same</div>"
	once := Append(fragment).Apply("<div>base</div>")
	twice := Append(fragment).Apply(once)
	if twice != once+fragment {
		t.Errorf("repeated append must not deduplicate: %q", twice)
	}
}

func TestSearchReplaceLiteral(t *testing.T) {
	edit, err := SearchReplace(".", ",", false, false)
	if err != nil {
		t.Fatal(err)
	}
	if got := edit.Apply("price: $5.00"); got != "price: $5,00" {
		t.Errorf("literal dot: got %q, want %q", got, "price: $5,00")
	}
}

func TestSearchReplaceRegex(t *testing.T) {
	edit, err := SearchReplace(`\d`, "#", true, false)
	if err != nil {
		t.Fatal(err)
	}
	if got := edit.Apply("price: $5.00"); got != "price: $#.##" {
		t.Errorf("regex digits: got %q, want %q", got, "price: $#.##")
	}
}

func TestSearchReplaceGlobalAndCase(t *testing.T) {
	tests := []struct {
		name          string
		search        string
		replacement   string
		caseSensitive bool
		in            string
		want          string
	}{
		{"case-insensitive default", "HELLO", "bye", false, "hello Hello HELLO", "bye bye bye"},
		{"case-sensitive", "Hello", "bye", true, "hello Hello HELLO", "hello bye HELLO"},
		{"all occurrences", "a", "b", false, "banana", "bbnbnb"},
	}
	for _, tt := range tests {
		edit, err := SearchReplace(tt.search, tt.replacement, false, tt.caseSensitive)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got := edit.Apply(tt.in); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSearchReplaceLiteralReplacementVerbatim(t *testing.T) {
	edit, err := SearchReplace("x", "$1", false, false)
	if err != nil {
		t.Fatal(err)
	}
	if got := edit.Apply("axb"); got != "a$1b" {
		t.Errorf("literal mode must not expand capture refs: got %q", got)
	}
}

func TestSearchReplaceRegexCaptures(t *testing.T) {
	edit, err := SearchReplace(`(\w+)@example\.com`, "$1@example.org", true, false)
	if err != nil {
		t.Fatal(err)
	}
	if got := edit.Apply("mail alice@example.com now"); got != "mail alice@example.org now" {
		t.Errorf("capture expansion: got %q", got)
	}
}

func TestSearchReplaceEmptySearch(t *testing.T) {
	_, err := SearchReplace("", "x", false, false)
	if !errors.Is(err, ErrEmptySearch) {
		t.Fatalf("got %v, want ErrEmptySearch", err)
	}
}

func TestSearchReplaceBadPattern(t *testing.T) {
	_, err := SearchReplace("(unclosed", "x", true, false)
	var pe *PatternError
	if !errors.As(err, &pe) {
		t.Fatalf("got %v, want PatternError", err)
	}
	if pe.Pattern != "(unclosed" {
		t.Errorf("PatternError.Pattern = %q", pe.Pattern)
	}
}

func TestBadPatternOnlyWithRegexEnabled(t *testing.T) {
	// Literal mode quotes metacharacters, so the same input compiles fine.
	edit, err := SearchReplace("(unclosed", "x", false, false)
	if err != nil {
		t.Fatal(err)
	}
	if got := edit.Apply("a (unclosed b"); got != "a x b" {
		t.Errorf("got %q", got)
	}
}

func TestParseContentMode(t *testing.T) {
	for _, name := range []string{"replace", "append", "keep", "searchReplace"} {
		m, err := ParseContentMode(name)
		if err != nil {
			t.Errorf("ParseContentMode(%q): %v", name, err)
		}
		if m.String() != name {
			t.Errorf("round trip: %q -> %q", name, m.String())
		}
	}
	if _, err := ParseContentMode("merge"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestNeedsExisting(t *testing.T) {
	tests := []struct {
		mode         ContentMode
		hasResources bool
		want         bool
	}{
		{ContentReplace, false, false},
		{ContentReplace, true, false},
		{ContentAppend, false, true},
		{ContentSearchReplace, false, true},
		{ContentKeep, false, false},
		{ContentKeep, true, true},
	}
	for _, tt := range tests {
		if got := tt.mode.NeedsExisting(tt.hasResources); got != tt.want {
			t.Errorf("%s (resources=%v): got %v", tt.mode, tt.hasResources, tt.want)
		}
	}
}
