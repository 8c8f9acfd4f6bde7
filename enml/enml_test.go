package enml

import (
	"strings"
	"testing"
)

func TestWrapUnwrapRoundTrip(t *testing.T) {
	bodies := []string{
		"",
		"<div>hello</div>",
		"<div>line1<br/>line2</div>",
		`<div><en-media type="image/png" hash="abc123"/></div>`,
		"<div>&lt;a &amp; b&gt;</div>",
	}
	for _, body := range bodies {
		if got := Unwrap(Wrap(body)); got != body {
			t.Errorf("Unwrap(Wrap(%q)) = %q", body, got)
		}
	}
}

func TestWrapShape(t *testing.T) {
	doc := Wrap("<div>x</div>")
	if !strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("missing prolog: %q", doc)
	}
	if !strings.Contains(doc, "<!DOCTYPE en-note") {
		t.Errorf("missing doctype: %q", doc)
	}
	if !strings.HasSuffix(doc, "</en-note>") {
		t.Errorf("missing root close: %q", doc)
	}
}

func TestUnwrap(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"plain", "<en-note><div>hi</div></en-note>", "<div>hi</div>"},
		{"root attributes", `<en-note style="color:red"><div>hi</div></en-note>`, "<div>hi</div>"},
		{"mixed case", "<EN-NOTE><div>hi</div></EN-NOTE>", "<div>hi</div>"},
		{"with prolog", Wrap("<p>a</p>"), "<p>a</p>"},
		{"no root", "<div>orphan</div>", ""},
		{"empty input", "", ""},
		{"malformed", "<en-note><div>unclosed", ""},
	}
	for _, tt := range tests {
		if got := Unwrap(tt.doc); got != tt.want {
			t.Errorf("%s: Unwrap = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFromPlainText(t *testing.T) {
	doc := FromPlainText("<a & b>\nline2")
	body := Unwrap(doc)
	want := "<div>&lt;a &amp; b&gt;<br/>line2</div>"
	if body != want {
		t.Fatalf("body = %q, want %q", body, want)
	}

	// No raw metacharacters outside markup structure.
	stripped := strings.NewReplacer("<div>", "", "</div>", "", "<br/>", "").Replace(body)
	if strings.ContainsAny(stripped, "<>") {
		t.Errorf("unescaped metacharacters in %q", stripped)
	}
}

func TestFromPlainTextLineEndings(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a\nb", "<div>a<br/>b</div>"},
		{"a\r\nb", "<div>a<br/>b</div>"},
		{"a\rb", "<div>a<br/>b</div>"},
		{"solo", "<div>solo</div>"},
		{"", "<div></div>"},
	}
	for _, tt := range tests {
		if got := Unwrap(FromPlainText(tt.in)); got != tt.want {
			t.Errorf("FromPlainText(%q) body = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToDisplayHTML(t *testing.T) {
	doc := Wrap(`<div>todo:<en-todo checked="true"/>done<en-todo/>open</div>`)
	got := ToDisplayHTML(doc)

	if strings.Contains(got, "<?xml") || strings.Contains(got, "DOCTYPE") {
		t.Errorf("prolog or doctype survived: %q", got)
	}
	if strings.Contains(got, "en-note") || strings.Contains(got, "en-todo") {
		t.Errorf("dialect elements survived: %q", got)
	}
	if !strings.HasPrefix(got, "<div>") || !strings.HasSuffix(got, "</div>") {
		t.Errorf("root not rewritten to div: %q", got)
	}
	if !strings.Contains(got, `<input type="checkbox" checked="checked" disabled="disabled"/>`) {
		t.Errorf("checked todo not converted: %q", got)
	}
	if !strings.Contains(got, `<input type="checkbox" disabled="disabled"/>`) {
		t.Errorf("bare todo not converted: %q", got)
	}
}

func TestToDisplayHTMLUncheckedAndRootAttrs(t *testing.T) {
	doc := `<?xml version="1.0"?><!DOCTYPE en-note SYSTEM "x"><en-note lang="en"><en-todo checked="false"/>task</en-note>`
	got := ToDisplayHTML(doc)
	if !strings.HasPrefix(got, `<div lang="en">`) {
		t.Errorf("root attributes not preserved: %q", got)
	}
	if !strings.Contains(got, `<input type="checkbox" disabled="disabled"/>`) {
		t.Errorf("checked=false todo should render unchecked: %q", got)
	}
}
