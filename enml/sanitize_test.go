package enml

import (
	"strings"
	"testing"
)

func sanitize(t *testing.T, input string) string {
	t.Helper()
	out, err := Sanitize(input)
	if err != nil {
		t.Fatalf("Sanitize(%q): %v", input, err)
	}
	return out
}

func TestSanitizeDropsDisallowedWrapperKeepsChildren(t *testing.T) {
	got := sanitize(t, "<section><p>keep me</p></section>")
	if strings.Contains(got, "section") {
		t.Errorf("disallowed wrapper survived: %q", got)
	}
	if !strings.Contains(got, "<p>keep me</p>") {
		t.Errorf("children of dropped wrapper lost: %q", got)
	}
}

func TestSanitizeDropsScriptContent(t *testing.T) {
	got := sanitize(t, "<script>evil()</script><p>ok</p>")
	if strings.Contains(got, "evil") {
		t.Errorf("script content survived: %q", got)
	}
	if !strings.Contains(got, "<p>ok</p>") {
		t.Errorf("sibling content lost: %q", got)
	}
}

func TestSanitizeAttributeAllowlist(t *testing.T) {
	got := sanitize(t, `<p onclick="alert(1)" class="big">hi</p>`)
	if got != "<p>hi</p>" {
		t.Errorf("got %q, want %q", got, "<p>hi</p>")
	}
}

func TestSanitizeURLSchemes(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		keeps string
		drops string
	}{
		{"https kept", `<a href="https://example.com/x">l</a>`, `href="https://example.com/x"`, ""},
		{"mailto kept", `<a href="mailto:a@b.c">l</a>`, `href="mailto:a@b.c"`, ""},
		{"javascript stripped", `<a href="javascript:x()" title="t">l</a>`, `title="t"`, "javascript"},
		{"ftp stripped", `<a href="ftp://h/f">l</a>`, "<a>", "ftp"},
		{"data image kept", `<img src="data:image/png;base64,AAAA">`, "data:image/png", ""},
	}
	for _, tt := range tests {
		got := sanitize(t, tt.in)
		if tt.keeps != "" && !strings.Contains(got, tt.keeps) {
			t.Errorf("%s: %q should contain %q", tt.name, got, tt.keeps)
		}
		if tt.drops != "" && strings.Contains(got, tt.drops) {
			t.Errorf("%s: %q should not contain %q", tt.name, got, tt.drops)
		}
		if !strings.Contains(got, ">l<") && !strings.Contains(got, "/>") {
			t.Errorf("%s: element dropped entirely: %q", tt.name, got)
		}
	}
}

func TestSanitizeSelfClosesVoids(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a<br>b", "a<br/>b"},
		{"a<hr>b", "a<hr/>b"},
		{`<img src="https://e/x.png" alt="x">`, `<img src="https://e/x.png" alt="x"/>`},
		{`<en-media type="image/png" hash="abc123"/>`, `<en-media type="image/png" hash="abc123"/>`},
	}
	for _, tt := range tests {
		if got := sanitize(t, tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeEscapesText(t *testing.T) {
	got := sanitize(t, "<p>a &amp; b</p>")
	if !strings.Contains(got, "a &amp; b") {
		t.Errorf("ampersand not escaped: %q", got)
	}
	if strings.Contains(got, "& b") {
		t.Errorf("raw ampersand in output: %q", got)
	}
}

func TestSanitizeOutputWrappable(t *testing.T) {
	// Sanitizer output must survive the wrap/unwrap round trip untouched.
	got := sanitize(t, `<div><h2>Title</h2><ul><li>one</li><li>two</li></ul></div>`)
	if out := Unwrap(Wrap(got)); out != got {
		t.Errorf("round trip changed body: %q vs %q", got, out)
	}
}

func TestSanitizeFormattingElements(t *testing.T) {
	got := sanitize(t, "<b>b</b><i>i</i><u>u</u><s>s</s><sub>x</sub><sup>y</sup>")
	for _, want := range []string{"<b>b</b>", "<i>i</i>", "<u>u</u>", "<s>s</s>", "<sub>x</sub>", "<sup>y</sup>"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
}

func TestSanitizeTables(t *testing.T) {
	got := sanitize(t, `<table><tr><td colspan="2">a</td><td>b</td></tr></table>`)
	if !strings.Contains(got, `<td colspan="2">a</td>`) {
		t.Errorf("table cell attributes lost: %q", got)
	}
	if !strings.Contains(got, "<table>") || !strings.Contains(got, "</table>") {
		t.Errorf("table structure lost: %q", got)
	}
}
