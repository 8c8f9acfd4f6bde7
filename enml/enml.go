// Package enml reads and writes the restricted XML dialect used for note
// bodies. A note document is always an XML prolog, the en-note doctype and a
// single en-note root element; everything inside the root is limited to the
// sanitizer allowlist (see sanitize.go).
package enml

import (
	"regexp"
	"strings"
)

const (
	xmlProlog = `<?xml version="1.0" encoding="UTF-8"?>`
	doctype   = `<!DOCTYPE en-note SYSTEM "http://xml.evernote.com/pub/enml2.dtd">`
)

var (
	// Non-greedy so nested en-note-like text content cannot truncate the
	// body early; the root tag may carry attributes.
	rootPattern = regexp.MustCompile(`(?is)<en-note[^>]*>(.*?)</en-note>`)

	prologPattern  = regexp.MustCompile(`(?is)<\?xml[^>]*\?>\s*`)
	doctypePattern = regexp.MustCompile(`(?is)<!DOCTYPE[^>]*>\s*`)

	rootOpenPattern  = regexp.MustCompile(`(?i)<en-note([^>]*)>`)
	rootClosePattern = regexp.MustCompile(`(?i)</en-note>`)

	todoCheckedPattern = regexp.MustCompile(`(?i)<en-todo[^>]*checked\s*=\s*["']?true["']?[^>]*/?>`)
	todoPattern        = regexp.MustCompile(`(?i)<en-todo[^>]*/?>`)
	todoClosePattern   = regexp.MustCompile(`(?i)</en-todo>`)
)

// Wrap produces a full note document around body. The caller guarantees the
// body is already valid allowlisted markup (output of Sanitize, FromPlainText
// or FromMarkdown).
func Wrap(body string) string {
	var sb strings.Builder
	sb.Grow(len(xmlProlog) + len(doctype) + len(body) + 24)
	sb.WriteString(xmlProlog)
	sb.WriteByte('\n')
	sb.WriteString(doctype)
	sb.WriteByte('\n')
	sb.WriteString("<en-note>")
	sb.WriteString(body)
	sb.WriteString("</en-note>")
	return sb.String()
}

// Unwrap extracts the body between the root element's tags. Malformed input
// or a missing root element yields an empty body, never an error.
func Unwrap(doc string) string {
	m := rootPattern.FindStringSubmatch(doc)
	if m == nil {
		return ""
	}
	return m[1]
}

var plainTextEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// FromPlainText encodes text as a note document: XML metacharacters escaped,
// line breaks converted to <br/>, the whole result in one div block.
func FromPlainText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = plainTextEscaper.Replace(line)
	}
	return Wrap("<div>" + strings.Join(lines, "<br/>") + "</div>")
}

// FromHTML sanitizes arbitrary HTML and wraps the result as a note document.
func FromHTML(html string) (string, error) {
	body, err := Sanitize(html)
	if err != nil {
		return "", err
	}
	return Wrap(body), nil
}

// ToDisplayHTML converts a note document into plain display HTML: the prolog
// and doctype are stripped, the root element becomes a div (attributes
// preserved) and checklist elements become disabled checkbox inputs. The
// conversion is one-directional.
func ToDisplayHTML(doc string) string {
	out := prologPattern.ReplaceAllString(doc, "")
	out = doctypePattern.ReplaceAllString(out, "")
	out = rootOpenPattern.ReplaceAllString(out, "<div$1>")
	out = rootClosePattern.ReplaceAllString(out, "</div>")
	out = todoCheckedPattern.ReplaceAllString(out, `<input type="checkbox" checked="checked" disabled="disabled"/>`)
	out = todoPattern.ReplaceAllString(out, `<input type="checkbox" disabled="disabled"/>`)
	out = todoClosePattern.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}
