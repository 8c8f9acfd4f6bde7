package enml

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Allowlisted elements. Everything else is dropped with its children
// promoted into the parent context.
var allowedElements = []string{
	"div", "span", "p", "br", "hr", "blockquote", "pre", "code",
	"ul", "ol", "li",
	"table", "thead", "tbody", "tfoot", "tr", "td", "th", "caption",
	"h1", "h2", "h3", "h4", "h5", "h6",
	"b", "strong", "i", "em", "u", "s", "strike", "sub", "sup",
	"a", "img",
	"en-media", "en-todo",
}

// Elements serialized self-closed so the body stays XML-compatible.
var voidElements = map[string]bool{
	"br":       true,
	"hr":       true,
	"img":      true,
	"en-media": true,
	"en-todo":  true,
}

var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(allowedElements...)
	p.AllowNoAttrs().OnElements(allowedElements...)

	p.AllowAttrs("href", "title", "name").OnElements("a")
	p.AllowAttrs("src", "width", "height", "alt").OnElements("img")
	p.AllowAttrs("type", "hash", "width", "height", "style", "align",
		"alt", "longdesc").OnElements("en-media")
	p.AllowAttrs("checked").OnElements("en-todo")
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")

	p.AllowURLSchemes("http", "https", "mailto", "data")
	p.SkipElementsContent("script", "style", "iframe", "object", "embed", "noscript", "title")
	return p
}

// Sanitize reduces arbitrary HTML to an allowlisted, XML-compatible body.
// The result is always safe to hand to Wrap: well-formed markup, void
// elements self-closed, no raw metacharacters outside of tags.
func Sanitize(input string) (string, error) {
	cleaned := policy.Sanitize(input)

	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(cleaned), ctx)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, n := range nodes {
		renderXML(&sb, n)
	}
	return sb.String(), nil
}

// renderXML serializes a sanitized node subtree with XML rules: escaped
// text, escaped attribute values, void elements self-closed.
func renderXML(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(html.EscapeString(n.Data))
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		// handled below
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderXML(sb, c)
		}
		return
	}

	name := strings.ToLower(n.Data)
	sb.WriteByte('<')
	sb.WriteString(name)
	for _, a := range n.Attr {
		sb.WriteByte(' ')
		sb.WriteString(strings.ToLower(a.Key))
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(a.Val))
		sb.WriteByte('"')
	}

	if voidElements[name] {
		sb.WriteString("/>")
		// The HTML parser does not know en-media/en-todo are void, so any
		// following siblings were parsed as their children. Promote them.
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderXML(sb, c)
		}
		return
	}

	sb.WriteByte('>')
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderXML(sb, c)
	}
	sb.WriteString("</")
	sb.WriteString(name)
	sb.WriteByte('>')
}
