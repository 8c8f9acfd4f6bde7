package enml

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/yuin/goldmark"
)

var mdRenderer = goldmark.New()

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// FromMarkdown renders markdown to HTML, sanitizes it and wraps the result
// as a note document.
func FromMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("enml: render markdown: %w", err)
	}
	return FromHTML(buf.String())
}

// ToMarkdown converts a note document to markdown via its display HTML.
// Checklist state and media references survive only as their display form.
func ToMarkdown(doc string) (string, error) {
	md, err := mdConverter.ConvertString(ToDisplayHTML(doc))
	if err != nil {
		return "", fmt.Errorf("enml: convert to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}
