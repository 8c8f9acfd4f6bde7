// Package resource turns binary payloads into content-addressed attachment
// descriptors and the inline reference tags that bind them to a note body.
package resource

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// DefaultMIME is used when an input declares no MIME type.
const DefaultMIME = "application/octet-stream"

// Input is one binary payload to attach.
type Input struct {
	// Name is the logical property name the payload was read from; it is
	// the file name fallback.
	Name     string
	Data     []byte
	MIME     string
	FileName string
}

// Resource is a content-addressed attachment descriptor. Hash is the raw
// MD5 digest of Data; the hex form appears in the paired reference tag.
type Resource struct {
	Data      []byte `json:"data,omitempty"`
	Size      int    `json:"size"`
	Hash      []byte `json:"hash"`
	MIME      string `json:"mime"`
	FileName  string `json:"file_name"`
	PageCount int    `json:"page_count,omitempty"`
}

// HexHash returns the hex-encoded content hash.
func (r *Resource) HexHash() string {
	return hex.EncodeToString(r.Hash)
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// ReferenceTag returns the inline media element binding this resource into a
// note body by MIME type and content hash.
func (r *Resource) ReferenceTag() string {
	return `<en-media type="` + attrEscaper.Replace(r.MIME) + `" hash="` + r.HexHash() + `"/>`
}

// Build constructs descriptors and reference tags for inputs, in input
// order. The two returned slices correspond index for index. The hash in a
// descriptor and in its tag come from one digest of the same byte slice.
func Build(inputs []Input) ([]Resource, []string) {
	resources := make([]Resource, 0, len(inputs))
	tags := make([]string, 0, len(inputs))
	for _, in := range inputs {
		sum := md5.Sum(in.Data)

		mime := in.MIME
		if mime == "" {
			mime = DefaultMIME
		}
		name := in.FileName
		if name == "" {
			name = in.Name
		}

		r := Resource{
			Data:     in.Data,
			Size:     len(in.Data),
			Hash:     sum[:],
			MIME:     mime,
			FileName: name,
		}
		if mime == "application/pdf" {
			r.PageCount = pdfPageCount(in.Data)
		}

		resources = append(resources, r)
		tags = append(tags, r.ReferenceTag())
	}
	return resources, tags
}
