package pipeline

import (
	"encoding/base64"
	"fmt"
)

// Attachment is a binary payload carried inline as base64.
type Attachment struct {
	Name     string `json:"name"`
	DataB64  string `json:"data_b64"`
	MIME     string `json:"mime"`
	FileName string `json:"file_name"`
}

// Request is the wire shape shared by the MCP tools and the HTTP API: an
// Operation plus inline attachments.
type Request struct {
	Operation
	Attachments []Attachment `json:"attachments"`
}

// Item decodes the attachments and assembles the work item, forcing the
// operation kind.
func (p *Request) Item(kind string) (Item, error) {
	item := Item{Op: p.Operation}
	item.Op.Kind = kind
	if len(p.Attachments) > 0 {
		item.Binary = make(map[string]BinaryPayload, len(p.Attachments))
		item.Op.Binary = nil
		for _, a := range p.Attachments {
			data, err := base64.StdEncoding.DecodeString(a.DataB64)
			if err != nil {
				return Item{}, fmt.Errorf("%w: attachment %q: %v", ErrValidation, a.Name, err)
			}
			item.Binary[a.Name] = BinaryPayload{Data: data, MIME: a.MIME, FileName: a.FileName}
			item.Op.Binary = append(item.Op.Binary, a.Name)
		}
	}
	return item, nil
}
