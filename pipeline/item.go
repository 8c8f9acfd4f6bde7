// Package pipeline sequences note operations: it encodes content into the
// note markup dialect, builds resources from binary payloads, applies the
// edit and tag modes, and talks to the storage collaborator. Items in a
// batch run sequentially and independently.
package pipeline

import "fmt"

// BinaryPayload is one binary input attached to an item under a logical
// name.
type BinaryPayload struct {
	Data     []byte
	MIME     string
	FileName string
}

// Item is one unit of work: an operation plus the binary payloads it may
// reference by logical name.
type Item struct {
	Op     Operation
	Binary map[string]BinaryPayload
}

// InputError reports a binary input referenced by the operation but absent
// from the item.
type InputError struct {
	Name string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("pipeline: no binary payload named %q on this item", e.Name)
}
