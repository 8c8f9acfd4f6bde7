package resource

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"testing"
)

func TestBuildHashBinding(t *testing.T) {
	data := []byte("attachment bytes")
	resources, tags := Build([]Input{{Name: "data", Data: data, MIME: "image/png", FileName: "pic.png"}})
	if len(resources) != 1 || len(tags) != 1 {
		t.Fatalf("got %d resources, %d tags", len(resources), len(tags))
	}

	sum := md5.Sum(data)
	want := hex.EncodeToString(sum[:])
	if got := resources[0].HexHash(); got != want {
		t.Errorf("resource hash = %q, want %q", got, want)
	}
	if !strings.Contains(tags[0], `hash="`+want+`"`) {
		t.Errorf("tag %q does not carry hash %q", tags[0], want)
	}
	if !strings.Contains(tags[0], `type="image/png"`) {
		t.Errorf("tag %q does not carry MIME type", tags[0])
	}
	if !strings.HasSuffix(tags[0], "/>") {
		t.Errorf("tag not self-closed: %q", tags[0])
	}
}

func TestBuildDefaults(t *testing.T) {
	resources, _ := Build([]Input{{Name: "payload0", Data: []byte{1, 2, 3}}})
	r := resources[0]
	if r.MIME != DefaultMIME {
		t.Errorf("MIME = %q, want %q", r.MIME, DefaultMIME)
	}
	if r.FileName != "payload0" {
		t.Errorf("FileName = %q, want logical name fallback", r.FileName)
	}
	if r.Size != 3 {
		t.Errorf("Size = %d, want 3", r.Size)
	}
}

func TestBuildOrder(t *testing.T) {
	inputs := []Input{
		{Name: "a", Data: []byte("first")},
		{Name: "b", Data: []byte("second")},
		{Name: "c", Data: []byte("third")},
	}
	resources, tags := Build(inputs)
	if len(resources) != 3 || len(tags) != 3 {
		t.Fatalf("got %d resources, %d tags", len(resources), len(tags))
	}
	for i, in := range inputs {
		sum := md5.Sum(in.Data)
		if resources[i].HexHash() != hex.EncodeToString(sum[:]) {
			t.Errorf("resource %d out of order", i)
		}
		if !strings.Contains(tags[i], resources[i].HexHash()) {
			t.Errorf("tag %d does not match resource %d", i, i)
		}
	}
}

func TestPDFPageCountTolerant(t *testing.T) {
	resources, _ := Build([]Input{{Name: "doc", Data: []byte("not a pdf"), MIME: "application/pdf"}})
	if resources[0].PageCount != 0 {
		t.Errorf("PageCount = %d for junk data, want 0", resources[0].PageCount)
	}
}
