package resource

import (
	"bytes"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfPageCount reports the page count of a PDF payload. Unreadable or
// corrupt data yields 0; attachment handling never fails on metadata.
func pdfPageCount(data []byte) int {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return 0
	}
	return ctx.PageCount
}
