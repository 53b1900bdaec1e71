package ingest

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"genstack/internal/util"

	"github.com/ledongthuc/pdf"
)

// ExtractText pulls plain text out of an uploaded document. PDFs go through
// the pdf reader; anything else is treated as UTF-8 text. The result is
// sanitized but otherwise unprocessed.
func ExtractText(filename string, raw []byte) (string, error) {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return extractPDF(raw)
	}
	return util.SanitizeText(string(raw)), nil
}

func extractPDF(raw []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, reader); err != nil {
		return "", fmt.Errorf("read extracted text: %w", err)
	}
	return util.SanitizeText(buf.String()), nil
}
