package extract

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Supported upload content types.
const (
	ContentTypePDF   = "application/pdf"
	ContentTypePlain = "text/plain"
	ContentTypeCSV   = "text/csv"
	ContentTypeJSON  = "application/json"
)

// Supported reports whether contentType can be extracted.
func Supported(contentType string) bool {
	switch contentType {
	case ContentTypePDF, ContentTypePlain, ContentTypeCSV, ContentTypeJSON:
		return true
	}
	return false
}

// Text converts raw file bytes into plain searchable text based on the
// declared content type. An unsupported type or unparseable payload yields
// an empty string and an error; callers treat empty text as an extraction
// failure, never a crash.
func Text(data []byte, contentType string) (string, error) {
	switch contentType {
	case ContentTypePDF:
		return fromPDF(data)
	case ContentTypePlain:
		return string(data), nil
	case ContentTypeCSV:
		return fromCSV(data)
	case ContentTypeJSON:
		return fromJSON(data)
	default:
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}
}

// fromPDF joins per-page text with newlines. Pages without extractable
// text contribute nothing.
func fromPDF(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty pdf payload")
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf failed: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || text == "" {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// fromCSV joins each row's fields with single spaces, rows separated by
// newlines.
func fromCSV(data []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv failed: %w", err)
	}

	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(strings.Join(row, " "))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// fromJSON re-serializes the payload with stable 2-space indentation so
// the structure stays visible as searchable text.
func fromJSON(data []byte) (string, error) {
	var parsed interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("parse json failed: %w", err)
	}
	out, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("reindent json failed: %w", err)
	}
	return string(out), nil
}
