// Package extract converts uploaded survey artifacts into a single
// normalized text blob suitable for prompting. Dispatch is by declared file
// extension, never by content sniffing.
package extract

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
)

// Artifact is one uploaded file: a display name (whose extension selects the
// extractor) and the raw bytes.
type Artifact struct {
	Name string
	Data []byte
}

// Content extracts text from the artifact. Success never yields an empty
// string: a document that produced no text is reported as an explicit error,
// distinct from a decode or parse failure.
func Content(a Artifact) (string, error) {
	ext := strings.ToLower(filepath.Ext(a.Name))

	var (
		text string
		err  error
	)
	switch ext {
	case ".txt":
		text, err = plainText(a.Data)
	case ".json":
		text, err = jsonText(a.Data)
	case ".csv":
		text, err = csvText(a.Data)
	case ".docx":
		text, err = docxText(a.Data)
	case ".pdf":
		text, err = pdfText(a.Data)
	case ".xlsx":
		text, err = xlsxText(a.Data)
	default:
		return "", eris.Errorf("extract: unsupported file type %q", ext)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", eris.Errorf("extract: no content in %s", a.Name)
	}
	return text, nil
}

// plainText decodes the bytes as UTF-8 verbatim.
func plainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", eris.New("extract: invalid UTF-8 in text file")
	}
	return string(data), nil
}

// jsonText parses and re-serializes with stable indentation so every model
// sees canonical formatting regardless of how the upload was written.
func jsonText(data []byte) (string, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return "", eris.Wrap(err, "extract: parse json")
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "extract: reserialize json")
	}
	return string(out), nil
}

// csvText rejoins each row with commas and rows with newlines, preserving
// cell text and row order. No type coercion.
func csvText(data []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // allow variable fields

	var rows []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", eris.Wrap(err, "extract: parse csv")
		}
		rows = append(rows, strings.Join(record, ","))
	}
	return strings.Join(rows, "\n"), nil
}
