package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// docxText extracts paragraph text and table content from a .docx payload.
// All non-empty body paragraphs come first, in document order; every table is
// then flattened row-by-row into pipe-delimited lines under an
// "Extracted Tables:" section. Tables never interleave with paragraph text.
func docxText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", eris.New("extract: empty docx data")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", eris.Wrap(err, "extract: open docx")
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", eris.New("extract: docx missing word/document.xml")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", eris.Wrap(err, "extract: read docx")
	}
	defer rc.Close()

	paragraphs, tableRows, err := walkDocumentXML(rc)
	if err != nil {
		return "", eris.Wrap(err, "extract: parse docx xml")
	}

	content := strings.Join(paragraphs, "\n")
	if len(tableRows) > 0 {
		content += "\n\nExtracted Tables:\n" + strings.Join(tableRows, "\n")
	}
	return content, nil
}

// walkDocumentXML streams word/document.xml and separates body paragraphs
// from table rows. Paragraphs inside a w:tbl element belong to cells, not the
// body, so a table depth counter keeps them out of the paragraph list.
func walkDocumentXML(r io.Reader) (paragraphs, tableRows []string, err error) {
	decoder := xml.NewDecoder(r)

	var (
		tableDepth int
		para       strings.Builder
		inPara     bool
		row        []string
		cell       strings.Builder
		inCell     bool
	)

	for {
		tok, tokErr := decoder.Token()
		if tokErr == io.EOF {
			break
		}
		if tokErr != nil {
			return nil, nil, tokErr
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "tr":
				if tableDepth > 0 {
					row = nil
				}
			case "tc":
				if tableDepth > 0 {
					inCell = true
					cell.Reset()
				}
			case "p":
				if tableDepth == 0 {
					inPara = true
					para.Reset()
				}
			}
		case xml.CharData:
			if inCell {
				cell.WriteString(string(t))
			} else if inPara {
				para.WriteString(string(t))
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth--
			case "tr":
				if tableDepth > 0 && len(row) > 0 {
					tableRows = append(tableRows, "| "+strings.Join(row, " | ")+" |")
				}
			case "tc":
				if inCell {
					row = append(row, strings.TrimSpace(cell.String()))
					inCell = false
				}
			case "p":
				if inPara {
					if text := strings.TrimSpace(para.String()); text != "" {
						paragraphs = append(paragraphs, text)
					}
					inPara = false
				}
			}
		}
	}

	return paragraphs, tableRows, nil
}
