package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// pdfText extracts text page by page. After each page's text, row detection
// is attempted for that page; rows with multiple cells are flattened into
// pipe-delimited table lines. Row detection failing on one page falls back to
// text-only for that page and is never fatal to the document.
func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", eris.Wrap(err, "extract: open pdf")
	}

	var content strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", eris.Wrap(err, fmt.Sprintf("extract: pdf page %d", pageNum))
		}
		content.WriteString(text)
		content.WriteString("\n")

		if table := pageTable(page, pageNum); table != "" {
			content.WriteString(table)
		}
	}
	return content.String(), nil
}

// pageTable flattens multi-cell rows on one page into pipe-delimited lines.
// Returns "" when the page has no table-like rows or detection fails.
func pageTable(page pdf.Page, pageNum int) string {
	rows, err := page.GetTextByRow()
	if err != nil {
		// Detection failure is not fatal; the page keeps its plain text.
		zap.L().Debug("extract: pdf table detection failed",
			zap.Int("page", pageNum),
			zap.Error(err),
		)
		return ""
	}

	var lines []string
	for _, row := range rows {
		if len(row.Content) < 2 {
			continue
		}
		cells := make([]string, 0, len(row.Content))
		for _, t := range row.Content {
			if s := strings.TrimSpace(t.S); s != "" {
				cells = append(cells, s)
			}
		}
		if len(cells) >= 2 {
			lines = append(lines, strings.Join(cells, " | "))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return fmt.Sprintf("\nTable (page %d):\n%s\n\n", pageNum, strings.Join(lines, "\n"))
}
