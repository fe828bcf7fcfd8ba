package extract

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// xlsxText flattens every sheet into pipe-delimited rows, one labeled section
// per sheet in workbook order. Cell text is kept as-is.
func xlsxText(data []byte) (string, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return "", eris.Wrap(err, "extract: open xlsx")
	}

	var sections []string
	for i, sheet := range f.Sheets {
		var lines []string
		for _, row := range sheet.Rows {
			cells := make([]string, len(row.Cells))
			for j, cell := range row.Cells {
				cells[j] = cell.String()
			}
			if strings.TrimSpace(strings.Join(cells, "")) == "" {
				continue
			}
			lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
		}
		if len(lines) == 0 {
			continue
		}
		sections = append(sections, fmt.Sprintf("Sheet %d: %s\n%s", i+1, sheet.Name, strings.Join(lines, "\n")))
	}
	return strings.Join(sections, "\n\n"), nil
}
