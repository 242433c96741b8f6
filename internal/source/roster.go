package source

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/oceanatlas/pureingest/internal/normalize"
)

// RosterRow is one spreadsheet row keyed by normalized header name. Cell
// values are whitespace-collapsed; absent cells read as "".
type RosterRow map[string]string

// Get returns the cell under col, or "".
func (r RosterRow) Get(col string) string {
	return r[normalize.CollapseWhitespace(col)]
}

// LoadRoster reads the named sheet of an xlsx workbook into rows keyed by
// the header line. Header names are whitespace-normalized so minor roster
// formatting drift does not break column lookup.
func LoadRoster(path, sheet string) ([]RosterRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open roster %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = normalize.CollapseWhitespace(h)
	}

	out := make([]RosterRow, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		row := make(RosterRow, len(headers))
		empty := true
		for i, h := range headers {
			if h == "" || i >= len(cells) {
				continue
			}
			v := normalize.CollapseWhitespace(cells[i])
			if v != "" {
				row[h] = v
				empty = false
			}
		}
		if !empty {
			out = append(out, row)
		}
	}
	return out, nil
}
