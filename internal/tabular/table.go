package tabular

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Table is a header row plus data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadTable reads a .xlsx or .csv file into a Table, treating the first row
// as the header. sheet selects a workbook sheet by name and is ignored for CSV.
func ReadTable(path, sheet string) (*Table, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = ReadXLSX(path, sheet)
	case ".csv":
		rows, err = ReadCSV(path)
	default:
		return nil, eris.Errorf("tabular: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("tabular: %s has no header row", path)
	}
	return &Table{Header: rows[0], Rows: rows[1:]}, nil
}

// ColumnIndex returns the index of the header cell equal to name, ignoring
// surrounding whitespace.
func (t *Table) ColumnIndex(name string) (int, error) {
	want := strings.TrimSpace(name)
	for i, h := range t.Header {
		if strings.TrimSpace(h) == want {
			return i, nil
		}
	}
	return -1, eris.Errorf("tabular: column %q not found", name)
}

// Column returns every value in the named column. Short rows yield "".
func (t *Table) Column(name string) ([]string, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out, nil
}
