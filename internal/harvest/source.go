// Package harvest runs the batched harvest: it loads the requested
// identifiers, queries them batch by batch through a search session, keeps the
// first record seen per identifier and reconciles what was captured against
// what was requested.
package harvest

import (
	"github.com/rotisserie/eris"

	"github.com/miajac/theiceweshare/internal/model"
	"github.com/miajac/theiceweshare/internal/tabular"
)

// NormalizeIdentifier trims surrounding whitespace and applies Unicode NFC,
// the same normalization records apply to their Digital File ID.
func NormalizeIdentifier(raw string) string {
	return model.NormalizeID(raw)
}

// NormalizeIdentifiers normalizes raw values, drops blanks and keeps only the
// first occurrence of each identifier, preserving order.
func NormalizeIdentifiers(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		id := NormalizeIdentifier(r)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// LoadIdentifiers reads the request set from column in a .xlsx or .csv file.
// sheet optionally selects a workbook sheet.
func LoadIdentifiers(path, sheet, column string) ([]string, error) {
	tbl, err := tabular.ReadTable(path, sheet)
	if err != nil {
		return nil, eris.Wrapf(ErrDataLoad, "read %s: %v", path, err)
	}
	values, err := tbl.Column(column)
	if err != nil {
		return nil, eris.Wrapf(ErrDataLoad, "%s: %v", path, err)
	}
	return NormalizeIdentifiers(values), nil
}
