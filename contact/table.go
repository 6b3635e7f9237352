package contact

import (
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/AndreeJait/email-storm/campaign"
	"github.com/AndreeJait/email-storm/errow"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// DefaultPreviewRows is how many rows the preview endpoint returns.
const DefaultPreviewRows = 10

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// nullMarkers are cell values read as missing, matching the usual NA
// spellings of spreadsheet exports.
var nullMarkers = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsNull reports whether a raw cell value counts as missing.
func IsNull(value string) bool {
	_, ok := nullMarkers[value]
	return ok
}

// Table is a parsed contact list: a header and the data rows.
type Table struct {
	Columns []string
	rows    [][]string
}

// IsCSVName checks the upload name carries a .csv extension.
func IsCSVName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

// Read parses a CSV document. Input that is not valid UTF-8 is decoded as
// Latin-1.
func Read(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, parseError("Failed to parse CSV: ", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		if data, err = charmap.ISO8859_1.NewDecoder().Bytes(data); err != nil {
			return nil, parseError("Failed to parse CSV with fallback encoding: ", err)
		}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.WithStack(errow.ErrCSVEmpty)
	}
	if err != nil {
		return nil, parseError("Failed to parse CSV: ", err)
	}

	t := &Table{Columns: make([]string, len(header))}
	for i, col := range header {
		t.Columns[i] = strings.TrimSpace(col)
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseError("Failed to parse CSV: ", err)
		}
		if isBlank(row) {
			continue
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func parseError(prefix string, err error) error {
	return errors.WithStack(errow.ErrCSVParseFailed.WithMessage(prefix + err.Error()))
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Len is the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// MissingColumns returns the names that are not table columns, in order.
func (t *Table) MissingColumns(names []string) []string {
	var missing []string
	for _, name := range names {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Records converts every row to a campaign record. Null cells are left out.
func (t *Table) Records() []campaign.Record {
	records := make([]campaign.Record, 0, len(t.rows))
	for _, row := range t.rows {
		rec := make(campaign.Record, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(row) && !IsNull(row[i]) {
				rec[col] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records
}

// Preview returns the first n rows with every column present; null cells
// become "".
func (t *Table) Preview(n int) []map[string]string {
	if n > len(t.rows) || n < 0 {
		n = len(t.rows)
	}
	out := make([]map[string]string, 0, n)
	for _, row := range t.rows[:n] {
		item := make(map[string]string, len(t.Columns))
		for i, col := range t.Columns {
			item[col] = ""
			if i < len(row) && !IsNull(row[i]) {
				item[col] = row[i]
			}
		}
		out = append(out, item)
	}
	return out
}
