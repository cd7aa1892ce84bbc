// report/export.go
package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
)

// utf8BOM makes spreadsheet tools detect CSV exports as UTF-8
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV serializes rows under a fixed header. Nested objects are flattened
// into their cells as JSON text.
func WriteCSV(w io.Writer, columns []string, rows []map[string]interface{}) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = cellString(row[col])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON serializes rows as an indented array, nested objects intact
func WriteJSON(w io.Writer, rows []map[string]interface{}) error {
	if rows == nil {
		rows = []map[string]interface{}{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(rows)
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		// maps and slices from decoded QBO JSON
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
