package asset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
)

// decodeCSV parses CSV bytes; the first record is the header.
func decodeCSV(data []byte) (*Table, error) {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decoding CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("decoding CSV: no header record")
	}
	return &Table{Columns: records[0], Rows: records[1:]}, nil
}

func encodeCSV(tbl *Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(tbl.Columns); err != nil {
		return nil, err
	}
	if err := w.WriteAll(tbl.Rows); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// decodeJSON parses an array of flat objects. Column order is the sorted
// key set of the first object; later objects may omit keys.
func decodeJSON(data []byte) (*Table, error) {
	var objects []map[string]any
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}
	if len(objects) == 0 {
		return &Table{}, nil
	}

	columns := make([]string, 0, len(objects[0]))
	for k := range objects[0] {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	tbl := &Table{Columns: columns}
	for _, obj := range objects {
		row := make([]string, len(columns))
		for i, col := range columns {
			if v, ok := obj[col]; ok && v != nil {
				row[i] = fmt.Sprint(v)
			}
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, nil
}

func encodeJSON(tbl *Table) ([]byte, error) {
	objects := make([]map[string]string, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		obj := make(map[string]string, len(tbl.Columns))
		for i, col := range tbl.Columns {
			if i < len(row) {
				obj[col] = row[i]
			}
		}
		objects = append(objects, obj)
	}
	return json.MarshalIndent(objects, "", "  ")
}
