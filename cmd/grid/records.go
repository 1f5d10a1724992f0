package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	grid "github.com/grindlemire/go-grid"
)

// record is one row of a loaded file, keyed by field name.
type record = map[string]any

// dataset is a loaded file: its records and field names in file order.
type dataset struct {
	fields  []string
	records []record
}

// loadFile reads a CSV or JSON file. The format follows the extension;
// anything other than .json is read as CSV.
func loadFile(path string) (dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataset{}, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return readJSON(f)
	}
	return readCSV(f)
}

// readCSV reads a header row followed by records. Cells that parse as
// numbers become numbers so they sort numerically.
func readCSV(r io.Reader) (dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return dataset{}, fmt.Errorf("reading csv: %w", err)
	}
	if len(rows) == 0 {
		return dataset{}, errors.New("reading csv: missing header row")
	}

	ds := dataset{fields: rows[0]}
	for _, row := range rows[1:] {
		rec := make(record, len(ds.fields))
		for i, name := range ds.fields {
			if i < len(row) {
				rec[name] = parseCell(row[i])
			}
		}
		ds.records = append(ds.records, rec)
	}
	return ds, nil
}

// readJSON reads an array of objects. Field order is the order in which
// keys first appear.
func readJSON(r io.Reader) (dataset, error) {
	var raws []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		return dataset{}, fmt.Errorf("reading json: %w", err)
	}

	var ds dataset
	seen := map[string]bool{}
	for i, raw := range raws {
		keys, err := objectKeys(raw)
		if err != nil {
			return dataset{}, fmt.Errorf("reading json: record %d: %w", i, err)
		}
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				ds.fields = append(ds.fields, k)
			}
		}
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return dataset{}, fmt.Errorf("reading json: record %d: %w", i, err)
		}
		ds.records = append(ds.records, rec)
	}
	return ds, nil
}

// objectKeys returns the keys of a JSON object in document order.
func objectKeys(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("not an object")
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		keys = append(keys, tok.(string))
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func parseCell(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// columns builds one sortable column per field. Fields whose values are
// all numeric align right.
func (ds dataset) columns() []grid.Column[record] {
	cols := make([]grid.Column[record], len(ds.fields))
	for i, name := range ds.fields {
		cols[i] = grid.Column[record]{
			Key:      name,
			Title:    name,
			Field:    name,
			Sortable: true,
			Ellipsis: true,
		}
		if ds.numeric(name) {
			cols[i].Align = grid.AlignRight
		}
	}
	return cols
}

func (ds dataset) numeric(field string) bool {
	found := false
	for _, rec := range ds.records {
		switch rec[field].(type) {
		case nil:
		case int64, float64:
			found = true
		default:
			return false
		}
	}
	return found
}

// hasField reports whether name is one of the dataset's fields.
func (ds dataset) hasField(name string) bool {
	for _, f := range ds.fields {
		if f == name {
			return true
		}
	}
	return false
}
