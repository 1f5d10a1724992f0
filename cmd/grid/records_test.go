package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	grid "github.com/grindlemire/go-grid"
)

func TestReadCSV(t *testing.T) {
	type tc struct {
		in         string
		wantFields []string
		want       []record
		wantErr    bool
	}

	tests := map[string]tc{
		"numbers parsed": {
			in:         "id,name,score\n1,Ann,9.5\n2,Bob,7\n",
			wantFields: []string{"id", "name", "score"},
			want: []record{
				{"id": int64(1), "name": "Ann", "score": 9.5},
				{"id": int64(2), "name": "Bob", "score": int64(7)},
			},
		},
		"leading spaces trimmed": {
			in:         "id, name\n1, Ann\n",
			wantFields: []string{"id", "name"},
			want:       []record{{"id": int64(1), "name": "Ann"}},
		},
		"header only": {
			in:         "id,name\n",
			wantFields: []string{"id", "name"},
		},
		"empty": {
			in:      "",
			wantErr: true,
		},
		"ragged": {
			in:      "id,name\n1\n",
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ds, err := readCSV(strings.NewReader(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("readCSV() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(ds.fields, tt.wantFields) {
				t.Errorf("fields = %v, want %v", ds.fields, tt.wantFields)
			}
			if !reflect.DeepEqual(ds.records, tt.want) {
				t.Errorf("records = %v, want %v", ds.records, tt.want)
			}
		})
	}
}

func TestReadJSON(t *testing.T) {
	type tc struct {
		in         string
		wantFields []string
		wantErr    bool
	}

	tests := map[string]tc{
		"document order": {
			in:         `[{"name":"Ann","id":1},{"id":2,"email":"b@x","name":"Bob"}]`,
			wantFields: []string{"name", "id", "email"},
		},
		"nested values skipped": {
			in:         `[{"id":1,"tags":["a","b"],"meta":{"k":1},"name":"Ann"}]`,
			wantFields: []string{"id", "tags", "meta", "name"},
		},
		"not an array": {
			in:      `{"id":1}`,
			wantErr: true,
		},
		"not objects": {
			in:      `[1,2]`,
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ds, err := readJSON(strings.NewReader(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("readJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(ds.fields, tt.wantFields) {
				t.Errorf("fields = %v, want %v", ds.fields, tt.wantFields)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "users.csv")
	jsonPath := filepath.Join(dir, "users.JSON")
	if err := os.WriteFile(csvPath, []byte("id,name\n1,Ann\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(jsonPath, []byte(`[{"id":1,"name":"Ann"}]`), 0644); err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{csvPath, jsonPath} {
		ds, err := loadFile(p)
		if err != nil {
			t.Fatalf("loadFile(%s) error = %v", p, err)
		}
		if len(ds.records) != 1 || ds.records[0]["name"] != "Ann" {
			t.Errorf("loadFile(%s) records = %v", p, ds.records)
		}
	}

	if _, err := loadFile(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("loadFile() of a missing file succeeded")
	}
}

func TestDatasetColumns(t *testing.T) {
	ds := dataset{
		fields: []string{"id", "name", "score", "mixed"},
		records: []record{
			{"id": int64(1), "name": "Ann", "score": 9.5, "mixed": int64(1)},
			{"id": int64(2), "name": "Bob", "mixed": "two"},
		},
	}

	cols := ds.columns()
	if len(cols) != 4 {
		t.Fatalf("columns() = %d columns", len(cols))
	}
	want := map[string]grid.Align{
		"id":    grid.AlignRight,
		"name":  grid.AlignLeft,
		"score": grid.AlignRight,
		"mixed": grid.AlignLeft,
	}
	for _, c := range cols {
		if c.Align != want[c.Key] {
			t.Errorf("column %q align = %v, want %v", c.Key, c.Align, want[c.Key])
		}
		if !c.IsSortable() || c.Field != c.Key {
			t.Errorf("column %q = %+v", c.Key, c)
		}
	}
}
