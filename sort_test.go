package grid

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestNextSort(t *testing.T) {
	type tc struct {
		current SortState
		key     string
		want    SortState
	}

	tests := map[string]tc{
		"unsorted to ascend": {
			key:  "age",
			want: SortState{ColumnKey: "age", Order: SortAscend},
		},
		"ascend to descend": {
			current: SortState{ColumnKey: "age", Order: SortAscend},
			key:     "age",
			want:    SortState{ColumnKey: "age", Order: SortDescend},
		},
		"descend to none": {
			current: SortState{ColumnKey: "age", Order: SortDescend},
			key:     "age",
			want:    SortState{},
		},
		"other column starts at ascend": {
			current: SortState{ColumnKey: "name", Order: SortDescend},
			key:     "age",
			want:    SortState{ColumnKey: "age", Order: SortAscend},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := NextSort(tt.current, tt.key); got != tt.want {
				t.Errorf("NextSort() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNextSort_CycleReturnsToStart(t *testing.T) {
	s := SortState{}
	for _i := 0; _i < 3; _i++ {
		s = NextSort(s, "age")
	}
	if s.Active() {
		t.Errorf("three clicks = %+v, want unsorted", s)
	}
}

func TestApplySort(t *testing.T) {
	type tc struct {
		state SortState
		want  []int
	}

	tests := map[string]tc{
		"ascend": {
			state: SortState{ColumnKey: "age", Order: SortAscend},
			want:  []int{28, 29, 32, 35, 45},
		},
		"descend": {
			state: SortState{ColumnKey: "age", Order: SortDescend},
			want:  []int{45, 35, 32, 29, 28},
		},
		"none keeps input order": {
			state: SortState{ColumnKey: "age", Order: SortNone},
			want:  []int{32, 28, 45, 35, 29},
		},
		"unsortable column keeps input order": {
			state: SortState{ColumnKey: "email", Order: SortAscend},
			want:  []int{32, 28, 45, 35, 29},
		},
		"unknown column keeps input order": {
			state: SortState{ColumnKey: "zzz", Order: SortAscend},
			want:  []int{32, 28, 45, 35, 29},
		},
	}

	reg := mustColumns(t, testColumns())
	rows := mustRows(t, testUsers()[:5])

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ApplySort(rows, tt.state, reg)
			if err != nil {
				t.Fatalf("ApplySort() error = %v", err)
			}
			if !reflect.DeepEqual(ages(got), tt.want) {
				t.Errorf("ApplySort() ages = %v, want %v", ages(got), tt.want)
			}
		})
	}

	if !reflect.DeepEqual(ages(rows), []int{32, 28, 45, 35, 29}) {
		t.Errorf("input modified: %v", ages(rows))
	}
}

func TestApplySort_Stable(t *testing.T) {
	users := []User{
		{ID: "a", Role: "User"},
		{ID: "b", Role: "Admin"},
		{ID: "c", Role: "User"},
		{ID: "d", Role: "Admin"},
		{ID: "e", Role: "User"},
	}
	reg := mustColumns(t, []Column[User]{{Key: "role", Field: "Role", Sortable: true}})
	rows := mustRows(t, users)

	type tc struct {
		order SortOrder
		want  []Key
	}

	tests := map[string]tc{
		"ascend keeps ties in input order": {
			order: SortAscend,
			want:  []Key{"b", "d", "a", "c", "e"},
		},
		"descend keeps ties in input order": {
			order: SortDescend,
			want:  []Key{"a", "c", "e", "b", "d"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ApplySort(rows, SortState{ColumnKey: "role", Order: tt.order}, reg)
			if err != nil {
				t.Fatalf("ApplySort() error = %v", err)
			}
			assertKeys(t, "ApplySort()", rowKeys(got), tt.want)
		})
	}
}

func TestApplySort_NilLast(t *testing.T) {
	type rec struct {
		ID    string
		Score *int
	}
	one, two := 1, 2
	records := []rec{{ID: "n1"}, {ID: "two", Score: &two}, {ID: "n2"}, {ID: "one", Score: &one}}
	reg, err := NewColumns([]Column[rec]{{Key: "score", Field: "Score", Sortable: true}})
	if err != nil {
		t.Fatal(err)
	}
	rows, _, _ := ResolveRows(records, KeyField[rec]("ID"))

	type tc struct {
		order SortOrder
		want  []Key
	}

	tests := map[string]tc{
		"ascend":  {order: SortAscend, want: []Key{"one", "two", "n1", "n2"}},
		"descend": {order: SortDescend, want: []Key{"two", "one", "n1", "n2"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ApplySort(rows, SortState{ColumnKey: "score", Order: tt.order}, reg)
			if err != nil {
				t.Fatalf("ApplySort() error = %v", err)
			}
			assertKeys(t, "ApplySort()", keysOf(got), tt.want)
		})
	}
}

func TestApplySort_CustomComparator(t *testing.T) {
	reg := mustColumns(t, []Column[User]{{
		Key:     "name-length",
		Compare: func(a, b User) int { return len(a.Name) - len(b.Name) },
	}})
	rows := mustRows(t, testUsers()[:5])

	got, err := ApplySort(rows, SortState{ColumnKey: "name-length", Order: SortAscend}, reg)
	if err != nil {
		t.Fatalf("ApplySort() error = %v", err)
	}
	// John Doe(8) Jane Smith(10) Bob Johnson(11) Alice Williams(14) Charlie Brown(13)
	assertKeys(t, "ApplySort()", rowKeys(got), []Key{"1", "2", "3", "5", "4"})
}

func TestApplySort_ComparatorPanic(t *testing.T) {
	reg := mustColumns(t, []Column[User]{{
		Key:     "bad",
		Compare: func(a, b User) int { panic("comparator broke") },
	}})
	rows := mustRows(t, testUsers()[:3])

	got, err := ApplySort(rows, SortState{ColumnKey: "bad", Order: SortAscend}, reg)
	if got != nil {
		t.Errorf("ApplySort() rows = %v, want nil", got)
	}
	var cerr *ComparatorError
	if !errors.As(err, &cerr) {
		t.Fatalf("ApplySort() error = %v, want *ComparatorError", err)
	}
	if cerr.Column != "bad" || !strings.Contains(cerr.Error(), "comparator broke") {
		t.Errorf("ComparatorError = %+v", cerr)
	}
}

func TestParseSortOrder(t *testing.T) {
	type tc struct {
		in      string
		want    SortOrder
		wantErr bool
	}

	tests := map[string]tc{
		"ascend":  {in: "ascend", want: SortAscend},
		"asc":     {in: "asc", want: SortAscend},
		"descend": {in: "desc", want: SortDescend},
		"empty":   {in: "", want: SortNone},
		"invalid": {in: "up", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseSortOrder(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSortOrder() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSortOrder() = %v, want %v", got, tt.want)
			}
		})
	}
}
