package grid

import (
	"errors"
	"testing"
)

func TestTable_ControlledSort(t *testing.T) {
	type tc struct {
		accept   bool
		wantKeys []Key
		wantSort SortState
	}

	tests := map[string]tc{
		"owner accepts the proposal": {
			accept:   true,
			wantKeys: []Key{"10", "2", "5"},
			wantSort: SortState{ColumnKey: "age", Order: SortAscend},
		},
		"owner ignores the proposal": {
			accept:   false,
			wantKeys: []Key{"1", "2", "3"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var owned SortState
			var proposals []SortState
			tbl := mustTable(t,
				WithPagination[User](PaginationConfig{PageSize: 3}),
				WithControlledSort[User](
					func() SortState { return owned },
					func(s SortState) {
						proposals = append(proposals, s)
						if tt.accept {
							owned = s
						}
					},
				),
			)

			if err := tbl.ToggleSort("age"); err != nil {
				t.Fatal(err)
			}
			if len(proposals) != 1 || proposals[0].ColumnKey != "age" {
				t.Errorf("proposals = %v", proposals)
			}
			v := tbl.View()
			assertKeys(t, "view keys", viewKeys(v), tt.wantKeys)
			if v.Sort != tt.wantSort {
				t.Errorf("Sort = %+v, want %+v", v.Sort, tt.wantSort)
			}
		})
	}
}

func TestTable_ControlledSortExternalChange(t *testing.T) {
	owned := SortState{ColumnKey: "age", Order: SortDescend}
	tbl := mustTable(t,
		WithPagination[User](PaginationConfig{PageSize: 2}),
		WithControlledSort[User](func() SortState { return owned }, nil),
	)
	assertKeys(t, "initial keys", viewKeys(tbl.View()), []Key{"3", "9"})

	owned = SortState{}
	if err := tbl.Refresh(); err != nil {
		t.Fatal(err)
	}
	assertKeys(t, "keys after Refresh", viewKeys(tbl.View()), []Key{"1", "2"})
}

func TestTable_ControlledFilters(t *testing.T) {
	owned := FilterState{"role": {"Admin"}}
	var proposed FilterState
	tbl := mustTable(t, WithControlledFilters[User](
		func() FilterState { return owned },
		func(f FilterState) { proposed = f },
	))

	assertKeys(t, "initial keys", viewKeys(tbl.View()), []Key{"1", "9"})

	if err := tbl.SetFilter("role", "Editor"); err != nil {
		t.Fatal(err)
	}
	if !proposed.Active("role") || proposed["role"][0] != "Editor" {
		t.Errorf("proposed = %v", proposed)
	}
	assertKeys(t, "keys after ignored proposal", viewKeys(tbl.View()), []Key{"1", "9"})

	owned = proposed
	if err := tbl.Refresh(); err != nil {
		t.Fatal(err)
	}
	assertKeys(t, "keys after accepting", viewKeys(tbl.View()), []Key{"4", "7", "11"})
}

// A controlled page next to uncontrolled sort: the sort still resets the
// page through a proposal, which the owner may ignore.
func TestTable_MixedControlledPage(t *testing.T) {
	owned := PageState{Current: 2, Size: 5}
	var proposals []PageState
	tbl := mustTable(t,
		WithPagination[User](PaginationConfig{PageSize: 5}),
		WithControlledPage[User](
			func() PageState { return owned },
			func(p PageState) { proposals = append(proposals, p) },
		),
	)
	assertKeys(t, "page 2", viewKeys(tbl.View()), []Key{"6", "7", "8", "9", "10"})

	if err := tbl.ToggleSort("age"); err != nil {
		t.Fatal(err)
	}
	if len(proposals) != 1 || proposals[0].Current != 1 {
		t.Errorf("proposals = %v, want a reset to page 1", proposals)
	}
	v := tbl.View()
	if v.Page != 2 || v.Sort.ColumnKey != "age" {
		t.Errorf("page %d sort %+v, want page 2 sorted by age", v.Page, v.Sort)
	}
	// ages 33 through 41 sit on page 2 of 5-row pages
	assertKeys(t, "sorted page 2", viewKeys(v), []Key{"11", "4", "12", "8", "6"})
}

func TestTable_ControlledPageNoProposalOnFailedSort(t *testing.T) {
	owned := PageState{Current: 2, Size: 5}
	var proposals []PageState
	tbl, err := New(badColumns(),
		WithData(testUsers()),
		WithRowKey(KeyField[User]("ID")),
		WithPagination[User](PaginationConfig{PageSize: 5}),
		WithControlledPage[User](
			func() PageState { return owned },
			func(p PageState) { proposals = append(proposals, p) },
		),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer tbl.Close()

	var cerr *ComparatorError
	if err := tbl.ToggleSort("bad"); !errors.As(err, &cerr) {
		t.Fatalf("ToggleSort(bad) = %v, want *ComparatorError", err)
	}
	if len(proposals) != 0 {
		t.Errorf("proposals = %v, a rolled back sort must not propose a page", proposals)
	}

	if err := tbl.ToggleSort("age"); err != nil {
		t.Fatal(err)
	}
	if len(proposals) != 1 || proposals[0].Current != 1 {
		t.Errorf("proposals = %v, want one reset to page 1", proposals)
	}
}

func TestTable_ControlledPageClampsViewOnly(t *testing.T) {
	owned := PageState{Current: 10, Size: 5}
	tbl := mustTable(t,
		WithPagination[User](PaginationConfig{PageSize: 5}),
		WithControlledPage[User](func() PageState { return owned }, nil),
	)
	v := tbl.View()
	if v.Page != 3 {
		t.Errorf("Page = %d, want 3", v.Page)
	}
	if owned.Current != 10 {
		t.Errorf("owner state modified: %+v", owned)
	}
}

func TestTable_ControlledSelection(t *testing.T) {
	owned := []Key{"3"}
	var proposals [][]Key
	var callbacks int
	tbl := mustTable(t,
		WithSelection(SelectionConfig[User]{
			OnChange: func([]Key, []User) { callbacks++ },
		}),
		WithControlledSelection[User](
			func() []Key { return owned },
			func(k []Key) { proposals = append(proposals, k) },
		),
	)

	if err := tbl.ToggleSelect("5"); err != nil {
		t.Fatal(err)
	}
	if len(proposals) != 1 {
		t.Fatalf("proposals = %v", proposals)
	}
	assertKeys(t, "proposal", proposals[0], []Key{"3", "5"})
	assertKeys(t, "Selected() while ignored", tbl.Selected(), []Key{"3"})
	if callbacks != 1 {
		t.Errorf("OnChange calls = %d, want 1", callbacks)
	}

	owned = proposals[0]
	if err := tbl.Refresh(); err != nil {
		t.Fatal(err)
	}
	assertKeys(t, "Selected() after accepting", tbl.Selected(), []Key{"3", "5"})

	// removed rows are hidden from the view but the owner's keys are untouched
	users := testUsers()
	if err := tbl.SetData(users[3:]); err != nil {
		t.Fatal(err)
	}
	assertKeys(t, "Selected() after SetData", tbl.Selected(), []Key{"5"})
	assertKeys(t, "owner keys", owned, []Key{"3", "5"})
}

func TestTable_ControlledExpansion(t *testing.T) {
	owned := []Key{"2"}
	var proposed []Key
	tbl := mustTable(t,
		WithExpansion(ExpansionConfig[User]{}),
		WithControlledExpansion[User](
			func() []Key { return owned },
			func(k []Key) { proposed = k },
		),
	)
	assertKeys(t, "Expanded()", tbl.Expanded(), []Key{"2"})

	if err := tbl.ToggleExpand("4"); err != nil {
		t.Fatal(err)
	}
	assertKeys(t, "proposed", proposed, []Key{"2", "4"})
	assertKeys(t, "Expanded() while ignored", tbl.Expanded(), []Key{"2"})
}

func TestControlledOptions_RequireGetter(t *testing.T) {
	type tc struct {
		opt Option[User]
	}

	tests := map[string]tc{
		"sort":      {opt: WithControlledSort[User](nil, nil)},
		"filters":   {opt: WithControlledFilters[User](nil, nil)},
		"page":      {opt: WithControlledPage[User](nil, nil)},
		"selection": {opt: WithControlledSelection[User](nil, nil)},
		"expansion": {opt: WithControlledExpansion[User](nil, nil)},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := New(testColumns(), tt.opt); err == nil {
				t.Error("New() error = nil, want a missing getter error")
			}
		})
	}
}

func TestTable_ControlledSortRejectsUnknown(t *testing.T) {
	called := false
	tbl := mustTable(t, WithControlledSort[User](func() SortState { return SortState{} }, func(SortState) { called = true }))
	if err := tbl.ToggleSort("email"); !errors.Is(err, ErrNotSortable) {
		t.Errorf("ToggleSort() = %v, want ErrNotSortable", err)
	}
	if called {
		t.Error("rejected change reached the owner")
	}
}
