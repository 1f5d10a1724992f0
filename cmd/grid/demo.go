package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"golang.org/x/text/language"

	grid "github.com/grindlemire/go-grid"
	"github.com/grindlemire/go-grid/internal/textview"
)

// user is the record type of the built-in examples.
type user struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	Age         int    `json:"age"`
	Description string `json:"description,omitempty"`
}

func demoUsers() []user {
	return []user{
		{ID: "1", Name: "John Doe", Email: "john@example.com", Role: "Admin", Status: "active", Age: 32, Description: "Owns billing and access reviews."},
		{ID: "2", Name: "Jane Smith", Email: "jane@example.com", Role: "User", Status: "active", Age: 28},
		{ID: "3", Name: "Bob Johnson", Email: "bob@example.com", Role: "User", Status: "inactive", Age: 45, Description: "On leave until next quarter."},
		{ID: "4", Name: "Alice Williams", Email: "alice@example.com", Role: "Editor", Status: "active", Age: 35, Description: "Edits the weekly newsletter."},
		{ID: "5", Name: "Charlie Brown", Email: "charlie@example.com", Role: "User", Status: "active", Age: 29},
		{ID: "6", Name: "David Lee", Email: "david@example.com", Role: "User", Status: "active", Age: 41},
		{ID: "7", Name: "Emma Wilson", Email: "emma@example.com", Role: "Editor", Status: "active", Age: 31, Description: "Maintains the style guide."},
		{ID: "8", Name: "Frank Miller", Email: "frank@example.com", Role: "User", Status: "inactive", Age: 38},
		{ID: "9", Name: "Grace Taylor", Email: "grace@example.com", Role: "Admin", Status: "active", Age: 42, Description: "Runs the on-call rotation."},
		{ID: "10", Name: "Henry Davis", Email: "henry@example.com", Role: "User", Status: "active", Age: 27},
		{ID: "11", Name: "Iris Martin", Email: "iris@example.com", Role: "Editor", Status: "active", Age: 33},
		{ID: "12", Name: "Jack White", Email: "jack@example.com", Role: "User", Status: "inactive", Age: 36},
	}
}

func userColumns() []grid.Column[user] {
	return []grid.Column[user]{
		{
			Key: "name", Title: "Name", Field: "Name", Ellipsis: true,
			Compare: grid.CollateStrings(language.English, func(u user) string { return u.Name }),
		},
		{Key: "email", Title: "Email", Field: "Email", Ellipsis: true},
		{
			Key: "role", Title: "Role", Field: "Role", Sortable: true,
			Filters: []grid.FilterOption{
				{Label: "Admin", Value: "Admin"},
				{Label: "Editor", Value: "Editor"},
				{Label: "User", Value: "User"},
			},
			OnFilter: func(v any, u user) bool { return u.Role == v },
		},
		{
			Key: "status", Title: "Status", Field: "status",
			Filters: []grid.FilterOption{
				{Label: "Active", Value: "active"},
				{Label: "Inactive", Value: "inactive"},
			},
		},
		{Key: "age", Title: "Age", Field: "Age", Sortable: true, Align: grid.AlignRight},
	}
}

// example is one built-in table configuration.
type example struct {
	name    string
	summary string
	columns func() []grid.Column[user]
	options []grid.Option[user]
	// expansion is kept apart so the browser can add a child loader.
	expansion *grid.ExpansionConfig[user]
}

var examples = []example{
	{
		name:    "basic",
		summary: "The user table with default paging",
		columns: userColumns,
	},
	{
		name:    "sorting",
		summary: "Oldest first; names sort with English collation",
		columns: userColumns,
		options: []grid.Option[user]{
			grid.WithDefaultSort[user](grid.SortState{ColumnKey: "age", Order: grid.SortDescend}),
		},
	},
	{
		name:    "filtering",
		summary: "Active admins and editors",
		columns: userColumns,
		options: []grid.Option[user]{
			grid.WithDefaultFilters[user](grid.FilterState{
				"role":   {"Admin", "Editor"},
				"status": {"active"},
			}),
		},
	},
	{
		name:    "pagination",
		summary: "Second page of five",
		columns: userColumns,
		options: []grid.Option[user]{
			grid.WithPagination[user](grid.PaginationConfig{
				PageSize: 5,
				Current:  2,
				ShowTotal: func(total, from, to int) string {
					return fmt.Sprintf("Showing %d-%d of %d users", from, to, total)
				},
			}),
		},
	},
	{
		name:    "selection",
		summary: "Checkbox selection; admins cannot be selected",
		columns: userColumns,
		options: []grid.Option[user]{
			grid.WithSelection(grid.SelectionConfig[user]{
				Disabled: func(u user) bool { return u.Role == "Admin" },
			}),
			grid.WithDefaultSelection[user]([]grid.Key{"2", "5"}),
		},
	},
	{
		name:    "expandable",
		summary: "Rows with a description expand to show it",
		columns: userColumns,
		options: []grid.Option[user]{
			grid.WithDefaultExpanded[user]([]grid.Key{"1"}),
		},
		expansion: &grid.ExpansionConfig[user]{
			RowExpandable: func(u user) bool { return u.Description != "" },
			RowRender: func(u user, _ int, _ bool) any {
				return u.Description
			},
		},
	},
	{
		name:    "pinned",
		summary: "Name pinned left and age pinned right",
		columns: func() []grid.Column[user] {
			cols := userColumns()
			cols[0].Pin = grid.PinStart
			cols[4].Pin = grid.PinEnd
			return append(cols, grid.Column[user]{Key: "description", Title: "Description", Field: "Description", Ellipsis: true})
		},
	},
}

func findExample(name string) (example, bool) {
	for _, e := range examples {
		if e.name == name {
			return e, true
		}
	}
	return example{}, false
}

// tableOptions returns the example's options. A non-nil loader adds lazy
// children delivered through d.
func (e example) tableOptions(d grid.Dispatcher, loader func(context.Context, grid.Key, user) ([]user, error)) []grid.Option[user] {
	opts := []grid.Option[user]{
		grid.WithData(demoUsers()),
		grid.WithRowKey(grid.KeyField[user]("ID")),
	}
	opts = append(opts, e.options...)

	var exp *grid.ExpansionConfig[user]
	if e.expansion != nil {
		cfg := *e.expansion
		exp = &cfg
	}
	if loader != nil {
		if exp == nil {
			exp = &grid.ExpansionConfig[user]{}
		}
		exp.LoadChildren = loader
		opts = append(opts, grid.WithDispatcher[user](d))
	}
	if exp != nil {
		opts = append(opts, grid.WithExpansion(*exp))
	}
	return opts
}

func runDemo(args []string) error {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	width := fs.Int("width", -1, "Maximum line width, 0 for unbounded (default: terminal width)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		listExamples(os.Stdout)
		return nil
	}
	if *width < 0 {
		*width = terminalWidth(os.Stdout)
	}
	return renderExample(os.Stdout, fs.Arg(0), *width)
}

func listExamples(w io.Writer) {
	names := make([]string, 0, len(examples))
	for _, e := range examples {
		names = append(names, e.name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "Examples:")
	for _, n := range names {
		e, _ := findExample(n)
		fmt.Fprintf(w, "  %-12s %s\n", e.name, e.summary)
	}
}

func renderExample(w io.Writer, name string, width int) error {
	e, ok := findExample(name)
	if !ok {
		return fmt.Errorf("unknown example %q", name)
	}
	tbl, err := grid.New(e.columns(), e.tableOptions(nil, nil)...)
	if err != nil {
		return err
	}
	defer tbl.Close()

	fmt.Fprintf(w, "%s: %s\n\n", e.name, e.summary)
	return textview.Render(w, tbl.View(), textview.Options{MaxWidth: width})
}
