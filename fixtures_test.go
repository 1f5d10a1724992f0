package grid

import (
	"reflect"
	"testing"
)

// User is the record type of the shared 12-user fixture table.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	Age         int    `json:"age"`
	Description string `json:"description,omitempty"`
}

// testUsers returns the 12-row user table: 2 Admins, 3 Editors, 7 Users.
func testUsers() []User {
	return []User{
		{ID: "1", Name: "John Doe", Email: "john@example.com", Role: "Admin", Status: "active", Age: 32},
		{ID: "2", Name: "Jane Smith", Email: "jane@example.com", Role: "User", Status: "active", Age: 28},
		{ID: "3", Name: "Bob Johnson", Email: "bob@example.com", Role: "User", Status: "inactive", Age: 45},
		{ID: "4", Name: "Alice Williams", Email: "alice@example.com", Role: "Editor", Status: "active", Age: 35},
		{ID: "5", Name: "Charlie Brown", Email: "charlie@example.com", Role: "User", Status: "active", Age: 29},
		{ID: "6", Name: "David Lee", Email: "david@example.com", Role: "User", Status: "active", Age: 41},
		{ID: "7", Name: "Emma Wilson", Email: "emma@example.com", Role: "Editor", Status: "active", Age: 31},
		{ID: "8", Name: "Frank Miller", Email: "frank@example.com", Role: "User", Status: "inactive", Age: 38},
		{ID: "9", Name: "Grace Taylor", Email: "grace@example.com", Role: "Admin", Status: "active", Age: 42},
		{ID: "10", Name: "Henry Davis", Email: "henry@example.com", Role: "User", Status: "active", Age: 27},
		{ID: "11", Name: "Iris Martin", Email: "iris@example.com", Role: "Editor", Status: "active", Age: 33},
		{ID: "12", Name: "Jack White", Email: "jack@example.com", Role: "User", Status: "inactive", Age: 36},
	}
}

func testColumns() []Column[User] {
	return []Column[User]{
		{Key: "name", Title: "Name", Field: "Name", Sortable: true},
		{Key: "email", Title: "Email", Field: "Email"},
		{
			Key: "role", Title: "Role", Field: "Role",
			Filters: []FilterOption{{Label: "Admin", Value: "Admin"}, {Label: "Editor", Value: "Editor"}, {Label: "User", Value: "User"}},
			OnFilter: func(v any, u User) bool { return u.Role == v },
		},
		{Key: "status", Title: "Status", Field: "status"},
		{Key: "age", Title: "Age", Field: "Age", Sortable: true, Align: AlignRight},
	}
}

func mustColumns(t *testing.T, cols []Column[User]) *Columns[User] {
	t.Helper()
	reg, err := NewColumns(cols)
	if err != nil {
		t.Fatalf("NewColumns() error = %v", err)
	}
	return reg
}

func mustRows(t *testing.T, users []User) []Row[User] {
	t.Helper()
	rows, _, warnings := ResolveRows(users, KeyField[User]("ID"))
	if len(warnings) != 0 {
		t.Fatalf("ResolveRows() warnings = %v, want none", warnings)
	}
	return rows
}

func mustTable(t *testing.T, opts ...Option[User]) *Table[User] {
	t.Helper()
	opts = append([]Option[User]{WithData(testUsers()), WithRowKey(KeyField[User]("ID"))}, opts...)
	tbl, err := New(testColumns(), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(tbl.Close)
	return tbl
}

func rowKeys(rows []Row[User]) []Key {
	return keysOf(rows)
}

func ages(rows []Row[User]) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Record.Age
	}
	return out
}

func viewKeys(v TableView[User]) []Key {
	return v.Keys()
}

func assertKeys(t *testing.T, what string, got, want []Key) {
	t.Helper()
	if len(got) == 0 && len(want) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("%s = %v, want %v", what, got, want)
	}
}
