package grid

import (
	"strings"
	"testing"
)

func TestRowKey_Resolve(t *testing.T) {
	type tc struct {
		from  RowKey[User]
		user  User
		index int
		want  Key
	}

	tests := map[string]tc{
		"field by name": {
			from: KeyField[User]("ID"),
			user: User{ID: "7"},
			want: "7",
		},
		"field by json tag": {
			from: KeyField[User]("email"),
			user: User{Email: "a@b.c"},
			want: "a@b.c",
		},
		"default reads id case-insensitively": {
			from: DefaultRowKey[User](),
			user: User{ID: "42"},
			want: "42",
		},
		"missing field falls back to index": {
			from:  KeyField[User]("nope"),
			user:  User{ID: "1"},
			index: 5,
			want:  "5",
		},
		"numeric field is formatted": {
			from: KeyField[User]("Age"),
			user: User{Age: 30},
			want: "30",
		},
		"derivation function": {
			from: KeyFunc(func(u User) Key { return u.Role + "/" + u.ID }),
			user: User{ID: "3", Role: "Admin"},
			want: "Admin/3",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.from.Resolve(tt.user, tt.index); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveRows_ComputesEachKeyOnce(t *testing.T) {
	calls := 0
	rk := KeyFunc(func(u User) Key {
		calls++
		return u.ID
	})
	rows, byKey, _ := ResolveRows(testUsers(), rk)

	if calls != 12 {
		t.Errorf("key function called %d times, want 12", calls)
	}
	if len(rows) != 12 || len(byKey) != 12 {
		t.Fatalf("len(rows) = %d, len(byKey) = %d, want 12 and 12", len(rows), len(byKey))
	}
	for i, r := range rows {
		if r.Index != i {
			t.Errorf("rows[%d].Index = %d, want %d", i, r.Index, i)
		}
	}
}

func TestResolveRows_DuplicateLastWins(t *testing.T) {
	users := []User{
		{ID: "a", Name: "first"},
		{ID: "b", Name: "other"},
		{ID: "a", Name: "second"},
	}
	rows, byKey, warnings := ResolveRows(users, KeyField[User]("ID"))

	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	if got := rows[byKey["a"]].Record.Name; got != "second" {
		t.Errorf("byKey[a] resolves to %q, want %q", got, "second")
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", warnings)
	}
	w := warnings[0]
	if w.Kind != WarnDuplicateKey || w.Key != "a" {
		t.Errorf("warning = %+v, want duplicate-key on %q", w, "a")
	}
	if !strings.Contains(w.Message, "later record wins") {
		t.Errorf("warning message = %q", w.Message)
	}
}
