package sqlgen

import (
	"errors"
	"testing"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

func mustParse(t *testing.T, sql string) {
	t.Helper()
	if _, err := pg_query.Parse(sql); err != nil {
		t.Fatalf("generated SQL does not parse: %v\n%s", err, sql)
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		cols    []string
		nValues int
		want    string
	}{
		{"single row", "t", []string{"a", "b"}, 2, "INSERT INTO t (a, b) VALUES ($1, $2)"},
		{"two rows", "t", []string{"a", "b"}, 4, "INSERT INTO t (a, b) VALUES ($1, $2), ($3, $4)"},
		{"single column", "t", []string{"a"}, 1, "INSERT INTO t (a) VALUES ($1)"},
		{"single column rows", "t", []string{"a"}, 3, "INSERT INTO t (a) VALUES ($1), ($2), ($3)"},
		{"reserved words", "user", []string{"order", "name"}, 2, `INSERT INTO "user" ("order", name) VALUES ($1, $2)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Insert(tt.table, tt.cols, tt.nValues)
			if err != nil {
				t.Fatalf("Insert failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Insert() = %q, want %q", got, tt.want)
			}
			mustParse(t, got)
		})
	}
}

func TestInsertRejectsMismatchedValues(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		if _, err := Insert("t", []string{"a", "b"}, n); !errors.Is(err, ErrValueCount) {
			t.Errorf("Insert with %d values: error = %v, want ErrValueCount", n, err)
		}
	}
	if _, err := Insert("t", nil, 1); !errors.Is(err, ErrNoColumns) {
		t.Errorf("Insert without columns: error = %v, want ErrNoColumns", err)
	}
}

func TestUpdateContinuesPlaceholders(t *testing.T) {
	tests := []struct {
		cols, ids []string
		want      string
	}{
		{[]string{"a"}, []string{"id"}, "UPDATE t SET a = $1 WHERE id = $2"},
		{[]string{"a", "b"}, []string{"id", "org"}, "UPDATE t SET a = $1, b = $2 WHERE id = $3 AND org = $4"},
	}
	for _, tt := range tests {
		got, err := Update("t", tt.cols, tt.ids)
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if got != tt.want {
			t.Errorf("Update() = %q, want %q", got, tt.want)
		}
		mustParse(t, got)
	}

	if _, err := Update("t", []string{"a"}, nil); !errors.Is(err, ErrNoColumns) {
		t.Errorf("Update without ids: error = %v, want ErrNoColumns", err)
	}
}

func TestDeleteStartsAtOne(t *testing.T) {
	got, err := Delete("t", []string{"id"})
	if err != nil {
		t.Fatal(err)
	}
	if want := "DELETE FROM t WHERE id = $1"; got != want {
		t.Errorf("Delete() = %q, want %q", got, want)
	}

	got, _ = Delete("t", []string{"a", "b"})
	if want := "DELETE FROM t WHERE a = $1 AND b = $2"; got != want {
		t.Errorf("Delete() = %q, want %q", got, want)
	}
	mustParse(t, got)

	if _, err := Delete("t", nil); !errors.Is(err, ErrNoColumns) {
		t.Errorf("Delete without ids: error = %v, want ErrNoColumns", err)
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{SelectAll("users"), "SELECT * FROM users"},
		{SelectAll("users", "id", "name"), "SELECT id, name FROM users"},
		{SelectWhere("users", []string{"id"}), "SELECT * FROM users WHERE id = $1"},
		{SelectWhere("users", []string{"a", "b"}), "SELECT * FROM users WHERE a = $1 AND b = $2"},
		{SelectWhere("users", nil), "SELECT * FROM users"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
		mustParse(t, tt.got)
	}
}

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"users", "users"},
		{"firstName", "firstName"},
		{"user", `"user"`},
		{"Order", `"order"`},
	}
	for _, tt := range tests {
		if got := QuoteIdentifier(tt.in); got != tt.want {
			t.Errorf("QuoteIdentifier(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
