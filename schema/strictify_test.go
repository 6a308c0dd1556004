package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func int64p(v int64) *int64 { return &v }

func testDefinition() Definition {
	return Definition{
		"Users": Struct{
			"id": Column{
				Type:        UInt64,
				Constraints: []Constraint{PrimaryKey, Automatic},
			},
			"nameFirst": Column{Type: String, TypeMax: int64p(255)},
			"nameLast":  Column{Type: String, TypeMax: int64p(255)},
			"age":       UInt16,
		},
		"Posts": TableDef{
			Struct: Struct{
				"id": Column{
					Type:        UInt64,
					Constraints: []Constraint{PrimaryKey, Automatic},
				},
				"userId": Column{
					Type:     UInt64,
					Relation: &Relation{Table: "Users", Column: "id"},
				},
				"post": Column{Type: String, TypeMax: int64p(255)},
			},
			Unique: [][]string{{"userId", "post"}},
		},
	}
}

func TestStrictifyExpandsShorthand(t *testing.T) {
	s := Strictify(testDefinition())

	want := Column{Type: UInt16}
	if diff := cmp.Diff(want, s["Users"].Columns["age"]); diff != "" {
		t.Errorf("bare type not expanded (-want +got):\n%s", diff)
	}

	posts := s["Posts"]
	if diff := cmp.Diff([][]string{{"userId", "post"}}, posts.Unique); diff != "" {
		t.Errorf("composite unique lost (-want +got):\n%s", diff)
	}
	if posts.Columns["userId"].Relation.Table != "Users" {
		t.Errorf("relation lost: %+v", posts.Columns["userId"])
	}
}

func TestStrictifyIsIdempotent(t *testing.T) {
	once := Strictify(testDefinition())
	twice := Strictify(once.Definition())

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("strictify is not idempotent (-once +twice):\n%s", diff)
	}
}

func TestStrictifyDoesNotMutateInput(t *testing.T) {
	def := testDefinition()
	s := Strictify(def)

	s["Posts"].Unique[0][0] = "changed"
	s["Users"].Columns["id"].Constraints[0] = Unique
	*s["Users"].Columns["nameFirst"].TypeMax = 1

	posts := def["Posts"].(TableDef)
	if posts.Unique[0][0] != "userId" {
		t.Errorf("input unique group was mutated: %v", posts.Unique)
	}
	users := def["Users"].(Struct)
	if users["id"].(Column).Constraints[0] != PrimaryKey {
		t.Errorf("input constraints were mutated")
	}
	if *users["nameFirst"].(Column).TypeMax != 255 {
		t.Errorf("input typeMax was mutated")
	}
}

func TestStrictifyPassesFullColumnsThrough(t *testing.T) {
	col := Column{Type: Int32, Constraints: []Constraint{NotNull}, DefaultValue: 7}
	s := Strictify(Definition{"t": Struct{"c": col}})

	if diff := cmp.Diff(col, s["t"].Columns["c"]); diff != "" {
		t.Errorf("full column changed (-want +got):\n%s", diff)
	}
}

func TestMergeCommonColumns(t *testing.T) {
	common := Struct{
		"id":      Column{Type: Int64, Constraints: []Constraint{Automatic}},
		"created": Column{Type: TimestampS, Constraints: []Constraint{Automatic}},
	}
	def := Definition{
		"a": Struct{"name": String},
		"b": Struct{"id": Int32},
	}

	merged := Strictify(MergeCommonColumns(common, def))

	if _, ok := merged["a"].Columns["created"]; !ok {
		t.Errorf("common column not added to a")
	}
	if got := merged["b"].Columns["id"].Type; got != Int32 {
		t.Errorf("existing column overwritten: got %s, want Int32", got)
	}
	if _, ok := def["a"].(Struct)["created"]; ok {
		t.Errorf("input definition was mutated")
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	s := Strictify(testDefinition())

	name, table, ok := s.Lookup("users")
	if !ok || name != "Users" {
		t.Fatalf("Lookup(users) = %q, %v", name, ok)
	}
	colName, _, ok := table.Lookup("NAMEFIRST")
	if !ok || colName != "nameFirst" {
		t.Errorf("Lookup(NAMEFIRST) = %q, %v", colName, ok)
	}
	if _, ok := s.Column("posts", "missing"); ok {
		t.Errorf("unexpected column match")
	}
}

func TestColumnNamesOrder(t *testing.T) {
	s := Strictify(testDefinition())

	got := s["Users"].ColumnNames()
	want := []string{"id", "age", "nameFirst", "nameLast"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ColumnNames() mismatch (-want +got):\n%s", diff)
	}
}
