package sqlgen

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pgschema/sqltables/schema"
)

func int64p(v int64) *int64 { return &v }

func TestColumnDefinition(t *testing.T) {
	tests := []struct {
		name string
		col  schema.Column
		want string
	}{
		{
			name: "serial primary key",
			col:  schema.Column{Type: schema.UInt64, Constraints: []schema.Constraint{schema.PrimaryKey, schema.Automatic}},
			want: "id bigserial PRIMARY KEY",
		},
		{
			name: "automatic timestamp",
			col:  schema.Column{Type: schema.TimestampS, Constraints: []schema.Constraint{schema.Automatic}},
			want: "id timestamp default current_timestamp",
		},
		{
			name: "default varchar",
			col:  schema.Column{Type: schema.String},
			want: "id varchar(255)",
		},
		{
			name: "sized varchar not null",
			col:  schema.Column{Type: schema.String, TypeMax: int64p(40), Constraints: []schema.Constraint{schema.NotNull, schema.Unique}},
			want: "id varchar(40) NOT NULL UNIQUE",
		},
		{
			name: "relation",
			col:  schema.Column{Type: schema.Int64, Relation: &schema.Relation{Table: "users", Column: "id"}},
			want: "id bigint REFERENCES users (id)",
		},
		{
			name: "app only constraints skipped",
			col:  schema.Column{Type: schema.Int32, Constraints: []schema.Constraint{schema.DbInternal, schema.EncryptAppLayer}},
			want: "id integer",
		},
		{
			name: "check with expression",
			col:  schema.Column{Type: schema.Int32, Constraints: []schema.Constraint{schema.Check}, CheckExpression: "id > 0"},
			want: "id integer CHECK (id > 0)",
		},
		{
			name: "check without expression",
			col:  schema.Column{Type: schema.Int32, Constraints: []schema.Constraint{schema.Check}},
			want: "id integer",
		},
		{
			name: "escaped default literal",
			col:  schema.Column{Type: schema.String, DefaultValue: "it's"},
			want: "id varchar(255) DEFAULT 'it''s'",
		},
		{
			name: "default expression",
			col:  schema.Column{Type: schema.TimestampS, DefaultExpression: "now()"},
			want: "id timestamp DEFAULT now()",
		},
		{
			name: "boolean default",
			col:  schema.Column{Type: schema.Boolean, DefaultValue: true},
			want: "id boolean DEFAULT TRUE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ColumnDefinition("id", tt.col)
			if err != nil {
				t.Fatalf("ColumnDefinition failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ColumnDefinition() = %q, want %q", got, tt.want)
			}
			mustParse(t, AddColumn("t", got))
		})
	}
}

func TestColumnDefinitionUnsupportedAutomatic(t *testing.T) {
	_, err := ColumnDefinition("flag", schema.Column{Type: schema.Boolean, Constraints: []schema.Constraint{schema.Automatic}})

	var unsupported *schema.UnsupportedAutomaticError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedAutomaticError, got %v", err)
	}
}

func TestCreateTableFromSchema(t *testing.T) {
	table := schema.Strictify(schema.Definition{
		"memberships": schema.TableDef{
			Struct: schema.Struct{
				"userId": schema.Column{Type: schema.Int64, Constraints: []schema.Constraint{schema.NotNull}},
				"orgId":  schema.Column{Type: schema.Int64, Constraints: []schema.Constraint{schema.NotNull}},
				"role":   schema.String,
			},
			Unique:     [][]string{{"userId", "role"}},
			PrimaryKey: []string{"userId", "orgId"},
			ForeignKey: []schema.CompositeForeignKey{
				{Columns: []string{"orgId"}, ForeignColumns: []string{"id"}, Table: "orgs"},
			},
		},
	})["memberships"]

	got, err := CreateTableFromSchema("memberships", table)
	if err != nil {
		t.Fatal(err)
	}
	want := "CREATE TABLE memberships (" +
		"orgId bigint NOT NULL, role varchar(255), userId bigint NOT NULL, " +
		"UNIQUE(userId, role), FOREIGN KEY (orgId) REFERENCES orgs (id), PRIMARY KEY(userId, orgId));"
	if got != want {
		t.Errorf("CreateTableFromSchema() =\n%s\nwant\n%s", got, want)
	}
	mustParse(t, got)
}

func TestCreateSchemaOrdersTables(t *testing.T) {
	s := schema.Strictify(schema.Definition{
		"posts": schema.Struct{
			"id":     schema.Column{Type: schema.Int64, Constraints: []schema.Constraint{schema.Automatic}},
			"userId": schema.Column{Type: schema.Int64, Relation: &schema.Relation{Table: "users", Column: "id"}},
		},
		"users": schema.Struct{
			"id":   schema.Column{Type: schema.Int64, Constraints: []schema.Constraint{schema.Automatic}},
			"name": schema.String,
		},
	})

	stmts, err := CreateSchema(s)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"CREATE TABLE users (id bigserial PRIMARY KEY, name varchar(255));",
		"CREATE TABLE posts (id bigserial PRIMARY KEY, userId bigint REFERENCES users (id));",
	}
	if diff := cmp.Diff(want, stmts); diff != "" {
		t.Errorf("CreateSchema mismatch (-want +got):\n%s", diff)
	}
	mustParse(t, strings.Join(stmts, "\n"))
}

func TestCreateSchemaRejectsCycles(t *testing.T) {
	s := schema.Strictify(schema.Definition{
		"a": schema.Struct{"b": schema.Column{Type: schema.Int64, Relation: &schema.Relation{Table: "b", Column: "a"}}},
		"b": schema.Struct{"a": schema.Column{Type: schema.Int64, Relation: &schema.Relation{Table: "a", Column: "b"}}},
	})

	_, err := CreateSchema(s)
	var cycle *schema.CyclicDependencyError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected CyclicDependencyError, got %v", err)
	}
}

func TestAlterStatements(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{SetNotNull("users", "name"), "ALTER TABLE users ALTER COLUMN name SET NOT NULL;"},
		{DropNotNull("users", "name"), "ALTER TABLE users ALTER COLUMN name DROP NOT NULL;"},
		{AddColumn("users", "age smallint"), "ALTER TABLE users ADD COLUMN age smallint;"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
		mustParse(t, tt.got)
	}

	if _, err := ForeignKeyComposite([]string{"a", "b"}, []string{"a"}, "t"); err == nil {
		t.Errorf("expected arity error")
	}
}

func TestTransactionStatements(t *testing.T) {
	begin, err := Begin("")
	if err != nil {
		t.Fatal(err)
	}
	if want := "BEGIN TRANSACTION ISOLATION LEVEL SERIALIZABLE;"; begin != want {
		t.Errorf("Begin() = %q, want %q", begin, want)
	}
	begin, _ = Begin(ReadCommitted)
	if want := "BEGIN TRANSACTION ISOLATION LEVEL READ COMMITTED;"; begin != want {
		t.Errorf("Begin(ReadCommitted) = %q, want %q", begin, want)
	}
	if _, err := Begin("CHAOS; DROP TABLE users"); err == nil {
		t.Errorf("expected unsupported isolation level error")
	}

	for _, stmt := range []string{begin, Commit(), Rollback()} {
		mustParse(t, stmt)
	}
}
