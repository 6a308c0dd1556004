package validate

import (
	"strings"
	"testing"

	"github.com/pgschema/sqltables/schema"
)

func TestCompareTypesAcceptsEveryMapping(t *testing.T) {
	for _, m := range schema.TypeMappings {
		live := LiveColumn{Table: "t", Name: "c", DataType: m.InfoSchema, Nullable: true}
		if v := CompareTypes(schema.Column{Type: m.Generic}, live); v != nil {
			t.Errorf("CompareTypes(%s, %s) = %v, want nil", m.Generic, m.InfoSchema, v)
		}
	}
}

func TestCompareTypesMismatch(t *testing.T) {
	live := LiveColumn{Table: "users", Name: "name", DataType: "integer", Nullable: true}

	v := CompareTypes(schema.Column{Type: schema.String}, live)
	if v == nil {
		t.Fatal("expected a validation")
	}
	if v.Kind != KindType || v.Reason != TypeMismatch || v.Name != "users.name" {
		t.Errorf("unexpected validation %v", v)
	}
	if !strings.Contains(v.Extra, "integer") || !strings.Contains(v.Extra, "String") {
		t.Errorf("extra %q should name both types", v.Extra)
	}
}

func TestCompareTypesUnmappedDatabaseType(t *testing.T) {
	live := LiveColumn{Table: "users", Name: "prefs", DataType: "jsonb", Nullable: true}

	v := CompareTypes(schema.Column{Type: schema.String}, live)
	if v == nil || v.Reason != NotInCode || v.Kind != KindType {
		t.Errorf("expected not in code type validation, got %v", v)
	}
}

func TestCompareNullConstraints(t *testing.T) {
	tests := []struct {
		name      string
		col       schema.Column
		nullable  bool
		wantExtra string
	}{
		{"both nullable", schema.Column{Type: schema.String}, true, ""},
		{"both not null", schema.Column{Type: schema.String, Constraints: []schema.Constraint{schema.NotNull}}, false, ""},
		{"code not null", schema.Column{Type: schema.String, Constraints: []schema.Constraint{schema.NotNull}}, true, ExtraNullInDb},
		{"primary key implies not null", schema.Column{Type: schema.Int64, Constraints: []schema.Constraint{schema.PrimaryKey}}, true, ExtraNullInDb},
		{"serial implies not null", schema.Column{Type: schema.Int32, Constraints: []schema.Constraint{schema.Automatic}}, false, ""},
		{"db not null", schema.Column{Type: schema.String}, false, ExtraNotNullInDb},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			live := LiveColumn{Table: "t", Name: "c", DataType: "character varying", Nullable: tt.nullable}
			v := CompareNullConstraints(tt.col, live)
			if tt.wantExtra == "" {
				if v != nil {
					t.Errorf("expected no validation, got %v", v)
				}
				return
			}
			if v == nil || v.Reason != Constraint || v.Extra != tt.wantExtra {
				t.Errorf("got %v, want constraint validation %q", v, tt.wantExtra)
			}
		})
	}
}
