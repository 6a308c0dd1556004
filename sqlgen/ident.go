// Package sqlgen renders the PostgreSQL statements used by sqltables.
//
// Every function is pure. Identifiers are expected to have passed
// ValidIdentifier; they are written unquoted so the server folds them to
// lower case, except for reserved words which are quoted in their folded
// form.
package sqlgen

import (
	"strings"

	"github.com/lib/pq"

	"github.com/pgschema/sqltables/schema"
)

// ValidIdentifier reports whether name is a legal table or column name.
func ValidIdentifier(name string) bool {
	return schema.ValidIdentifier(name)
}

// NeedsQuoting reports whether an identifier collides with a reserved word.
func NeedsQuoting(identifier string) bool {
	if identifier == "" {
		return false
	}
	return schema.IsReservedWord(identifier)
}

// QuoteIdentifier adds quotes to an identifier if needed
func QuoteIdentifier(identifier string) string {
	if NeedsQuoting(identifier) {
		return pq.QuoteIdentifier(strings.ToLower(identifier))
	}
	return identifier
}

func identList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = QuoteIdentifier(n)
	}
	return strings.Join(quoted, ", ")
}
