package schema

import (
	"regexp"
	"strings"
)

// maxIdentifierLength is PostgreSQL's NAMEDATALEN - 1.
const maxIdentifierLength = 63

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// PostgreSQL reserved words. Identifiers that collide with them must be
// quoted when rendered.
// Based on https://www.postgresql.org/docs/current/sql-keywords-appendix.html
var reservedWords = map[string]bool{
	// A-C
	"all":              true,
	"and":              true,
	"any":              true,
	"array":            true,
	"as":               true,
	"asymmetric":       true,
	"authorization":    true,
	"between":          true,
	"bigint":           true,
	"by":               true,
	"binary":           true,
	"boolean":          true,
	"both":             true,
	"case":             true,
	"cast":             true,
	"char":             true,
	"character":        true,
	"check":            true,
	"collate":          true,
	"collation":        true,
	"column":           true,
	"constraint":       true,
	"create":           true,
	"cross":            true,
	"current_catalog":  true,
	"current_date":     true,
	"current_role":     true,
	"current_schema":   true,
	"current_time":     true,
	"current_timestamp": true,
	"current_user":     true,
	// D-F
	"default":     true,
	"deferrable":  true,
	"delete":      true,
	"distinct":    true,
	"do":          true,
	"else":        true,
	"end":         true,
	"except":      true,
	"exists":      true,
	"false":       true,
	"fetch":       true,
	"filter":      true,
	"for":         true,
	"foreign":     true,
	"freeze":      true,
	"from":        true,
	// G-L
	"grant":       true,
	"group":       true,
	"having":      true,
	"ilike":       true,
	"in":          true,
	"initially":   true,
	"inner":       true,
	"insert":      true,
	"intersect":   true,
	"into":        true,
	"is":          true,
	"isnull":      true,
	"join":        true,
	"lateral":     true,
	"left":        true,
	"like":        true,
	"limit":       true,
	// N-P
	"natural":     true,
	"not":         true,
	"null":        true,
	"of":          true,
	"offset":      true,
	"on":          true,
	"only":        true,
	"or":          true,
	"order":       true,
	"outer":       true,
	"primary":     true,
	// R-S
	"references":  true,
	"returning":   true,
	"right":       true,
	"select":      true,
	"similar":     true,
	"some":        true,
	"symmetric":   true,
	"system_user": true,
	// T-W
	"table":       true,
	"tablesample": true,
	"then":        true,
	"to":          true,
	"trailing":    true,
	"true":        true,
	"union":       true,
	"update":      true,
	"unique":      true,
	"user":        true,
	"using":       true,
	"variadic":    true,
	"verbose":     true,
	"when":        true,
	"where":       true,
	"window":      true,
	"with":        true,
	"within":      true,
}

// ValidIdentifier reports whether name can be used as a table or column
// name. Names are rendered unquoted so the engine folds them to lower case,
// which is why lookups against a live database are case-insensitive.
func ValidIdentifier(name string) bool {
	return name != "" && len(name) <= maxIdentifierLength && identifierRe.MatchString(name)
}

// IsReservedWord reports whether name is a PostgreSQL reserved word.
func IsReservedWord(name string) bool {
	return reservedWords[strings.ToLower(name)]
}
