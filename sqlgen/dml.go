package sqlgen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNoColumns is returned when a statement needs at least one column.
	ErrNoColumns = errors.New("no columns given")
	// ErrValueCount is returned when the number of values is not a whole
	// multiple of the number of columns.
	ErrValueCount = errors.New("values must be a non-empty multiple of columns")
)

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// predicate renders "a = $start AND b = $start+1 ...".
func predicate(cols []string, start int) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = QuoteIdentifier(c) + " = " + placeholder(start+i)
	}
	return strings.Join(parts, " AND ")
}

// SelectAll selects cols, or every column when none are given.
func SelectAll(table string, cols ...string) string {
	if len(cols) == 0 {
		return "SELECT * FROM " + QuoteIdentifier(table)
	}
	return fmt.Sprintf("SELECT %s FROM %s", identList(cols), QuoteIdentifier(table))
}

// SelectWhere selects every column of the rows whose cols equal the
// parameters $1..$n.
func SelectWhere(table string, cols []string) string {
	if len(cols) == 0 {
		return SelectAll(table)
	}
	return fmt.Sprintf("SELECT * FROM %s WHERE %s", QuoteIdentifier(table), predicate(cols, 1))
}

// Insert renders a parameterized INSERT. nValues values are split into rows
// of len(cols) each and numbered contiguously:
//
//	INSERT INTO t (a, b) VALUES ($1, $2), ($3, $4)
func Insert(table string, cols []string, nValues int) (string, error) {
	if len(cols) == 0 {
		return "", ErrNoColumns
	}
	if nValues == 0 || nValues%len(cols) != 0 {
		return "", fmt.Errorf("%w: %d values for %d columns", ErrValueCount, nValues, len(cols))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", QuoteIdentifier(table), identList(cols))
	for i := 0; i < nValues; i++ {
		switch {
		case i%len(cols) == 0 && i > 0:
			b.WriteString("), (")
		case i == 0:
			b.WriteString("(")
		default:
			b.WriteString(", ")
		}
		b.WriteString(placeholder(i + 1))
	}
	b.WriteString(")")
	return b.String(), nil
}

// Update renders an UPDATE whose WHERE placeholders continue after the SET
// list. Arguments are the SET values followed by the id values.
func Update(table string, cols, idCols []string) (string, error) {
	if len(cols) == 0 || len(idCols) == 0 {
		return "", ErrNoColumns
	}
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = QuoteIdentifier(c) + " = " + placeholder(i+1)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		QuoteIdentifier(table), strings.Join(sets, ", "), predicate(idCols, len(cols)+1)), nil
}

// Delete renders a DELETE restricted by idCols.
func Delete(table string, idCols []string) (string, error) {
	if len(idCols) == 0 {
		return "", ErrNoColumns
	}
	return fmt.Sprintf("DELETE FROM %s WHERE %s", QuoteIdentifier(table), predicate(idCols, 1)), nil
}
