package convert

import (
	"strconv"
	"time"

	"github.com/lib/pq"

	"github.com/pgschema/sqltables/schema"
)

// Literal renders v with the Default converter.
func Literal(item schema.ColumnItem, v any) (string, error) {
	return Default.Literal(item, v)
}

// Literal renders v as an escaped SQL literal for the column described by
// item, e.g. for a DEFAULT clause. The value goes through ToSQL first so
// the literal obeys the same bounds as a query parameter.
func (c Converter) Literal(item schema.ColumnItem, v any) (string, error) {
	converted, err := c.ToSQL(item, v)
	if err != nil {
		return "", err
	}

	switch val := converted.(type) {
	case nil:
		return "NULL", nil
	case bool:
		if val {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case time.Time:
		return pq.QuoteLiteral(val.Format("2006-01-02 15:04:05.999999")), nil
	case string:
		if schema.StrictifyColumn(item).Type == schema.Decimal {
			return val, nil
		}
		return pq.QuoteLiteral(val), nil
	}
	return pq.QuoteLiteral(stringify(converted)), nil
}
