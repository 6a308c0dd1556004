// Package convert coerces application values into parameters and literals
// that match a column's generic type and bounds.
//
// Numeric values are clamped into range and strings are truncated rather than
// rejected. Values that cannot be interpreted at all, such as "abc" for an
// integer column, fail with ErrInvalidValue.
package convert

import (
	"errors"
	"fmt"
	"math"
	"net"
	"net/netip"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/pgschema/sqltables/internal/logger"
	"github.com/pgschema/sqltables/schema"
)

// DefaultStringMax is the length strings are truncated to when a column
// declares no typeMax.
const DefaultStringMax = 255

const dateLayout = "2006-01-02"

var (
	// ErrUnmappedType is returned under the Strict policy for a column type
	// without a converter.
	ErrUnmappedType = errors.New("no converter for type")
	// ErrInvalidValue is returned when a value cannot be read as the
	// column's type.
	ErrInvalidValue = errors.New("invalid value")
)

// Policy selects how columns of an unknown type are handled.
type Policy int

const (
	// Lenient logs a warning and sends an empty string.
	Lenient Policy = iota
	// Strict fails with ErrUnmappedType.
	Strict
)

func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "lenient"
}

// Converter turns raw values into driver parameters.
type Converter struct {
	Policy Policy
}

// Default is the lenient converter used by the package level functions.
var Default = Converter{Policy: Lenient}

// ToSQL converts v with the Default converter.
func ToSQL(item schema.ColumnItem, v any) (any, error) {
	return Default.ToSQL(item, v)
}

type bounds struct {
	min, max int64
}

var naturalRanges = map[schema.GenericType]bounds{
	schema.Int8:        {math.MinInt8, math.MaxInt8},
	schema.Int16:       {math.MinInt16, math.MaxInt16},
	schema.Int32:       {math.MinInt32, math.MaxInt32},
	schema.Int64:       {math.MinInt64, math.MaxInt64},
	schema.UInt8:       {0, math.MaxUint8},
	schema.UInt16:      {0, math.MaxUint16},
	schema.UInt32:      {0, math.MaxUint32},
	schema.UInt64:      {0, math.MaxInt64},
	schema.TimestampMs: {math.MinInt64, math.MaxInt64},
}

// ToSQL coerces v into a parameter for a column described by item. A nil
// value is passed through as SQL NULL.
func (c Converter) ToSQL(item schema.ColumnItem, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	col := schema.StrictifyColumn(item)

	if r, ok := naturalRanges[col.Type]; ok {
		return toInteger(col, r, v)
	}

	switch col.Type {
	case schema.String:
		return toString(col, v), nil
	case schema.Boolean:
		return toBoolean(v)
	case schema.Decimal:
		return toDecimal(col, v)
	case schema.Ipv4:
		return toIPv4(v)
	case schema.Date:
		return toDate(v)
	case schema.TimestampS:
		return toTimestamp(v)
	}

	if c.Policy == Strict {
		return nil, fmt.Errorf("%w %q", ErrUnmappedType, col.Type)
	}
	logger.Get().Warn("no converter found for type", "type", col.Type)
	return "", nil
}

func invalid(t schema.GenericType, v any) error {
	return fmt.Errorf("%w for %s: %v (%T)", ErrInvalidValue, t, v, v)
}

func toInteger(col schema.Column, r bounds, v any) (int64, error) {
	if col.Type == schema.TimestampMs {
		if ts, ok := v.(time.Time); ok {
			v = ts.UnixMilli()
		}
	}

	n, err := parseInt(v)
	if err != nil {
		return 0, invalid(col.Type, v)
	}
	if col.TypeMin != nil && *col.TypeMin > r.min {
		r.min = *col.TypeMin
	}
	if col.TypeMax != nil && *col.TypeMax < r.max {
		r.max = *col.TypeMax
	}
	return clampInt(n, r.min, r.max), nil
}

func clampInt(n *clamped, lo, hi int64) int64 {
	switch {
	case n.below || n.value < lo:
		return lo
	case n.above || n.value > hi:
		return hi
	}
	return n.value
}

// clamped is an integer read from an arbitrary value. Values beyond the
// int64 range keep their direction so they clamp to the right bound.
type clamped struct {
	value        int64
	below, above bool
}

func fromFloat(f float64) (*clamped, error) {
	switch {
	case math.IsNaN(f):
		return nil, ErrInvalidValue
	case f >= math.MaxInt64:
		return &clamped{value: math.MaxInt64, above: true}, nil
	case f <= math.MinInt64:
		return &clamped{value: math.MinInt64, below: true}, nil
	}
	return &clamped{value: int64(math.Trunc(f))}, nil
}

func parseInt(v any) (*clamped, error) {
	switch n := v.(type) {
	case int:
		return &clamped{value: int64(n)}, nil
	case int8:
		return &clamped{value: int64(n)}, nil
	case int16:
		return &clamped{value: int64(n)}, nil
	case int32:
		return &clamped{value: int64(n)}, nil
	case int64:
		return &clamped{value: n}, nil
	case uint:
		return fromUint(uint64(n)), nil
	case uint8:
		return fromUint(uint64(n)), nil
	case uint16:
		return fromUint(uint64(n)), nil
	case uint32:
		return fromUint(uint64(n)), nil
	case uint64:
		return fromUint(n), nil
	case float32:
		return fromFloat(float64(n))
	case float64:
		return fromFloat(n)
	case decimal.Decimal:
		return fromDecimal(n), nil
	case bool:
		if n {
			return &clamped{value: 1}, nil
		}
		return &clamped{value: 0}, nil
	case string:
		return parseIntPrefix(n)
	case fmt.Stringer:
		return parseIntPrefix(n.String())
	}
	return nil, ErrInvalidValue
}

func fromUint(n uint64) *clamped {
	if n > math.MaxInt64 {
		return &clamped{value: math.MaxInt64, above: true}
	}
	return &clamped{value: int64(n)}
}

func fromDecimal(d decimal.Decimal) *clamped {
	t := d.Truncate(0)
	switch {
	case t.GreaterThan(decimal.NewFromInt(math.MaxInt64)):
		return &clamped{value: math.MaxInt64, above: true}
	case t.LessThan(decimal.NewFromInt(math.MinInt64)):
		return &clamped{value: math.MinInt64, below: true}
	}
	return &clamped{value: t.IntPart()}
}

// parseIntPrefix reads the leading base 10 integer of s, ignoring leading
// whitespace and anything after the digits. "42px" is 42, "3.9" is 3.
func parseIntPrefix(s string) (*clamped, error) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return nil, ErrInvalidValue
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			if s[0] == '-' {
				return &clamped{value: math.MinInt64, below: true}, nil
			}
			return &clamped{value: math.MaxInt64, above: true}, nil
		}
		return nil, err
	}
	return &clamped{value: n}, nil
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case time.Time:
		return s.Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v)
}

func toString(col schema.Column, v any) string {
	s := stringify(v)
	limit := int64(DefaultStringMax)
	if col.TypeMax != nil && *col.TypeMax >= 0 {
		limit = *col.TypeMax
	}
	if int64(utf8.RuneCountInString(s)) <= limit {
		return s
	}
	runes := 0
	for i := range s {
		if int64(runes) == limit {
			return s[:i]
		}
		runes++
	}
	return s
}

func toBoolean(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "t", "true", "y", "yes", "on", "1":
			return true, nil
		case "f", "false", "n", "no", "off", "0":
			return false, nil
		}
		return false, invalid(schema.Boolean, v)
	}
	n, err := parseInt(v)
	if err != nil {
		return false, invalid(schema.Boolean, v)
	}
	return n.value != 0 || n.above || n.below, nil
}

func toDecimal(col schema.Column, v any) (string, error) {
	var d decimal.Decimal
	switch n := v.(type) {
	case decimal.Decimal:
		d = n
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return "", invalid(schema.Decimal, v)
		}
		d = decimal.NewFromFloat(n)
	case float32:
		if math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
			return "", invalid(schema.Decimal, v)
		}
		d = decimal.NewFromFloat32(n)
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return "", invalid(schema.Decimal, v)
		}
		d = parsed
	default:
		i, err := parseInt(v)
		if err != nil {
			return "", invalid(schema.Decimal, v)
		}
		d = decimal.NewFromInt(i.value)
	}

	if col.TypeMin != nil {
		if lo := decimal.NewFromInt(*col.TypeMin); d.LessThan(lo) {
			d = lo
		}
	}
	if col.TypeMax != nil {
		if hi := decimal.NewFromInt(*col.TypeMax); d.GreaterThan(hi) {
			d = hi
		}
	}
	return d.String(), nil
}

func toIPv4(v any) (string, error) {
	switch ip := v.(type) {
	case netip.Addr:
		if !ip.IsValid() {
			return "", invalid(schema.Ipv4, v)
		}
		return ip.String(), nil
	case netip.Prefix:
		if !ip.IsValid() {
			return "", invalid(schema.Ipv4, v)
		}
		return ip.String(), nil
	case net.IP:
		addr, ok := netip.AddrFromSlice(ip)
		if !ok {
			return "", invalid(schema.Ipv4, v)
		}
		return addr.Unmap().String(), nil
	}

	s := strings.TrimSpace(stringify(v))
	if addr, err := netip.ParseAddr(s); err == nil {
		return addr.String(), nil
	}
	if prefix, err := netip.ParsePrefix(s); err == nil {
		return prefix.String(), nil
	}
	return "", invalid(schema.Ipv4, v)
}

func toDate(v any) (string, error) {
	switch d := v.(type) {
	case time.Time:
		return d.Format(dateLayout), nil
	case string:
		s := strings.TrimSpace(d)
		if len(s) > len(dateLayout) {
			if ts, err := time.Parse(time.RFC3339, s); err == nil {
				return ts.Format(dateLayout), nil
			}
		}
		parsed, err := time.Parse(dateLayout, s)
		if err != nil {
			return "", invalid(schema.Date, v)
		}
		return parsed.Format(dateLayout), nil
	}
	return "", invalid(schema.Date, v)
}

func toTimestamp(v any) (time.Time, error) {
	switch ts := v.(type) {
	case time.Time:
		return ts.UTC(), nil
	case string:
		s := strings.TrimSpace(ts)
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", dateLayout} {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed.UTC(), nil
			}
		}
		// only a whole integer string is taken as unix seconds
		secs, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, invalid(schema.TimestampS, v)
		}
		return time.Unix(secs, 0).UTC(), nil
	}
	n, err := parseInt(v)
	if err != nil || n.above || n.below {
		return time.Time{}, invalid(schema.TimestampS, v)
	}
	return time.Unix(n.value, 0).UTC(), nil
}
