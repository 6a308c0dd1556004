package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/pgschema/sqltables/internal/logger"
)

// Format is the encoding of a schema declaration file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported schema file extension %q (want .yaml, .yml, .toml or .json)", filepath.Ext(path))
	}
}

// Load reads, normalizes and checks a schema declaration file.
func Load(path string) (Schema, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// MustLoad is like Load but panics on error. It is meant for package level
// schema declarations, where no partially initialized program may run.
func MustLoad(path string) Schema {
	s, err := Load(path)
	if err != nil {
		panic(err)
	}
	return s
}

// Parse decodes a schema declaration, expands shorthand and runs Verify.
// Relation type mismatches are logged as warnings and do not fail the parse.
func Parse(data []byte, format Format) (Schema, error) {
	def, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	s := Strictify(def)
	if err := Verify(s); err != nil {
		return nil, err
	}
	if problems := RelationProblems(s); len(problems) > 0 {
		logger.Get().Warn("Schema relations do not resolve", "problems", problems)
	}
	return s, nil
}

// Decode turns a declaration into a Definition. The shape of every table
// and column is decided here, once.
func Decode(data []byte, format Format) (Definition, error) {
	raw := map[string]any{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse YAML schema: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse TOML schema: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON schema: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported schema format %q", format)
	}

	def := make(Definition, len(raw))
	for name, value := range raw {
		item, err := decodeTable(name, value)
		if err != nil {
			return nil, err
		}
		def[name] = item
	}
	return def, nil
}

func decodeTable(name string, value any) (TableItem, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("table %s: expected a mapping, got %T", name, value)
	}

	rawStruct, full := m["struct"].(map[string]any)
	if !full {
		return decodeStruct(name, m)
	}

	st, err := decodeStruct(name, rawStruct)
	if err != nil {
		return nil, err
	}
	def := TableDef{Struct: st}

	if v, ok := m["unique"]; ok {
		groups, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("table %s: unique must be a list of column lists", name)
		}
		for _, g := range groups {
			cols, err := stringList(g)
			if err != nil {
				return nil, fmt.Errorf("table %s: unique: %w", name, err)
			}
			def.Unique = append(def.Unique, cols)
		}
	}
	if v, ok := m["primaryKey"]; ok {
		cols, err := stringList(v)
		if err != nil {
			return nil, fmt.Errorf("table %s: primaryKey: %w", name, err)
		}
		def.PrimaryKey = cols
	}
	if v, ok := m["foreignKey"]; ok {
		fks, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("table %s: foreignKey must be a list", name)
		}
		for _, rawFK := range fks {
			fk, err := decodeForeignKey(rawFK)
			if err != nil {
				return nil, fmt.Errorf("table %s: foreignKey: %w", name, err)
			}
			def.ForeignKey = append(def.ForeignKey, fk)
		}
	}
	return def, nil
}

func decodeStruct(table string, m map[string]any) (Struct, error) {
	st := make(Struct, len(m))
	for col, value := range m {
		item, err := decodeColumn(value)
		if err != nil {
			return nil, fmt.Errorf("column %s.%s: %w", table, col, err)
		}
		st[col] = item
	}
	return st, nil
}

func decodeColumn(value any) (ColumnItem, error) {
	switch v := value.(type) {
	case string:
		return GenericType(v), nil
	case map[string]any:
		c := Column{}
		t, ok := v["type"].(string)
		if !ok {
			return nil, fmt.Errorf("missing type")
		}
		c.Type = GenericType(t)

		if raw, ok := v["constraints"]; ok {
			names, err := stringList(raw)
			if err != nil {
				return nil, fmt.Errorf("constraints: %w", err)
			}
			for _, n := range names {
				c.Constraints = append(c.Constraints, Constraint(n))
			}
		}
		if raw, ok := v["typeMax"]; ok {
			n, err := toInt64(raw)
			if err != nil {
				return nil, fmt.Errorf("typeMax: %w", err)
			}
			c.TypeMax = &n
		}
		if raw, ok := v["typeMin"]; ok {
			n, err := toInt64(raw)
			if err != nil {
				return nil, fmt.Errorf("typeMin: %w", err)
			}
			c.TypeMin = &n
		}
		if raw, ok := v["defaultValue"]; ok {
			if n, isNumber := raw.(json.Number); isNumber {
				raw = n.String()
			}
			c.DefaultValue = raw
		}
		if raw, ok := v["defaultExpression"].(string); ok {
			c.DefaultExpression = raw
		}
		if raw, ok := v["check"].(string); ok {
			c.CheckExpression = raw
		}
		if raw, ok := v["relation"]; ok {
			rm, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("relation must be a mapping")
			}
			table, _ := rm["struct"].(string)
			column, _ := rm["prop"].(string)
			if table == "" || column == "" {
				return nil, fmt.Errorf("relation needs both struct and prop")
			}
			c.Relation = &Relation{Table: table, Column: column}
		}
		return c, nil
	default:
		return nil, fmt.Errorf("expected a type name or a mapping, got %T", value)
	}
}

func decodeForeignKey(value any) (CompositeForeignKey, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return CompositeForeignKey{}, fmt.Errorf("expected a mapping, got %T", value)
	}
	props, err := stringList(m["props"])
	if err != nil {
		return CompositeForeignKey{}, fmt.Errorf("props: %w", err)
	}
	foreign, err := stringList(m["propsForeign"])
	if err != nil {
		return CompositeForeignKey{}, fmt.Errorf("propsForeign: %w", err)
	}
	table, ok := m["struct"].(string)
	if !ok || table == "" {
		return CompositeForeignKey{}, fmt.Errorf("missing struct")
	}
	return CompositeForeignKey{Columns: props, ForeignColumns: foreign, Table: table}, nil
}

func stringList(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of strings, got %T", value)
	}
}

func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return math.MaxInt64, nil
		}
		return int64(v), nil
	case float64:
		return int64(v), nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		f, err := v.Float64()
		if err != nil {
			return 0, err
		}
		return int64(f), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("expected a number, got %T", value)
	}
}
