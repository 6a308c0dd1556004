package schema

import "fmt"

// CyclicDependencyError is returned when foreign keys form a cycle. No
// CREATE TABLE order exists for such a schema.
type CyclicDependencyError struct {
	Table     string
	DependsOn string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("circular dependency found: %s -> %s", e.Table, e.DependsOn)
}

// UnresolvedReferenceError is returned when a table references a table that
// is not part of the schema.
type UnresolvedReferenceError struct {
	Table     string
	Reference string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unable to resolve: %s (referenced by %s)", e.Reference, e.Table)
}

// NamedTable pairs a table definition with its name.
type NamedTable struct {
	Name  string
	Table Table
}

type visitState int

const (
	unvisited visitState = iota
	visiting
	visited
)

type frame struct {
	name string
	deps []string
	next int
}

// OrderDependencies returns every table after all the tables it references
// (post-order topological sort). Tables are visited in lexical order so the
// result is deterministic. A table referencing itself is not a cycle.
func OrderDependencies(s Schema) ([]NamedTable, error) {
	state := make(map[string]visitState, len(s))
	result := make([]NamedTable, 0, len(s))

	for _, root := range s.TableNames() {
		if state[root] != unvisited {
			continue
		}

		stack := []*frame{{name: root, deps: s[root].Dependencies()}}
		state[root] = visiting

		for len(stack) > 0 {
			top := stack[len(stack)-1]

			if top.next == len(top.deps) {
				stack = stack[:len(stack)-1]
				state[top.name] = visited
				result = append(result, NamedTable{Name: top.name, Table: s[top.name]})
				continue
			}

			dep := top.deps[top.next]
			top.next++

			if dep == top.name {
				continue
			}
			switch state[dep] {
			case visiting:
				return nil, &CyclicDependencyError{Table: top.name, DependsOn: dep}
			case visited:
				continue
			}
			table, ok := s[dep]
			if !ok {
				return nil, &UnresolvedReferenceError{Table: top.name, Reference: dep}
			}
			state[dep] = visiting
			stack = append(stack, &frame{name: dep, deps: table.Dependencies()})
		}
	}

	return result, nil
}
