package crud_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgschema/sqltables/crud"
	"github.com/pgschema/sqltables/executor"
	"github.com/pgschema/sqltables/schema"
	"github.com/pgschema/sqltables/sqlgen"
	"github.com/pgschema/sqltables/testutil"
)

func integrationSchema() schema.Schema {
	return schema.Strictify(schema.Definition{
		"authors": schema.TableDef{
			Struct: schema.Struct{
				"id":   schema.Column{Type: schema.UInt64, Constraints: []schema.Constraint{schema.PrimaryKey, schema.Automatic}},
				"name": schema.Column{Type: schema.String, Constraints: []schema.Constraint{schema.NotNull, schema.Unique}},
			},
		},
		"books": schema.TableDef{
			Struct: schema.Struct{
				"id":       schema.Column{Type: schema.UInt64, Constraints: []schema.Constraint{schema.PrimaryKey, schema.Automatic}},
				"authorId": schema.Column{Type: schema.UInt64, Relation: &schema.Relation{Table: "authors", Column: "id"}},
				"title":    schema.String,
			},
			Unique: [][]string{{"authorId", "title"}},
		},
	})
}

func setupStore(t *testing.T) (*crud.Store, *testutil.ContainerInfo) {
	t.Helper()
	ctx := context.Background()
	ci := testutil.SetupPostgresContainer(ctx, t)

	s := integrationSchema()
	stmts, err := sqlgen.CreateSchema(s)
	require.NoError(t, err)
	for _, stmt := range stmts {
		require.NoError(t, executor.Exec(ctx, ci.Pool, stmt))
	}
	return crud.New(s, ci.Pool), ci
}

func countRows(t *testing.T, store *crud.Store, table string) int {
	t.Helper()
	rows, err := executor.Collect(store.Select(context.Background(), table))
	require.NoError(t, err)
	return len(rows)
}

func TestInsertOrSelectIfExistsIntegration(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t)

	first, err := store.InsertOrSelectIfExists(ctx, "authors", []string{"name"}, []any{"Ursula"}, 0)
	require.NoError(t, err)
	require.NotNil(t, first["id"])

	second, err := store.InsertOrSelectIfExists(ctx, "authors", []string{"name"}, []any{"Ursula"}, 0)
	require.NoError(t, err)
	assert.Equal(t, first["id"], second["id"])
	assert.Equal(t, 1, countRows(t, store, "authors"))
}

func TestCompoundInsertOrSelectIfExistsIntegration(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t)

	deps := []crud.Dependency{
		store.Dependency("authorId", "authors", []string{"name"}, []any{"Octavia"}, 0),
	}
	book, err := store.CompoundInsertOrSelectIfExists(ctx, "books", []string{"title"}, []any{"Kindred"}, deps, 0, 1)
	require.NoError(t, err)

	author, found, err := executor.First(store.SelectWhere(ctx, "authors", []string{"name"}, []any{"Octavia"}))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, author["id"], book["authorid"])

	again, err := store.CompoundInsertOrSelectIfExists(ctx, "books", []string{"title"}, []any{"Kindred"}, deps, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, book["id"], again["id"])
	assert.Equal(t, 1, countRows(t, store, "books"))
}

func TestCRUDIntegration(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t)

	_, err := store.InsertRecord(ctx, "authors", crud.Record{"name": "N. K. Jemisin"})
	require.NoError(t, err)

	_, err = store.Update(ctx, "authors", []string{"name"}, []any{"N.K. Jemisin"}, []string{"name"}, []any{"N. K. Jemisin"})
	require.NoError(t, err)

	rows, err := store.SelectWhereAll(ctx, "authors", []string{"name"}, []any{"N.K. Jemisin"})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, err = store.Delete(ctx, "authors", []string{"id"}, []any{rows[0]["id"]})
	require.NoError(t, err)
	assert.Equal(t, 0, countRows(t, store, "authors"))
}

func TestTransactionIntegration(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t)

	err := store.Transaction(ctx, sqlgen.ReadCommitted, func(tx *crud.Store) error {
		_, err := tx.Insert(ctx, "authors", []string{"name"}, []any{"committed"})
		return err
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.Transaction(ctx, "", func(tx *crud.Store) error {
		if _, err := tx.Insert(ctx, "authors", []string{"name"}, []any{"rolled back"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	rows, err := executor.Collect(store.Select(ctx, "authors", "name"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "committed", rows[0]["name"])
}
