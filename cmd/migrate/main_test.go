package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSection(t *testing.T) {
	content := `
-- +migrate Up
CREATE TABLE orders (id uuid PRIMARY KEY);
CREATE INDEX idx_orders_user_id ON orders(user_id);

-- +migrate Down
DROP TABLE orders;
`
	t.Run("up", func(t *testing.T) {
		up := extractSection(content, "Up")
		assert.Contains(t, up, "CREATE TABLE orders")
		assert.Contains(t, up, "CREATE INDEX")
		assert.NotContains(t, up, "DROP TABLE orders")
	})

	t.Run("down", func(t *testing.T) {
		down := extractSection(content, "Down")
		assert.Contains(t, down, "DROP TABLE orders")
		assert.NotContains(t, down, "CREATE TABLE orders")
	})
}

func TestMigrateUp_AppliesAndRecords(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "0001_orders.sql")
	require.NoError(t, os.WriteFile(file,
		[]byte("-- +migrate Up\nCREATE TABLE orders (id uuid);"), 0644))

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("0001_orders.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("CREATE TABLE orders").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs("0001_orders.sql").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = migrateUp(db, []string{file})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_SkipsApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "0001_orders.sql")
	require.NoError(t, os.WriteFile(file,
		[]byte("-- +migrate Up\nCREATE TABLE orders (id uuid);"), 0644))

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("0001_orders.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err = migrateUp(db, []string{file})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
