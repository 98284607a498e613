package main

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bumpbox-be/internal/catalog"
	"bumpbox-be/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMigrationPart(t *testing.T) {
	content := `
-- +migrate Up
CREATE TABLE lockers (id text);
ALTER TABLE lockers ADD COLUMN name text;

-- +migrate Down
DROP TABLE lockers;
`
	t.Run("Extract Up", func(t *testing.T) {
		up := extractMigrationPart(content, "Up")
		assert.Contains(t, up, "CREATE TABLE lockers")
		assert.Contains(t, up, "ALTER TABLE lockers")
		assert.NotContains(t, up, "DROP TABLE lockers")
		assert.NotContains(t, up, "-- +migrate Up")
	})

	t.Run("Extract Down", func(t *testing.T) {
		down := extractMigrationPart(content, "Down")
		assert.Contains(t, down, "DROP TABLE lockers")
		assert.NotContains(t, down, "CREATE TABLE lockers")
	})
}

func writeMigration(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunMigrationsUp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dir := t.TempDir()
	applied := writeMigration(t, dir, "0001_create_catalog.sql", "-- +migrate Up\nCREATE TABLE lockers (id text);")
	pending := writeMigration(t, dir, "0002_checks.sql", "-- +migrate Up\nALTER TABLE items ADD CONSTRAINT c CHECK (true);")

	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs("0001_create_catalog.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs("0002_checks.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("ALTER TABLE items").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs("0002_checks.sql").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, runMigrationsUp(db, []string{applied, pending}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsUp_Failure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	file := writeMigration(t, t.TempDir(), "0001_bad.sql", "-- +migrate Up\nCREATE TABLE broken;")

	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs("0001_bad.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("CREATE TABLE broken").
		WillReturnError(errors.New("syntax error"))

	err = runMigrationsUp(db, []string{file})
	assert.ErrorContains(t, err, "migration failed (0001_bad.sql)")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsDown(t *testing.T) {
	t.Run("Rolls back latest", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		file := writeMigration(t, t.TempDir(), "0001_create_catalog.sql",
			"-- +migrate Up\nCREATE TABLE lockers (id text);\n-- +migrate Down\nDROP TABLE lockers;")

		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("0001_create_catalog.sql"))
		mock.ExpectExec("DROP TABLE lockers").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM schema_migrations").
			WithArgs("0001_create_catalog.sql").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, runMigrationsDown(db, []string{file}))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Nothing applied", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnError(sql.ErrNoRows)

		assert.NoError(t, runMigrationsDown(db, nil))
	})

	t.Run("Missing file", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("0009_gone.sql"))

		assert.ErrorContains(t, runMigrationsDown(db, nil), "migration file not found")
	})
}

func TestSeedCatalog(t *testing.T) {
	distance := "0.5 miles"
	fixtures := &catalog.Fixtures{
		Lockers: []*catalog.Locker{
			{ID: "l1", Name: "Downtown Hub", Address: "123 Main", City: "Downtown", Hours: "24/7", Distance: &distance},
		},
		Items: []*catalog.Item{
			{ID: "1", Title: "Camera", Price: 85, Condition: catalog.ConditionGood, Category: "Electronics",
				Availability: catalog.AvailabilityAvailable, LockerID: "l1"},
			{ID: "2", Title: "Lamp", Price: 20, Condition: catalog.ConditionFair, Category: "Home",
				Availability: catalog.AvailabilitySold},
		},
	}

	t.Run("Commits all rows", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO lockers").
			WithArgs("l1", "Downtown Hub", "123 Main", "Downtown", "24/7", "0.5 miles", 0).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO items").
			WithArgs("1", "Camera", 85.0, "Good", "", "Electronics", "", "", "", "Available", "l1", 0).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO items").
			WithArgs("2", "Lamp", 20.0, "Fair", "", "Home", "", "", "", "Sold", nil, 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, seedCatalog(t.Context(), db, fixtures))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rolls back on failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO lockers").
			WillReturnError(errors.New("relation does not exist"))
		mock.ExpectRollback()

		err = seedCatalog(t.Context(), db, fixtures)
		assert.ErrorContains(t, err, "failed to seed locker l1")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRun(t *testing.T) {
	t.Run("Unknown mode", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorContains(t, run(db, "sideways", t.TempDir()), "unknown mode")
	})

	t.Run("Applies bundled migrations in order", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
			WillReturnResult(sqlmock.NewResult(0, 0))
		for _, v := range []string{"0001_create_catalog.sql", "0002_item_availability_check.sql"} {
			mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
				WithArgs(v).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		}

		require.NoError(t, run(db, "up", "../../migrations"))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMigrate_RequiresDBHost(t *testing.T) {
	t.Setenv("CATALOG_SOURCE", "memory")
	t.Setenv("DB_HOST", "")

	assert.ErrorIs(t, migrate("up", t.TempDir()), config.ErrMissingDBConfig)
}

func TestMigrate_OpenFailure(t *testing.T) {
	orig := openDBFunc
	defer func() { openDBFunc = orig }()
	openDBFunc = func(cfg *config.Config) (*sql.DB, error) {
		return nil, errors.New("failed to ping DB")
	}

	t.Setenv("CATALOG_SOURCE", "memory")
	t.Setenv("DB_HOST", "localhost")

	assert.EqualError(t, migrate("up", t.TempDir()), "failed to ping DB")
}
