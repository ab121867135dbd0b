package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds a migrated test database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema. The
// test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolConfig{MaxConns: 4, MinConns: 1})
	require.NoError(t, err, "failed to connect to test database")

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.migrate(ctx))
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)
	return setup
}

func (s *TestDatabaseSetup) migrate(ctx context.Context) error {
	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "000001_check_clock.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	if _, err := s.DB.Exec(ctx, string(schema)); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// TruncateAllTables removes all rows from every table.
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"check_clocks",
		"check_clock_setting_times",
		"check_clock_settings",
		"employees",
		"users",
		"positions",
		"branches",
		"companies",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// Close closes the pool.
func (s *TestDatabaseSetup) Close() {
	s.DB.Close()
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (s *TestDatabaseSetup) createCompany(t *testing.T) string {
	t.Helper()
	id := newID()
	_, err := s.DB.Exec(context.Background(), `INSERT INTO companies (id, name) VALUES ($1, 'Test Company')`, id)
	require.NoError(t, err)
	return id
}

func (s *TestDatabaseSetup) createPosition(t *testing.T, companyID, name string) string {
	t.Helper()
	id := newID()
	_, err := s.DB.Exec(context.Background(), `INSERT INTO positions (id, company_id, name) VALUES ($1, $2, $3)`, id, companyID, name)
	require.NoError(t, err)
	return id
}

func (s *TestDatabaseSetup) createEmployee(t *testing.T, companyID, positionID, name, status string) string {
	t.Helper()
	id := newID()
	_, err := s.DB.Exec(context.Background(), `
		INSERT INTO employees (id, company_id, position_id, employee_code, full_name, employment_status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, companyID, positionID, "EMP-"+name, name, status)
	require.NoError(t, err)
	return id
}
