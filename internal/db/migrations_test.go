package db

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nurpe/contract-payments/internal/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return gdb, mock
}

func TestRunMigrationsExecutesAllStatements(t *testing.T) {
	gdb, mock := newMockDB(t)
	for range migrationStatements {
		mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, runMigrations(gdb))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsStopsOnFailure(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(".*").WillReturnError(errors.New("permission denied"))

	err := runMigrations(gdb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration 2 failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoneyColumnsKeepAmountScale(t *testing.T) {
	column := fmt.Sprintf("NUMERIC(14,%d)", model.MoneyScale)
	for _, name := range []string{"balance", "price"} {
		var declared int
		for _, stmt := range migrationStatements {
			if strings.Contains(stmt, name+" "+column) || strings.Contains(stmt, "COLUMN "+name+" TYPE "+column) {
				declared++
			}
		}
		assert.Equal(t, 2, declared, "%s must be created and altered as %s", name, column)
	}
}
