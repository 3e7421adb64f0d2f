package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return gdb, mock
}

func TestTxManagerCommitsOnSuccess(t *testing.T) {
	gdb, mock := newMockDB(t)
	tx := NewTxManager(gdb)
	profiles := NewProfileRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "profiles" SET "balance"=balance \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return profiles.AddBalance(ctx, 1, decimal.NewFromInt(10))
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManagerRollsBackOnError(t *testing.T) {
	gdb, mock := newMockDB(t)
	tx := NewTxManager(gdb)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManagerJoinsOuterTransaction(t *testing.T) {
	gdb, mock := newMockDB(t)
	tx := NewTxManager(gdb)

	mock.ExpectBegin()
	mock.ExpectCommit()

	calls := 0
	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return tx.WithinTransaction(ctx, func(context.Context) error {
			calls++
			return nil
		})
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryGetByID(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewProfileRepository(gdb)

	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "profession", "role", "balance"}).
		AddRow(1, "Harry", "Potter", "Wizard", "client", "1150.00")
	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE "profiles"."id" = \$1`).WillReturnRows(rows)

	profile, err := repo.GetByID(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "Harry Potter", profile.FullName())
	assert.True(t, profile.Balance.Equal(decimal.NewFromInt(1150)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryGetByIDNotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewProfileRepository(gdb)

	mock.ExpectQuery(`SELECT \* FROM "profiles"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 99)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProfileRepositoryLockByIDsUsesForUpdate(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewProfileRepository(gdb)

	rows := sqlmock.NewRows([]string{"id", "balance"}).
		AddRow(2, "231.11").
		AddRow(6, "1214.00")
	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE id IN \(\$1,\$2\) ORDER BY id ASC FOR UPDATE`).
		WillReturnRows(rows)

	profiles, err := repo.LockByIDs(context.Background(), 6, 2)

	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, uint(2), profiles[0].ID)
	assert.Equal(t, uint(6), profiles[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryAddBalanceMissingProfile(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewProfileRepository(gdb)

	mock.ExpectExec(`UPDATE "profiles"`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AddBalance(context.Background(), 42, decimal.NewFromInt(-5))

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestJobRepositoryMarkPaid(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewJobRepository(gdb)
	paidAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE "jobs" SET .*"paid"=\$\d.* WHERE id = \$\d+ AND paid = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "jobs"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	flipped, err := repo.MarkPaid(context.Background(), 4, paidAt)
	require.NoError(t, err)
	assert.True(t, flipped)

	flipped, err = repo.MarkPaid(context.Background(), 4, paidAt)
	require.NoError(t, err)
	assert.False(t, flipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepositoryLockWithContract(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewJobRepository(gdb)

	mock.ExpectQuery(`SELECT \* FROM "jobs" WHERE "jobs"."id" = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "price", "paid", "contract_id"}).AddRow(4, "200", false, 7))
	mock.ExpectQuery(`SELECT \* FROM "contracts" WHERE "contracts"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "client_id", "contractor_id"}).AddRow(7, "in_progress", 2, 6))

	job, err := repo.LockWithContract(context.Background(), 4)

	require.NoError(t, err)
	require.NotNil(t, job.Contract)
	assert.Equal(t, uint(2), job.Contract.ClientID)
	assert.True(t, job.Price.Equal(decimal.NewFromInt(200)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepositorySumUnpaidByClient(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewJobRepository(gdb)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(j.price\), 0\) AS total`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("402.00"))

	total, err := repo.SumUnpaidByClient(context.Background(), 1)

	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(402)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryBestProfessionEmpty(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewReportRepository(gdb)
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`GROUP BY p.profession`).
		WillReturnRows(sqlmock.NewRows([]string{"profession", "total"}))

	_, err := repo.BestProfession(context.Background(), from, from.AddDate(1, 0, 0))

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReportRepositoryBestClients(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewReportRepository(gdb)
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`GROUP BY p.id, p.first_name, p.last_name`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "paid"}).
			AddRow(4, "Ash Kethcum", "2020.00").
			AddRow(2, "Mr Robot", "442.00"))

	clients, err := repo.BestClients(context.Background(), from, from.AddDate(1, 0, 0), 2)

	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "Ash Kethcum", clients[0].FullName)
	assert.True(t, clients[1].Paid.Equal(decimal.NewFromInt(442)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
