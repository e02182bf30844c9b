package repo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/gabzlaundry/gab/internal/entity"
)

func orderRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "customer_id", "assigned_staff_id", "status", "payment_method",
		"amount_kobo", "items_json", "created_at", "updated_at",
	})
}

func TestMySQLOrderRepo_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("^SELECT (.+) FROM orders WHERE id=").
		WithArgs("ord-1").
		WillReturnRows(orderRows().AddRow(
			"ord-1", "cus-1", nil, "READY", "PAY_ON_PICKUP",
			int64(500000), `[]`, now, now,
		))

	o, err := NewMySQLOrderRepo(db).GetByID(context.Background(), "ord-1")

	require.NoError(t, err)
	assert.Equal(t, "ord-1", o.ID)
	assert.Equal(t, "cus-1", o.CustomerID)
	assert.Equal(t, "", o.AssignedStaffID, "NULL staff scans to the empty string")
	assert.Equal(t, domain.StatusReady, o.Status)
	assert.Equal(t, domain.PayOnPickup, o.PaymentMethod)
	assert.Equal(t, int64(500000), o.AmountKobo)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLOrderRepo_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("^SELECT (.+) FROM orders WHERE id=").
		WithArgs("ord-ghost").
		WillReturnRows(orderRows())

	_, err = NewMySQLOrderRepo(db).GetByID(context.Background(), "ord-ghost")

	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLOrderRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("^INSERT INTO orders").
		WithArgs("ord-1", "cus-1", "", "PENDING", "PAY_ON_PICKUP", int64(500000), `[]`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewMySQLOrderRepo(db).Create(context.Background(), &domain.Order{
		ID:            "ord-1",
		CustomerID:    "cus-1",
		Status:        domain.StatusPending,
		PaymentMethod: domain.PayOnPickup,
		AmountKobo:    500000,
		ItemsJSON:     `[]`,
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLOrderRepo_UpdateStatusIf(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("^UPDATE orders SET status").
		WithArgs("COMPLETED", "ord-1", "READY").
		WillReturnResult(sqlmock.NewResult(0, 1))

	applied, err := NewMySQLOrderRepo(db).UpdateStatusIf(context.Background(), "ord-1", domain.StatusReady, domain.StatusCompleted)

	require.NoError(t, err)
	assert.True(t, applied)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLOrderRepo_UpdateStatusIf_WrongStage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// The guarded UPDATE matches no row: a lost race, not an error.
	mock.ExpectExec("^UPDATE orders SET status").
		WithArgs("COMPLETED", "ord-1", "READY").
		WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err := NewMySQLOrderRepo(db).UpdateStatusIf(context.Background(), "ord-1", domain.StatusReady, domain.StatusCompleted)

	require.NoError(t, err)
	assert.False(t, applied)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLOrderRepo_AssignStaff(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("^UPDATE orders SET assigned_staff_id").
		WithArgs("stf-1", "ord-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewMySQLOrderRepo(db).AssignStaff(context.Background(), "ord-1", "stf-1")

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLOrderRepo_ListByCustomer_ClampsLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("^SELECT (.+) FROM orders WHERE customer_id=").
		WithArgs("cus-1", 50).
		WillReturnRows(orderRows().
			AddRow("ord-2", "cus-1", "stf-1", "COMPLETED", "PAY_ONLINE", int64(150000), `[]`, now, now).
			AddRow("ord-1", "cus-1", nil, "READY", "PAY_ON_PICKUP", int64(500000), `[]`, now, now))

	got, err := NewMySQLOrderRepo(db).ListByCustomer(context.Background(), "cus-1", 0)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "stf-1", got[0].AssignedStaffID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLOrderRepo_CustomerStats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	first := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	last := time.Date(2026, 3, 2, 17, 30, 0, 0, time.UTC)
	mock.ExpectQuery("^SELECT COUNT(.+) FROM orders WHERE customer_id=").
		WithArgs("cus-1", "CANCELLED").
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum", "min", "max"}).
			AddRow(int64(7), int64(1250000), first, last))

	stats, err := NewMySQLOrderRepo(db).CustomerStats(context.Background(), "cus-1")

	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.OrderCount)
	assert.Equal(t, int64(1250000), stats.SpendKobo)
	require.NotNil(t, stats.FirstOrderAt)
	assert.Equal(t, first, *stats.FirstOrderAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLOrderRepo_CustomerStats_NoOrders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("^SELECT COUNT(.+) FROM orders WHERE customer_id=").
		WithArgs("cus-new", "CANCELLED").
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum", "min", "max"}).
			AddRow(int64(0), int64(0), nil, nil))

	stats, err := NewMySQLOrderRepo(db).CustomerStats(context.Background(), "cus-new")

	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.OrderCount)
	assert.Nil(t, stats.FirstOrderAt)
	assert.Nil(t, stats.LastOrderAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLOrderRepo_StatusCounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("^SELECT status, COUNT(.+) FROM orders GROUP BY status").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("PENDING", int64(3)).
			AddRow("COMPLETED", int64(40)))

	counts, err := NewMySQLOrderRepo(db).StatusCounts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, map[domain.Status]int64{
		domain.StatusPending:   3,
		domain.StatusCompleted: 40,
	}, counts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLOrderRepo_RevenueKobo(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("^SELECT COALESCE").
		WithArgs("COMPLETED").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(int64(9000000)))

	total, err := NewMySQLOrderRepo(db).RevenueKobo(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(9000000), total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLOrderRepo_QueryErrorIsInternal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("^SELECT (.+) FROM orders WHERE customer_id=").
		WillReturnError(assert.AnError)

	_, err = NewMySQLOrderRepo(db).ListByCustomer(context.Background(), "cus-1", 10)

	require.Error(t, err)
	assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
