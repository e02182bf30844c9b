package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/gabzlaundry/gab/internal/entity"
)

func testStaff() *domain.User {
	return &domain.User{ID: "stf-1", Email: "musa@gabzlaundry.com", FirstName: "Musa", LastName: "Bello", Role: domain.RoleStaff}
}

func TestDashboard_CustomerStats(t *testing.T) {
	first := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	last := time.Date(2026, 3, 2, 17, 30, 0, 0, time.UTC)
	orders := newFakeOrders()
	orders.customerAgg = &OrderStats{OrderCount: 7, SpendKobo: 1250000, FirstOrderAt: &first, LastOrderAt: &last}
	d := NewDashboard(orders, newFakeUsers(testCustomer()), &fakeNotes{}, newFakeStatsCache())

	stats, err := d.CustomerStats(context.Background(), "cus-1")

	require.NoError(t, err)
	assert.Equal(t, "Ada Obi", stats.Name)
	assert.Equal(t, "ada@example.com", stats.Email)
	assert.Equal(t, int64(7), stats.OrderCount)
	assert.Equal(t, int64(1250000), stats.SpendKobo)
	assert.Equal(t, 12500.0, stats.SpendNaira)
	assert.Equal(t, &first, stats.FirstOrderAt)
	assert.Equal(t, &last, stats.LastOrderAt)
}

func TestDashboard_CustomerStatsServedFromCache(t *testing.T) {
	orders := newFakeOrders()
	orders.customerAgg = &OrderStats{OrderCount: 7, SpendKobo: 1250000}
	cache := newFakeStatsCache()
	d := NewDashboard(orders, newFakeUsers(testCustomer()), &fakeNotes{}, cache)

	_, err := d.CustomerStats(context.Background(), "cus-1")
	require.NoError(t, err)
	require.Equal(t, 1, cache.sets)

	// New orders landed, but the cached aggregate is still live.
	orders.customerAgg = &OrderStats{OrderCount: 8, SpendKobo: 1400000}

	stats, err := d.CustomerStats(context.Background(), "cus-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.OrderCount)
	assert.Equal(t, 1, cache.sets, "a cache hit writes nothing back")
}

func TestDashboard_CustomerStatsValidation(t *testing.T) {
	d := NewDashboard(newFakeOrders(), newFakeUsers(), &fakeNotes{}, newFakeStatsCache())

	_, err := d.CustomerStats(context.Background(), "")
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	_, err = d.CustomerStats(context.Background(), "cus-ghost")
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestDashboard_StaffStats(t *testing.T) {
	lastSeen := time.Date(2026, 3, 4, 8, 15, 0, 0, time.UTC)
	orders := newFakeOrders()
	orders.staffAgg = &StaffActivity{HandledCount: 31, CompletedCount: 24, LastActivityAt: &lastSeen}
	d := NewDashboard(orders, newFakeUsers(testStaff()), &fakeNotes{}, newFakeStatsCache())

	stats, err := d.StaffStats(context.Background(), "stf-1")

	require.NoError(t, err)
	assert.Equal(t, "Musa Bello", stats.Name)
	assert.Equal(t, int64(31), stats.HandledCount)
	assert.Equal(t, int64(24), stats.CompletedCount)
	assert.Equal(t, &lastSeen, stats.LastActivityAt)
}

func TestDashboard_StaffStatsRejectsCustomers(t *testing.T) {
	d := NewDashboard(newFakeOrders(), newFakeUsers(testCustomer()), &fakeNotes{}, newFakeStatsCache())

	_, err := d.StaffStats(context.Background(), "cus-1")

	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestDashboard_Summary(t *testing.T) {
	orders := newFakeOrders()
	orders.statusCounts = map[domain.Status]int64{
		domain.StatusPending:   3,
		domain.StatusReady:     2,
		domain.StatusCompleted: 40,
	}
	orders.revenue = 9000000
	users := newFakeUsers()
	users.customers = 25
	users.staff = 4
	d := NewDashboard(orders, users, &fakeNotes{}, newFakeStatsCache())

	got, err := d.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"PENDING": 3, "READY": 2, "COMPLETED": 40}, got.OrdersByStatus)
	assert.Equal(t, int64(9000000), got.RevenueKobo)
	assert.Equal(t, 90000.0, got.RevenueNaira)
	assert.Equal(t, int64(25), got.CustomerCount)
	assert.Equal(t, int64(4), got.StaffCount)
}

func TestDashboard_SummaryAggregateFailure(t *testing.T) {
	orders := newFakeOrders()
	orders.aggErr = domain.Errorf(domain.EINTERNAL, "db gone")
	d := NewDashboard(orders, newFakeUsers(), &fakeNotes{}, newFakeStatsCache())

	_, err := d.Summary(context.Background())

	require.Error(t, err)
	assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
}

func TestDashboard_ActivityClampsLimit(t *testing.T) {
	notes := &fakeNotes{recent: make([]domain.Notification, 30)}
	for i := range notes.recent {
		notes.recent[i] = domain.Notification{ID: "n", Kind: domain.NotifyOrderCreated}
	}
	d := NewDashboard(newFakeOrders(), newFakeUsers(), notes, newFakeStatsCache())

	got, err := d.Activity(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, got, 20, "out-of-range limits fall back to the default page size")

	got, err = d.Activity(context.Background(), 500)
	require.NoError(t, err)
	assert.Len(t, got, 20)

	got, err = d.Activity(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}
