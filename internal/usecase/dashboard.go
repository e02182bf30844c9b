package usecase

import (
	"context"
	"time"

	domain "github.com/gabzlaundry/gab/internal/entity"
	"github.com/gabzlaundry/gab/internal/logging"
)

// Dashboard derives the owner-facing aggregates: per-customer and per-staff
// folds over the order store joined with the user directory, a global
// summary, and the recent activity feed. Aggregates are cached so a busy
// dashboard does not hammer the store.
type Dashboard struct {
	orders OrderRepo
	users  UserDirectory
	notes  NotificationRepo
	cache  StatsCache
}

func NewDashboard(orders OrderRepo, users UserDirectory, notes NotificationRepo, cache StatsCache) *Dashboard {
	return &Dashboard{orders: orders, users: users, notes: notes, cache: cache}
}

type CustomerStats struct {
	CustomerID   string     `json:"customerId"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	OrderCount   int64      `json:"orderCount"`
	SpendKobo    int64      `json:"spendKobo"`
	SpendNaira   float64    `json:"spendNaira"`
	FirstOrderAt *time.Time `json:"firstOrderAt,omitempty"`
	LastOrderAt  *time.Time `json:"lastOrderAt,omitempty"`
}

type StaffStats struct {
	StaffID        string     `json:"staffId"`
	Name           string     `json:"name"`
	HandledCount   int64      `json:"handledCount"`
	CompletedCount int64      `json:"completedCount"`
	LastActivityAt *time.Time `json:"lastActivityAt,omitempty"`
}

type SummaryStats struct {
	OrdersByStatus map[string]int64 `json:"ordersByStatus"`
	RevenueKobo    int64            `json:"revenueKobo"`
	RevenueNaira   float64          `json:"revenueNaira"`
	CustomerCount  int64            `json:"customerCount"`
	StaffCount     int64            `json:"staffCount"`
}

func (d *Dashboard) CustomerStats(ctx context.Context, customerID string) (*CustomerStats, error) {
	if customerID == "" {
		return nil, domain.Errorf(domain.EINVALID, "customerId is required")
	}

	key := "stats:customer:" + customerID
	var cached CustomerStats
	if ok, _ := d.cache.Get(ctx, key, &cached); ok {
		return &cached, nil
	}

	profile, err := d.users.GetByID(ctx, customerID)
	if err != nil {
		return nil, domain.WrapError(err, domain.ENOTFOUND, collaboratorMessage(err, "customer not found"))
	}
	agg, err := d.orders.CustomerStats(ctx, customerID)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "could not aggregate customer orders")
	}

	stats := &CustomerStats{
		CustomerID:   customerID,
		Name:         profile.DisplayName(),
		Email:        profile.Email,
		OrderCount:   agg.OrderCount,
		SpendKobo:    agg.SpendKobo,
		SpendNaira:   domain.KoboToNaira(agg.SpendKobo),
		FirstOrderAt: agg.FirstOrderAt,
		LastOrderAt:  agg.LastOrderAt,
	}
	d.cacheSet(ctx, key, stats)
	return stats, nil
}

func (d *Dashboard) StaffStats(ctx context.Context, staffID string) (*StaffStats, error) {
	if staffID == "" {
		return nil, domain.Errorf(domain.EINVALID, "staffId is required")
	}

	key := "stats:staff:" + staffID
	var cached StaffStats
	if ok, _ := d.cache.Get(ctx, key, &cached); ok {
		return &cached, nil
	}

	profile, err := d.users.GetByID(ctx, staffID)
	if err != nil {
		return nil, domain.WrapError(err, domain.ENOTFOUND, collaboratorMessage(err, "staff member not found"))
	}
	if profile.Role == domain.RoleCustomer {
		return nil, domain.Errorf(domain.EINVALID, "user is not staff")
	}
	agg, err := d.orders.StaffStats(ctx, staffID)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "could not aggregate staff activity")
	}

	stats := &StaffStats{
		StaffID:        staffID,
		Name:           profile.DisplayName(),
		HandledCount:   agg.HandledCount,
		CompletedCount: agg.CompletedCount,
		LastActivityAt: agg.LastActivityAt,
	}
	d.cacheSet(ctx, key, stats)
	return stats, nil
}

func (d *Dashboard) Summary(ctx context.Context) (*SummaryStats, error) {
	const key = "stats:summary"
	var cached SummaryStats
	if ok, _ := d.cache.Get(ctx, key, &cached); ok {
		return &cached, nil
	}

	counts, err := d.orders.StatusCounts(ctx)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "could not count orders")
	}
	revenue, err := d.orders.RevenueKobo(ctx)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "could not total revenue")
	}
	customers, err := d.users.CountByRole(ctx, domain.RoleCustomer)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "could not count customers")
	}
	staff, err := d.users.CountByRole(ctx, domain.RoleStaff)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "could not count staff")
	}

	byStatus := make(map[string]int64, len(counts))
	for s, n := range counts {
		byStatus[string(s)] = n
	}
	stats := &SummaryStats{
		OrdersByStatus: byStatus,
		RevenueKobo:    revenue,
		RevenueNaira:   domain.KoboToNaira(revenue),
		CustomerCount:  customers,
		StaffCount:     staff,
	}
	d.cacheSet(ctx, key, stats)
	return stats, nil
}

func (d *Dashboard) Activity(ctx context.Context, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	notes, err := d.notes.ListRecent(ctx, limit)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "could not list activity")
	}
	return notes, nil
}

func (d *Dashboard) cacheSet(ctx context.Context, key string, val any) {
	if err := d.cache.Set(ctx, key, val); err != nil {
		logging.FromCtx(ctx).Warn("stats cache write failed", "key", key, "err", err)
	}
}
