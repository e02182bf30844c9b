package usecase

import (
	"context"
	"encoding/json"
	"sync"

	domain "github.com/gabzlaundry/gab/internal/entity"
)

// In-memory collaborators with failure knobs. Each fake returns the same
// coded errors the real adapters do, so the flows under test see identical
// collaborator behavior.

type fakeOrders struct {
	mu      sync.Mutex
	byID    map[string]*domain.Order
	created []*domain.Order

	createErr error
	getErr    error
	updateErr error
	denyCAS   bool // UpdateStatusIf reports the row was not in the expected stage

	assigned map[string]string

	customerAgg  *OrderStats
	staffAgg     *StaffActivity
	statusCounts map[domain.Status]int64
	revenue      int64
	aggErr       error
}

var _ OrderRepo = (*fakeOrders)(nil)

func newFakeOrders(seed ...*domain.Order) *fakeOrders {
	f := &fakeOrders{byID: map[string]*domain.Order{}, assigned: map[string]string{}}
	for _, o := range seed {
		cp := *o
		f.byID[o.ID] = &cp
	}
	return f
}

func (f *fakeOrders) Create(ctx context.Context, o *domain.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *o
	f.byID[o.ID] = &cp
	f.created = append(f.created, &cp)
	return nil
}

func (f *fakeOrders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[id]
	if !ok {
		return nil, domain.Errorf(domain.ENOTFOUND, "order not found")
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) ListByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Order
	for _, o := range f.byID {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) ListByStatus(ctx context.Context, status domain.Status, limit int) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Order
	for _, o := range f.byID {
		if o.Status == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) UpdateStatusIf(ctx context.Context, id string, from, to domain.Status) (bool, error) {
	if f.updateErr != nil {
		return false, f.updateErr
	}
	if f.denyCAS {
		return false, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (f *fakeOrders) AssignStaff(ctx context.Context, orderID, staffID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assigned[orderID] = staffID
	if o, ok := f.byID[orderID]; ok {
		o.AssignedStaffID = staffID
	}
	return nil
}

func (f *fakeOrders) CustomerStats(ctx context.Context, customerID string) (*OrderStats, error) {
	if f.aggErr != nil {
		return nil, f.aggErr
	}
	if f.customerAgg == nil {
		return &OrderStats{}, nil
	}
	return f.customerAgg, nil
}

func (f *fakeOrders) StaffStats(ctx context.Context, staffID string) (*StaffActivity, error) {
	if f.aggErr != nil {
		return nil, f.aggErr
	}
	if f.staffAgg == nil {
		return &StaffActivity{}, nil
	}
	return f.staffAgg, nil
}

func (f *fakeOrders) StatusCounts(ctx context.Context) (map[domain.Status]int64, error) {
	if f.aggErr != nil {
		return nil, f.aggErr
	}
	return f.statusCounts, nil
}

func (f *fakeOrders) RevenueKobo(ctx context.Context) (int64, error) {
	if f.aggErr != nil {
		return 0, f.aggErr
	}
	return f.revenue, nil
}

type fakeUsers struct {
	byID map[string]*domain.User

	getErr    error
	customers int64
	staff     int64
}

var _ UserDirectory = (*fakeUsers)(nil)

func newFakeUsers(seed ...*domain.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*domain.User{}}
	for _, u := range seed {
		cp := *u
		f.byID[u.ID] = &cp
	}
	return f
}

func (f *fakeUsers) Create(ctx context.Context, u *domain.User) error {
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.Errorf(domain.ENOTFOUND, "user not found")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.Errorf(domain.ENOTFOUND, "user not found")
}

func (f *fakeUsers) ListByRole(ctx context.Context, role domain.Role, limit int) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.byID {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUsers) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	if role == domain.RoleCustomer {
		return f.customers, nil
	}
	return f.staff, nil
}

type fakeCatalog struct {
	byID map[string]*domain.Service
}

var _ ServiceRepo = (*fakeCatalog)(nil)

func newFakeCatalog(seed ...*domain.Service) *fakeCatalog {
	f := &fakeCatalog{byID: map[string]*domain.Service{}}
	for _, s := range seed {
		cp := *s
		f.byID[s.ID] = &cp
	}
	return f
}

func (f *fakeCatalog) Create(ctx context.Context, s *domain.Service) error {
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeCatalog) Update(ctx context.Context, s *domain.Service) error {
	if _, ok := f.byID[s.ID]; !ok {
		return domain.Errorf(domain.ENOTFOUND, "service not found")
	}
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeCatalog) Delete(ctx context.Context, id string) error {
	s, ok := f.byID[id]
	if !ok {
		return domain.Errorf(domain.ENOTFOUND, "service not found")
	}
	s.Active = false
	return nil
}

func (f *fakeCatalog) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, domain.Errorf(domain.ENOTFOUND, "service not found")
	}
	cp := *s
	return &cp, nil
}

func (f *fakeCatalog) List(ctx context.Context, activeOnly bool) ([]domain.Service, error) {
	var out []domain.Service
	for _, s := range f.byID {
		if activeOnly && !s.Active {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

type fakeNotes struct {
	inserted  []*domain.Notification
	recent    []domain.Notification
	insertErr error
	listErr   error
}

var _ NotificationRepo = (*fakeNotes)(nil)

func (f *fakeNotes) Insert(ctx context.Context, n *domain.Notification) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	cp := *n
	f.inserted = append(f.inserted, &cp)
	return nil
}

func (f *fakeNotes) ListRecent(ctx context.Context, limit int) ([]domain.Notification, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit < len(f.recent) {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

type fakeGateway struct {
	session  *PaymentSession
	initErr  error
	initReqs []PaymentRequest

	verification *PaymentVerification
	verifyErr    error
	verifiedRefs []string
}

var _ PaymentGateway = (*fakeGateway)(nil)

func (f *fakeGateway) Initialize(ctx context.Context, req PaymentRequest) (*PaymentSession, error) {
	f.initReqs = append(f.initReqs, req)
	if f.initErr != nil {
		return nil, f.initErr
	}
	return f.session, nil
}

func (f *fakeGateway) Verify(ctx context.Context, reference string) (*PaymentVerification, error) {
	f.verifiedRefs = append(f.verifiedRefs, reference)
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.verification, nil
}

type fakeStatusCache struct {
	statuses map[string]domain.Status
	setErr   error
}

var _ StatusCache = (*fakeStatusCache)(nil)

func newFakeStatusCache() *fakeStatusCache {
	return &fakeStatusCache{statuses: map[string]domain.Status{}}
}

func (f *fakeStatusCache) SetStatus(ctx context.Context, orderID string, status domain.Status) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.statuses[orderID] = status
	return nil
}

func (f *fakeStatusCache) GetStatus(ctx context.Context, orderID string) (domain.Status, bool, error) {
	s, ok := f.statuses[orderID]
	return s, ok, nil
}

type fakeStatsCache struct {
	blobs map[string][]byte
	gets  int
	sets  int
}

var _ StatsCache = (*fakeStatsCache)(nil)

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{blobs: map[string][]byte{}}
}

func (f *fakeStatsCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	f.gets++
	b, ok := f.blobs[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (f *fakeStatsCache) Set(ctx context.Context, key string, val any) error {
	f.sets++
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	f.blobs[key] = b
	return nil
}

type fakeIdem struct {
	locked  map[string]bool
	memory  map[string]string
	lockErr error
}

var _ IdempotencyStore = (*fakeIdem)(nil)

func newFakeIdem() *fakeIdem {
	return &fakeIdem{locked: map[string]bool{}, memory: map[string]string{}}
}

func (f *fakeIdem) TryLock(ctx context.Context, scope, key string) (bool, error) {
	if f.lockErr != nil {
		return false, f.lockErr
	}
	k := scope + "/" + key
	if f.locked[k] {
		return false, nil
	}
	f.locked[k] = true
	return true, nil
}

func (f *fakeIdem) Remember(ctx context.Context, scope, key, value string) error {
	f.memory[scope+"/"+key] = value
	return nil
}

func (f *fakeIdem) Recall(ctx context.Context, scope, key string) (string, bool, error) {
	v, ok := f.memory[scope+"/"+key]
	return v, ok, nil
}

type fakeEvents struct {
	created    []OrderCreatedMsg
	ready      []OrderReadyMsg
	createdErr error
	readyErr   error
}

var _ EventPublisher = (*fakeEvents)(nil)

func (f *fakeEvents) PublishOrderCreated(ctx context.Context, msg OrderCreatedMsg) error {
	if f.createdErr != nil {
		return f.createdErr
	}
	f.created = append(f.created, msg)
	return nil
}

func (f *fakeEvents) PublishOrderReady(ctx context.Context, msg OrderReadyMsg) error {
	if f.readyErr != nil {
		return f.readyErr
	}
	f.ready = append(f.ready, msg)
	return nil
}

// readyPickupOrder is the gate's happy-path order: READY, pay-on-pickup,
// NGN 5,000 stored as kobo.
func readyPickupOrder() *domain.Order {
	return &domain.Order{
		ID:            "ord-1",
		CustomerID:    "cus-1",
		Status:        domain.StatusReady,
		PaymentMethod: domain.PayOnPickup,
		AmountKobo:    500000,
		ItemsJSON:     `[]`,
	}
}

func testCustomer() *domain.User {
	return &domain.User{
		ID:        "cus-1",
		Email:     "ada@example.com",
		FirstName: "Ada",
		LastName:  "Obi",
		Phone:     domain.StructuredPhone("08012345678"),
		Role:      domain.RoleCustomer,
	}
}
