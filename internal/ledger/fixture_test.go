package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/cellar-backend/internal/identity"
	"github.com/angelmondragon/cellar-backend/internal/storage"
	"github.com/angelmondragon/cellar-backend/pkg/clock"
	"github.com/angelmondragon/cellar-backend/pkg/config"
	"github.com/angelmondragon/cellar-backend/pkg/db/models"
	"github.com/angelmondragon/cellar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cellar-backend/pkg/errors"
	"github.com/angelmondragon/cellar-backend/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const seededUsers = `[
  {"id":"admin-1","username":"boss","role":"admin","email":"boss@cellar.test"},
  {"id":"staff-1","username":"ana","role":"staff","password":"secret","isActive":false},
  {"id":"staff-2","username":"ben","role":"staff"}
]`

var (
	adminUser = &identity.User{ID: "admin-1", Username: "boss", Role: enums.RoleAdmin}
	staffUser = &identity.User{ID: "staff-1", Username: "ana", Role: enums.RoleStaff}
	otherUser = &identity.User{ID: "staff-2", Username: "ben", Role: enums.RoleStaff}
)

// flakyStore wraps a MemoryStore and can be told to fail the next saves.
type flakyStore struct {
	*storage.MemoryStore
	mu      sync.Mutex
	failing bool
	batches []map[string][]byte
}

func (f *flakyStore) Save(ctx context.Context, blobs map[string][]byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("disk full")
	}
	f.batches = append(f.batches, blobs)
	return f.MemoryStore.Save(ctx, blobs)
}

func (f *flakyStore) setFailing(v bool) {
	f.mu.Lock()
	f.failing = v
	f.mu.Unlock()
}

func (f *flakyStore) lastBatch() map[string][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.batches) == 0 {
		return nil
	}
	return f.batches[len(f.batches)-1]
}

type fixture struct {
	t     *testing.T
	svc   Service
	store *flakyStore
	clock *clock.FakeClock
}

type fixtureOption func(*Params)

func withStrictMatching() fixtureOption {
	return func(p *Params) { p.Config.StrictProductMatch = true }
}

func withMetrics(reg *prometheus.Registry) fixtureOption {
	return func(p *Params) { p.Metrics = metrics.NewLedgerMetrics(reg) }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	store := &flakyStore{MemoryStore: storage.NewMemoryStore(map[string][]byte{
		storage.KeyUsers: []byte(seededUsers),
	})}
	fake := clock.Fake(time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC))

	var seq int
	var seqMu sync.Mutex
	p := Params{
		Store:    store,
		Identity: identity.ContextProvider{},
		Clock:    fake,
		Config:   config.LedgerConfig{LowStockThreshold: 10},
		NewID: func() string {
			seqMu.Lock()
			defer seqMu.Unlock()
			seq++
			return fmt.Sprintf("id-%03d", seq)
		},
	}
	for _, opt := range opts {
		opt(&p)
	}

	svc, err := NewService(context.Background(), p)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	store.batches = nil
	return &fixture{t: t, svc: svc, store: store, clock: fake}
}

func as(user *identity.User) context.Context {
	return identity.WithUser(context.Background(), user)
}

func money(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func (f *fixture) product(name string) *models.Product {
	f.t.Helper()
	p, err := f.svc.AddProduct(as(staffUser), name, "")
	if err != nil {
		f.t.Fatalf("add product %s: %v", name, err)
	}
	return p
}

func (f *fixture) supplier() *models.Supplier {
	f.t.Helper()
	s, err := f.svc.AddSupplier(as(adminUser), "Vinos SA", "09171234567")
	if err != nil {
		f.t.Fatalf("add supplier: %v", err)
	}
	return s
}

func (f *fixture) stock(productID, supplierID string, qty int, price string) *models.Stock {
	f.t.Helper()
	st, err := f.svc.AddStock(as(staffUser), AddStockInput{
		ProductID:  productID,
		SupplierID: supplierID,
		Quantity:   qty,
		Price:      money(price),
		DateAdded:  "2026-06-15",
		ExpiryDate: "2027-06-15",
	})
	if err != nil {
		f.t.Fatalf("add stock: %v", err)
	}
	return st
}

func (f *fixture) sell(productID string, qty int, price string) *models.Transaction {
	f.t.Helper()
	tx, err := f.svc.AddTransaction(as(staffUser), productID, qty, money(price))
	if err != nil {
		f.t.Fatalf("sell: %v", err)
	}
	return tx
}

// inbox returns every notification regardless of recipient.
func (f *fixture) inbox() []models.Notification {
	f.t.Helper()
	var all []models.Notification
	for _, u := range []*identity.User{adminUser, staffUser, otherUser} {
		list, err := f.svc.Notifications(as(u), false)
		if err != nil {
			f.t.Fatalf("notifications: %v", err)
		}
		all = append(all, list...)
	}
	return all
}

func countTitle(list []models.Notification, title string) int {
	n := 0
	for _, item := range list {
		if item.Title == title {
			n++
		}
	}
	return n
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if !pkgerrors.IsCode(err, code) {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func requireMessage(t *testing.T, err error, msg string) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Message() != msg {
		t.Fatalf("expected message %q, got %q", msg, typed.Message())
	}
}
