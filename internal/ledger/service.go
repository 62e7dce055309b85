package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/cellar-backend/internal/authz"
	"github.com/angelmondragon/cellar-backend/internal/dashboard"
	"github.com/angelmondragon/cellar-backend/internal/export"
	"github.com/angelmondragon/cellar-backend/internal/identity"
	"github.com/angelmondragon/cellar-backend/internal/notifications"
	"github.com/angelmondragon/cellar-backend/internal/storage"
	"github.com/angelmondragon/cellar-backend/pkg/clock"
	"github.com/angelmondragon/cellar-backend/pkg/config"
	"github.com/angelmondragon/cellar-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/cellar-backend/pkg/errors"
	"github.com/angelmondragon/cellar-backend/pkg/logger"
	"github.com/angelmondragon/cellar-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is the inventory ledger: every read and mutation of shop state.
type Service interface {
	AddProduct(ctx context.Context, name, imageURL string) (*models.Product, error)
	AddSupplier(ctx context.Context, name, contactNumber string) (*models.Supplier, error)
	AddStock(ctx context.Context, input AddStockInput) (*models.Stock, error)
	AddTransaction(ctx context.Context, productID string, quantity int, price decimal.Decimal) (*models.Transaction, error)

	AddProductStatus(ctx context.Context, input AddProductStatusInput) (*models.ProductStatus, error)
	UpdateProductStatus(ctx context.Context, statusID string, decision Decision, reviewNotes string) (*models.ProductStatus, error)
	EditProductStatus(ctx context.Context, statusID, notes, imageURL string) (*models.ProductStatus, error)

	AddReturnRequest(ctx context.Context, input AddReturnRequestInput) (*models.ReturnRequest, error)
	UpdateReturnRequest(ctx context.Context, requestID string, decision Decision, reviewNotes string) (*models.ReturnRequest, error)

	ClockIn(ctx context.Context, userID string) (*models.AttendanceRecord, error)
	ClockOut(ctx context.Context, userID string) (*models.AttendanceRecord, error)

	AddActivityLog(ctx context.Context, action, details string) (*models.ActivityLog, error)
	AddNotification(ctx context.Context, userID, title, message string) (*models.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID string) error
	MarkAllNotificationsRead(ctx context.Context) (int, error)
	Notifications(ctx context.Context, unreadOnly bool) ([]models.Notification, error)
	UnreadNotificationsCount(ctx context.Context) (int, error)

	DeleteUser(ctx context.Context, userID string) error

	DashboardStats(ctx context.Context) dashboard.Stats
	TodayTransactions(ctx context.Context) []models.Transaction
	TodayAttendance(ctx context.Context) []models.AttendanceRecord
	ActiveStaff(ctx context.Context) []models.User

	Products(ctx context.Context) []models.Product
	Product(ctx context.Context, id string) (*models.Product, bool)
	Suppliers(ctx context.Context) []models.Supplier
	Supplier(ctx context.Context, id string) (*models.Supplier, bool)
	Stocks(ctx context.Context) []models.Stock
	StockByProductID(ctx context.Context, productID string) (*models.Stock, bool)
	Transactions(ctx context.Context) []models.Transaction
	ProductStatuses(ctx context.Context) []models.ProductStatus
	ReturnRequests(ctx context.Context) []models.ReturnRequest
	ActivityLogs(ctx context.Context) []models.ActivityLog
	AttendanceRecords(ctx context.Context) []models.AttendanceRecord
	Users(ctx context.Context) []models.User

	ExportProductStatusReport(ctx context.Context, sink export.Sink) error
}

// Params wires the ledger's collaborators. Store and Identity are required.
type Params struct {
	Store    storage.Store
	Identity identity.Provider
	Clock    clock.Clock
	Logger   *logger.Logger
	Metrics  *metrics.LedgerMetrics
	Config   config.LedgerConfig
	NewID    func() string
}

type service struct {
	mu    sync.RWMutex
	state *state

	store     storage.Store
	identity  identity.Provider
	clock     clock.Clock
	logg      *logger.Logger
	metrics   *metrics.LedgerMetrics
	matcher   notifications.Matcher
	threshold int
	newID     func() string
}

// NewService loads every collection from the store and returns the ledger.
func NewService(ctx context.Context, p Params) (Service, error) {
	if p.Store == nil {
		return nil, fmt.Errorf("ledger store required")
	}
	if p.Identity == nil {
		return nil, fmt.Errorf("identity provider required")
	}
	if p.Config.LowStockThreshold < 0 {
		return nil, fmt.Errorf("low stock threshold cannot be negative")
	}
	if p.Clock == nil {
		p.Clock = clock.Real()
	}
	if p.Logger == nil {
		p.Logger = logger.Nop()
	}
	if p.NewID == nil {
		p.NewID = uuid.NewString
	}

	blobs, err := p.Store.Load(ctx, storage.Keys)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load ledger")
	}
	st, err := decodeState(blobs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stored ledger data is corrupt")
	}

	p.Logger.Info(p.Logger.WithFields(ctx, map[string]any{
		"products": st.products.len(),
		"stocks":   st.stocks.len(),
		"users":    st.users.len(),
	}), "ledger loaded")

	return &service{
		state:     st,
		store:     p.Store,
		identity:  p.Identity,
		clock:     p.Clock,
		logg:      p.Logger,
		metrics:   p.Metrics,
		matcher:   notifications.NewMatcher(p.Config.StrictProductMatch),
		threshold: p.Config.LowStockThreshold,
		newID:     p.NewID,
	}, nil
}

type mutation func(ctx context.Context, tx *txn, actor *identity.User) error

// mutate runs fn against a private view of the state under the write lock.
// Nothing becomes visible, in memory or in the store, unless fn succeeds and
// the dirty collections are saved.
func (s *service) mutate(ctx context.Context, op string, perm authz.Permission, fn mutation) error {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration(op, time.Since(start)) }()

	actor, _ := s.identity.CurrentUser(ctx)
	ctx = s.logg.WithOperation(ctx, op)
	if actor != nil {
		ctx = s.logg.WithActorRole(s.logg.WithUserID(ctx, actor.ID), string(actor.Role))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := authz.Check(actor, perm); err != nil {
		return s.fail(ctx, op, err)
	}

	tx := begin(s.state)
	if err := fn(ctx, tx, actor); err != nil {
		return s.fail(ctx, op, err)
	}

	blobs, err := tx.blobs()
	if err != nil {
		return s.fail(ctx, op, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to encode changes"))
	}
	if len(blobs) > 0 {
		if err := s.store.Save(ctx, blobs); err != nil {
			return s.fail(ctx, op, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to save changes"))
		}
	}

	s.state = &tx.next
	for title, n := range tx.emitted {
		s.metrics.AddNotifications(title, n)
	}
	s.metrics.IncSuccess(op)
	s.logg.Info(ctx, "ledger operation completed")
	return nil
}

func (s *service) fail(ctx context.Context, op string, err error) error {
	code := pkgerrors.CodeOf(err)
	s.metrics.IncFailure(op, string(code))

	switch code {
	case pkgerrors.CodeDependency, pkgerrors.CodeInternal:
		dump := pkgerrors.Dump(err)
		ctx = s.logg.WithFields(ctx, map[string]any{
			"error_code":  dump.Code,
			"error_chain": dump.Chain,
			"pg_code":     dump.PGCode,
			"pg_message":  dump.PGMessage,
		})
		s.logg.Error(ctx, "ledger operation failed", err)
	default:
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "ledger operation rejected")
	}
	return err
}

// view runs fn against the current published state under the read lock.
func (s *service) view(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

// viewAs is view for reads scoped to the acting user.
func (s *service) viewAs(ctx context.Context, fn func(st *state, actor *identity.User)) error {
	actor, _ := s.identity.CurrentUser(ctx)
	if err := authz.Check(actor, authz.PermissionAuthenticated); err != nil {
		return err
	}
	s.view(func(st *state) { fn(st, actor) })
	return nil
}

func (s *service) now() time.Time {
	return s.clock.Now().UTC()
}

func (s *service) today() string {
	return clock.Today(s.clock)
}
