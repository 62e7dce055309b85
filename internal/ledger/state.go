package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/cellar-backend/internal/storage"
	"github.com/angelmondragon/cellar-backend/pkg/db/models"
)

// state is one immutable snapshot of every collection. Mutations go through
// a txn and never touch a published state.
type state struct {
	products          *collection[models.Product]
	suppliers         *collection[models.Supplier]
	stocks            *collection[models.Stock]
	transactions      *collection[models.Transaction]
	productStatuses   *collection[models.ProductStatus]
	activityLogs      *collection[models.ActivityLog]
	notifications     *collection[models.Notification]
	returnRequests    *collection[models.ReturnRequest]
	attendanceRecords *collection[models.AttendanceRecord]
	users             *collection[models.User]
}

func decodeState(blobs map[string][]byte) (*state, error) {
	s := &state{}
	var err error
	if s.products, err = decode(blobs, storage.KeyProducts, func(p models.Product) string { return p.ID }, nil); err != nil {
		return nil, err
	}
	if s.suppliers, err = decode(blobs, storage.KeySuppliers, func(v models.Supplier) string { return v.ID }, nil); err != nil {
		return nil, err
	}
	if s.stocks, err = decode(blobs, storage.KeyStocks, func(v models.Stock) string { return v.ID }, nil); err != nil {
		return nil, err
	}
	if s.transactions, err = decode(blobs, storage.KeyTransactions, func(v models.Transaction) string { return v.ID }, nil); err != nil {
		return nil, err
	}
	if s.productStatuses, err = decode(blobs, storage.KeyProductStatuses, func(v models.ProductStatus) string { return v.ID }, models.ProductStatus.Clone); err != nil {
		return nil, err
	}
	if s.activityLogs, err = decode(blobs, storage.KeyActivityLogs, func(v models.ActivityLog) string { return v.ID }, nil); err != nil {
		return nil, err
	}
	if s.notifications, err = decode(blobs, storage.KeyNotifications, func(v models.Notification) string { return v.ID }, nil); err != nil {
		return nil, err
	}
	if s.returnRequests, err = decode(blobs, storage.KeyReturnRequests, func(v models.ReturnRequest) string { return v.ID }, models.ReturnRequest.Clone); err != nil {
		return nil, err
	}
	if s.attendanceRecords, err = decode(blobs, storage.KeyAttendanceRecords, func(v models.AttendanceRecord) string { return v.ID }, models.AttendanceRecord.Clone); err != nil {
		return nil, err
	}
	if s.users, err = decode(blobs, storage.KeyUsers, func(v models.User) string { return v.ID }, models.User.Clone); err != nil {
		return nil, err
	}
	return s, nil
}

func decode[T any](blobs map[string][]byte, key string, idOf func(T) string, copyOf func(T) T) (*collection[T], error) {
	var items []T
	if raw, ok := blobs[key]; ok && len(raw) > 0 {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
	}
	return newCollection(idOf, copyOf, items), nil
}

func (s *state) encode(key string) ([]byte, error) {
	var (
		raw []byte
		err error
	)
	switch key {
	case storage.KeyProducts:
		raw, err = json.Marshal(s.products.values())
	case storage.KeySuppliers:
		raw, err = json.Marshal(s.suppliers.values())
	case storage.KeyStocks:
		raw, err = json.Marshal(s.stocks.values())
	case storage.KeyTransactions:
		raw, err = json.Marshal(s.transactions.values())
	case storage.KeyProductStatuses:
		raw, err = json.Marshal(s.productStatuses.values())
	case storage.KeyActivityLogs:
		raw, err = json.Marshal(s.activityLogs.values())
	case storage.KeyNotifications:
		raw, err = json.Marshal(s.notifications.values())
	case storage.KeyReturnRequests:
		raw, err = json.Marshal(s.returnRequests.values())
	case storage.KeyAttendanceRecords:
		raw, err = json.Marshal(s.attendanceRecords.values())
	case storage.KeyUsers:
		raw, err = json.Marshal(s.users.values())
	default:
		return nil, fmt.Errorf("unknown collection %q", key)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}
	return raw, nil
}

// txn is a copy-on-write view over a base state. Collections are cloned on
// first write and only those are persisted.
type txn struct {
	next    state
	dirty   map[string]bool
	emitted map[string]int
}

func begin(base *state) *txn {
	return &txn{
		next:    *base,
		dirty:   map[string]bool{},
		emitted: map[string]int{},
	}
}

func mutable[T any](tx *txn, key string, slot **collection[T]) *collection[T] {
	if !tx.dirty[key] {
		*slot = (*slot).clone()
		tx.dirty[key] = true
	}
	return *slot
}

func (tx *txn) products() *collection[models.Product] {
	return mutable(tx, storage.KeyProducts, &tx.next.products)
}

func (tx *txn) suppliers() *collection[models.Supplier] {
	return mutable(tx, storage.KeySuppliers, &tx.next.suppliers)
}

func (tx *txn) stocks() *collection[models.Stock] {
	return mutable(tx, storage.KeyStocks, &tx.next.stocks)
}

func (tx *txn) transactions() *collection[models.Transaction] {
	return mutable(tx, storage.KeyTransactions, &tx.next.transactions)
}

func (tx *txn) productStatuses() *collection[models.ProductStatus] {
	return mutable(tx, storage.KeyProductStatuses, &tx.next.productStatuses)
}

func (tx *txn) activityLogs() *collection[models.ActivityLog] {
	return mutable(tx, storage.KeyActivityLogs, &tx.next.activityLogs)
}

func (tx *txn) notifications() *collection[models.Notification] {
	return mutable(tx, storage.KeyNotifications, &tx.next.notifications)
}

func (tx *txn) returnRequests() *collection[models.ReturnRequest] {
	return mutable(tx, storage.KeyReturnRequests, &tx.next.returnRequests)
}

func (tx *txn) attendanceRecords() *collection[models.AttendanceRecord] {
	return mutable(tx, storage.KeyAttendanceRecords, &tx.next.attendanceRecords)
}

func (tx *txn) users() *collection[models.User] {
	return mutable(tx, storage.KeyUsers, &tx.next.users)
}

// blobs encodes the dirty collections in key order.
func (tx *txn) blobs() (map[string][]byte, error) {
	out := make(map[string][]byte, len(tx.dirty))
	for _, key := range storage.Keys {
		if !tx.dirty[key] {
			continue
		}
		raw, err := tx.next.encode(key)
		if err != nil {
			return nil, err
		}
		out[key] = raw
	}
	return out, nil
}
