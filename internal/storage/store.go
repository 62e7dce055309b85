package storage

import "context"

// Collection keys as laid out in the blob store.
const (
	KeyProducts          = "products"
	KeySuppliers         = "suppliers"
	KeyStocks            = "stocks"
	KeyTransactions      = "transactions"
	KeyProductStatuses   = "productStatuses"
	KeyActivityLogs      = "activityLogs"
	KeyNotifications     = "notifications"
	KeyReturnRequests    = "returnRequests"
	KeyAttendanceRecords = "attendanceRecords"
	KeyUsers             = "users"
)

// Keys lists every collection the ledger loads at startup.
var Keys = []string{
	KeyProducts,
	KeySuppliers,
	KeyStocks,
	KeyTransactions,
	KeyProductStatuses,
	KeyActivityLogs,
	KeyNotifications,
	KeyReturnRequests,
	KeyAttendanceRecords,
	KeyUsers,
}

// Store is a key to JSON-blob mapping. Save writes the whole batch or nothing.
type Store interface {
	Load(ctx context.Context, keys []string) (map[string][]byte, error)
	Save(ctx context.Context, blobs map[string][]byte) error
}
