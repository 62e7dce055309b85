package models

import (
	"time"

	"github.com/angelmondragon/cellar-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// ReturnRequest asks for units to be put back into stock, optionally linked
// to the sale they came from.
type ReturnRequest struct {
	ID                    string             `json:"id"`
	ProductID             string             `json:"productId"`
	ProductName           string             `json:"productName"`
	Quantity              int                `json:"quantity"`
	Reason                enums.ReturnReason `json:"reason"`
	Notes                 string             `json:"notes"`
	Status                enums.ReviewStatus `json:"status"`
	RequestedBy           string             `json:"requestedBy"`
	RequestedByUsername   string             `json:"requestedByUsername"`
	RequestedAt           time.Time          `json:"requestedAt"`
	OriginalTransactionID string             `json:"originalTransactionId,omitempty"`
	RefundAmount          *decimal.Decimal   `json:"refundAmount,omitempty"`
	ReviewNotes           string             `json:"reviewNotes,omitempty"`
	ReviewedBy            string             `json:"reviewedBy,omitempty"`
	ReviewedByUsername    string             `json:"reviewedByUsername,omitempty"`
	ReviewedAt            *time.Time         `json:"reviewedAt,omitempty"`
}

// Refund returns the refund amount, zero when unset.
func (r ReturnRequest) Refund() decimal.Decimal {
	if r.RefundAmount == nil {
		return decimal.Zero
	}
	return *r.RefundAmount
}

// Clone copies the request so the result shares no pointers with r.
func (r ReturnRequest) Clone() ReturnRequest {
	out := r
	if r.RefundAmount != nil {
		refund := *r.RefundAmount
		out.RefundAmount = &refund
	}
	out.ReviewedAt = cloneTime(r.ReviewedAt)
	return out
}
