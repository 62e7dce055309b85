package returns

import (
	"fmt"

	"github.com/angelmondragon/cellar-backend/pkg/db/models"
	"github.com/angelmondragon/cellar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cellar-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Availability summarizes how much of a sale can still be returned.
type Availability struct {
	Purchased int
	Returned  int
	Available int
}

// AvailabilityFor sums approved requests linked to the original transaction.
func AvailabilityFor(original models.Transaction, requests []models.ReturnRequest) Availability {
	returned := 0
	for _, rr := range requests {
		if rr.OriginalTransactionID == original.ID && rr.Status == enums.ReviewStatusApproved {
			returned += rr.Quantity
		}
	}
	return Availability{
		Purchased: original.Quantity,
		Returned:  returned,
		Available: original.Quantity - returned,
	}
}

// MaxRefund is the unit price of the sale times the returned quantity.
func MaxRefund(original models.Transaction, quantity int) decimal.Decimal {
	return original.Price.Mul(decimal.NewFromInt(int64(quantity)))
}

// ValidateLinked checks a return against the sale it references.
func ValidateLinked(original models.Transaction, requests []models.ReturnRequest, quantity int, refund *decimal.Decimal) error {
	if original.IsReturn() {
		return pkgerrors.New(pkgerrors.CodeValidation, "Cannot return items from a return transaction")
	}

	avail := AvailabilityFor(original, requests)
	if quantity > avail.Available {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf(
			"Cannot return %d items. Only %d items available for return from this transaction (%d originally purchased, %d already returned)",
			quantity, avail.Available, avail.Purchased, avail.Returned,
		)).WithDetails(avail)
	}

	if refund != nil && refund.IsPositive() {
		limit := MaxRefund(original, quantity)
		if refund.GreaterThan(limit) {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf(
				"Refund amount $%s exceeds maximum allowed $%s for %d items",
				refund.StringFixed(2), limit.StringFixed(2), quantity,
			))
		}
	}
	return nil
}

// Reversal builds the negative-valued transaction recorded when a return is
// approved. The caller fills identity, id and date.
func Reversal(rr models.ReturnRequest) models.Transaction {
	refund := rr.Refund()
	price := decimal.Zero
	if refund.IsPositive() && rr.Quantity > 0 {
		price = refund.Div(decimal.NewFromInt(int64(rr.Quantity)))
	}
	return models.Transaction{
		ProductID:             rr.ProductID,
		ProductName:           rr.ProductName,
		Quantity:              -rr.Quantity,
		Price:                 price,
		TotalPrice:            refund.Neg(),
		Type:                  enums.TransactionTypeReturn,
		OriginalTransactionID: rr.OriginalTransactionID,
	}
}
