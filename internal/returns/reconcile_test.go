package returns

import (
	"testing"

	"github.com/angelmondragon/cellar-backend/pkg/db/models"
	"github.com/angelmondragon/cellar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cellar-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

func sale(qty int, price string) models.Transaction {
	return models.Transaction{
		ID:       "t1",
		Quantity: qty,
		Price:    decimal.RequireFromString(price),
		Type:     enums.TransactionTypeSale,
	}
}

func TestAvailabilityCountsApprovedOnly(t *testing.T) {
	requests := []models.ReturnRequest{
		{OriginalTransactionID: "t1", Quantity: 2, Status: enums.ReviewStatusApproved},
		{OriginalTransactionID: "t1", Quantity: 1, Status: enums.ReviewStatusPending},
		{OriginalTransactionID: "t1", Quantity: 1, Status: enums.ReviewStatusRejected},
		{OriginalTransactionID: "t2", Quantity: 4, Status: enums.ReviewStatusApproved},
	}
	got := AvailabilityFor(sale(5, "10"), requests)
	if got.Returned != 2 || got.Available != 3 || got.Purchased != 5 {
		t.Fatalf("unexpected availability %+v", got)
	}
}

func TestValidateLinked(t *testing.T) {
	approvedThree := []models.ReturnRequest{
		{OriginalTransactionID: "t1", Quantity: 3, Status: enums.ReviewStatusApproved},
	}

	if err := ValidateLinked(sale(5, "10"), nil, 3, nil); err != nil {
		t.Fatalf("first return of 3/5 should pass: %v", err)
	}

	err := ValidateLinked(sale(5, "10"), approvedThree, 3, nil)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := "Cannot return 3 items. Only 2 items available for return from this transaction (5 originally purchased, 3 already returned)"
	if msg := pkgerrors.As(err).Message(); msg != want {
		t.Fatalf("unexpected message %q", msg)
	}

	if err := ValidateLinked(sale(5, "10"), approvedThree, 2, nil); err != nil {
		t.Fatalf("returning the remaining 2 should pass: %v", err)
	}

	ret := sale(-2, "5")
	ret.Type = enums.TransactionTypeReturn
	if err := ValidateLinked(ret, nil, 1, nil); err == nil {
		t.Fatal("return of a return must fail")
	}
}

func TestValidateLinkedRefundLimit(t *testing.T) {
	ok := decimal.RequireFromString("20.00")
	if err := ValidateLinked(sale(5, "10"), nil, 2, &ok); err != nil {
		t.Fatalf("refund equal to limit should pass: %v", err)
	}

	over := decimal.RequireFromString("20.01")
	err := ValidateLinked(sale(5, "10"), nil, 2, &over)
	if err == nil {
		t.Fatal("expected refund limit error")
	}
	if msg := pkgerrors.As(err).Message(); msg != "Refund amount $20.01 exceeds maximum allowed $20.00 for 2 items" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestReversal(t *testing.T) {
	refund := decimal.RequireFromString("15")
	rr := models.ReturnRequest{
		ProductID:             "p1",
		ProductName:           "Gin",
		Quantity:              3,
		RefundAmount:          &refund,
		OriginalTransactionID: "t1",
	}
	tx := Reversal(rr)
	if tx.Quantity != -3 || !tx.TotalPrice.Equal(decimal.NewFromInt(-15)) || !tx.Price.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("unexpected reversal %+v", tx)
	}
	if !tx.IsReturn() || tx.OriginalTransactionID != "t1" {
		t.Fatalf("reversal must be a linked return, got %+v", tx)
	}

	rr.RefundAmount = nil
	tx = Reversal(rr)
	if !tx.TotalPrice.IsZero() || !tx.Price.IsZero() {
		t.Fatalf("no refund means zero amounts, got %+v", tx)
	}
}
