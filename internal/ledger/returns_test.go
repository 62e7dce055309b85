package ledger

import (
	"context"
	"testing"

	"github.com/angelmondragon/cellar-backend/internal/notifications"
	"github.com/angelmondragon/cellar-backend/pkg/db/models"
	"github.com/angelmondragon/cellar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cellar-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

func (f *fixture) requestReturn(productID, originalID string, qty int, refund string) (*models.ReturnRequest, error) {
	input := AddReturnRequestInput{
		ProductID:             productID,
		Quantity:              qty,
		Reason:                enums.ReturnReasonCustomerReturn,
		OriginalTransactionID: originalID,
	}
	if refund != "" {
		amount := money(refund)
		input.RefundAmount = &amount
	}
	return f.svc.AddReturnRequest(as(staffUser), input)
}

func TestLinkedReturnLifecycle(t *testing.T) {
	f := newFixture(t)
	p := f.product("Rioja")
	f.stock(p.ID, f.supplier().ID, 30, "8.00")
	sale := f.sell(p.ID, 5, "10.00")

	rr, err := f.requestReturn(p.ID, sale.ID, 3, "15.00")
	if err != nil {
		t.Fatalf("request return: %v", err)
	}
	if rr.Status != enums.ReviewStatusPending || rr.RefundAmount == nil {
		t.Fatalf("unexpected request %+v", rr)
	}
	adminInbox, _ := f.svc.Notifications(as(adminUser), false)
	if got := countTitle(adminInbox, notifications.TitleReturnSubmitted); got != 1 {
		t.Fatalf("expected admin notified of request, got %d", got)
	}

	approved, err := f.svc.UpdateReturnRequest(as(adminUser), rr.ID, Approve, "ok")
	if err != nil {
		t.Fatalf("approve return: %v", err)
	}
	if approved.Status != enums.ReviewStatusApproved || approved.ReviewedBy != adminUser.ID {
		t.Fatalf("unexpected review %+v", approved)
	}

	stock, _ := f.svc.StockByProductID(context.Background(), p.ID)
	if stock.Quantity != 28 {
		t.Fatalf("expected 25+3 units, got %d", stock.Quantity)
	}

	txs := f.svc.Transactions(context.Background())
	if len(txs) != 2 {
		t.Fatalf("expected sale and reversal, got %d", len(txs))
	}
	reversal := txs[1]
	if reversal.Type != enums.TransactionTypeReturn || reversal.Quantity != -3 {
		t.Fatalf("unexpected reversal %+v", reversal)
	}
	if !reversal.TotalPrice.Equal(money("-15")) || !reversal.Price.Equal(money("5")) {
		t.Fatalf("expected -15 total at 5 each, got %s at %s", reversal.TotalPrice, reversal.Price)
	}
	if reversal.OriginalTransactionID != sale.ID {
		t.Fatalf("expected link to %s, got %s", sale.ID, reversal.OriginalTransactionID)
	}

	staffInbox, _ := f.svc.Notifications(as(staffUser), false)
	if got := countTitle(staffInbox, "Return Request Approved"); got != 1 {
		t.Fatalf("expected requester notified, got %d", got)
	}

	_, err = f.requestReturn(p.ID, sale.ID, 3, "")
	requireCode(t, err, pkgerrors.CodeValidation)
	requireMessage(t, err, "Cannot return 3 items. Only 2 items available for return from this transaction (5 originally purchased, 3 already returned)")

	if _, err := f.requestReturn(p.ID, sale.ID, 2, ""); err != nil {
		t.Fatalf("expected remaining 2 units returnable: %v", err)
	}

	_, err = f.requestReturn(p.ID, reversal.ID, 1, "")
	requireMessage(t, err, "Cannot return items from a return transaction")
}

func TestDashboardSalesAmountIncludesRefunds(t *testing.T) {
	f := newFixture(t)
	p := f.product("Rioja")
	f.stock(p.ID, f.supplier().ID, 30, "8.00")
	sale := f.sell(p.ID, 5, "10.00")
	rr, err := f.requestReturn(p.ID, sale.ID, 1, "10")
	if err != nil {
		t.Fatalf("request return: %v", err)
	}
	if _, err := f.svc.UpdateReturnRequest(as(adminUser), rr.ID, Approve, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}

	stats := f.svc.DashboardStats(context.Background())
	if stats.TotalSalesToday != 1 {
		t.Fatalf("expected 1 sale today, got %d", stats.TotalSalesToday)
	}
	if !stats.TotalSalesAmount.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected 50-10=40, got %s", stats.TotalSalesAmount)
	}
}

func TestReturnRefundLimit(t *testing.T) {
	f := newFixture(t)
	p := f.product("Rioja")
	f.stock(p.ID, f.supplier().ID, 30, "8.00")
	sale := f.sell(p.ID, 5, "10.00")

	_, err := f.requestReturn(p.ID, sale.ID, 2, "20.01")
	requireCode(t, err, pkgerrors.CodeValidation)
	requireMessage(t, err, "Refund amount $20.01 exceeds maximum allowed $20.00 for 2 items")

	if _, err := f.requestReturn(p.ID, sale.ID, 2, "20"); err != nil {
		t.Fatalf("expected refund at the limit to pass: %v", err)
	}
}

func TestLinkedReturnChecks(t *testing.T) {
	f := newFixture(t)
	p := f.product("Rioja")
	other := f.product("Malbec")
	sup := f.supplier()
	f.stock(p.ID, sup.ID, 30, "8.00")
	sale := f.sell(p.ID, 5, "10.00")

	_, err := f.requestReturn(p.ID, "missing", 1, "")
	requireCode(t, err, pkgerrors.CodeNotFound)
	requireMessage(t, err, "Original transaction not found")

	_, err = f.requestReturn(other.ID, sale.ID, 1, "")
	requireMessage(t, err, "Original transaction is for a different product")

	_, err = f.requestReturn(p.ID, "", 0, "")
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestAvailabilityRecheckedAtApproval(t *testing.T) {
	f := newFixture(t)
	p := f.product("Rioja")
	f.stock(p.ID, f.supplier().ID, 30, "8.00")
	sale := f.sell(p.ID, 5, "10.00")

	first, err := f.requestReturn(p.ID, sale.ID, 4, "")
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := f.requestReturn(p.ID, sale.ID, 4, "")
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if _, err := f.svc.UpdateReturnRequest(as(adminUser), first.ID, Approve, ""); err != nil {
		t.Fatalf("approve first: %v", err)
	}

	_, err = f.svc.UpdateReturnRequest(as(adminUser), second.ID, Approve, "")
	requireCode(t, err, pkgerrors.CodeValidation)

	if _, err := f.svc.UpdateReturnRequest(as(adminUser), second.ID, Reject, "over limit"); err != nil {
		t.Fatalf("reject second: %v", err)
	}
}

func TestUnlinkedReturnWithoutRefund(t *testing.T) {
	f := newFixture(t)
	p := f.product("Rioja")
	f.stock(p.ID, f.supplier().ID, 8, "8.00")

	rr, err := f.requestReturn(p.ID, "", 5, "0")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if rr.RefundAmount != nil {
		t.Fatalf("expected zero refund not stored, got %s", rr.RefundAmount)
	}
	if _, err := f.svc.UpdateReturnRequest(as(adminUser), rr.ID, Approve, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}

	stock, _ := f.svc.StockByProductID(context.Background(), p.ID)
	if stock.Quantity != 13 {
		t.Fatalf("expected 13 units, got %d", stock.Quantity)
	}
	if got := countTitle(f.inbox(), notifications.TitleLowStock); got != 0 {
		t.Fatalf("expected low stock alerts purged once above threshold, got %d", got)
	}
	txs := f.svc.Transactions(context.Background())
	if len(txs) != 1 || !txs[0].TotalPrice.IsZero() || !txs[0].Price.IsZero() {
		t.Fatalf("expected zero-valued reversal, got %+v", txs)
	}
}

func TestApproveReturnWithoutStockRecordKeepsReversal(t *testing.T) {
	f := newFixture(t)
	p := f.product("Rioja")

	rr, err := f.requestReturn(p.ID, "", 2, "6")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	approved, err := f.svc.UpdateReturnRequest(as(adminUser), rr.ID, Approve, "")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != enums.ReviewStatusApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}

	if _, ok := f.svc.StockByProductID(context.Background(), p.ID); ok {
		t.Fatal("expected no stock record to be created")
	}
	txs := f.svc.Transactions(context.Background())
	if len(txs) != 1 || txs[0].Quantity != -2 || !txs[0].TotalPrice.Equal(money("-6")) {
		t.Fatalf("expected reversal of -2 units for -6, got %+v", txs)
	}
}

func TestRejectReturnLeavesStock(t *testing.T) {
	f := newFixture(t)
	p := f.product("Rioja")
	f.stock(p.ID, f.supplier().ID, 30, "8.00")
	rr, err := f.requestReturn(p.ID, "", 2, "")
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	_, err = f.svc.UpdateReturnRequest(as(staffUser), rr.ID, Reject, "")
	requireCode(t, err, pkgerrors.CodeForbidden)

	if _, err := f.svc.UpdateReturnRequest(as(adminUser), rr.ID, Reject, "no receipt"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	stock, _ := f.svc.StockByProductID(context.Background(), p.ID)
	if stock.Quantity != 30 {
		t.Fatalf("expected 30 units, got %d", stock.Quantity)
	}
	if len(f.svc.Transactions(context.Background())) != 0 {
		t.Fatalf("expected no reversal on reject")
	}
	staffInbox, _ := f.svc.Notifications(as(staffUser), false)
	if got := countTitle(staffInbox, "Return Request Rejected"); got != 1 {
		t.Fatalf("expected requester notified, got %d", got)
	}

	_, err = f.svc.UpdateReturnRequest(as(adminUser), rr.ID, Approve, "")
	requireMessage(t, err, "Return request is already rejected")
}

func TestReturnRequestReadsAreDetachedCopies(t *testing.T) {
	f := newFixture(t)
	p := f.product("Rioja")
	f.stock(p.ID, f.supplier().ID, 30, "8.00")
	sale := f.sell(p.ID, 5, "10.00")
	rr, err := f.requestReturn(p.ID, sale.ID, 2, "10")
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	*rr.RefundAmount = money("999")
	snap := f.svc.ReturnRequests(context.Background())
	*snap[0].RefundAmount = money("999")

	fresh := f.svc.ReturnRequests(context.Background())
	if !fresh[0].RefundAmount.Equal(money("10")) {
		t.Fatalf("expected stored refund 10, got %s", fresh[0].RefundAmount)
	}
}
