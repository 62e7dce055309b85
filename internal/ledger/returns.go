package ledger

import (
	"context"
	"fmt"

	"github.com/angelmondragon/cellar-backend/internal/authz"
	"github.com/angelmondragon/cellar-backend/internal/identity"
	"github.com/angelmondragon/cellar-backend/internal/notifications"
	"github.com/angelmondragon/cellar-backend/internal/returns"
	"github.com/angelmondragon/cellar-backend/pkg/db/models"
	"github.com/angelmondragon/cellar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cellar-backend/pkg/errors"
)

const (
	opAddReturnRequest    = "add_return_request"
	opUpdateReturnRequest = "update_return_request"
)

// checkLinkedReturn validates a return against the sale it references.
func checkLinkedReturn(st *state, rr models.ReturnRequest) error {
	original, ok := st.transactions.get(rr.OriginalTransactionID)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Original transaction not found")
	}
	if original.ProductID != rr.ProductID {
		return pkgerrors.New(pkgerrors.CodeValidation, "Original transaction is for a different product")
	}
	return returns.ValidateLinked(original, st.returnRequests.values(), rr.Quantity, rr.RefundAmount)
}

func (s *service) AddReturnRequest(ctx context.Context, input AddReturnRequestInput) (*models.ReturnRequest, error) {
	input.ProductID = sanitize(input.ProductID)
	input.OriginalTransactionID = sanitize(input.OriginalTransactionID)

	var request models.ReturnRequest
	err := s.mutate(ctx, opAddReturnRequest, authz.PermissionAuthenticated, func(ctx context.Context, tx *txn, actor *identity.User) error {
		if err := validateInput(input); err != nil {
			return err
		}
		product, err := productFor(&tx.next, input.ProductID)
		if err != nil {
			return err
		}

		request = models.ReturnRequest{
			ID:                    s.newID(),
			ProductID:             product.ID,
			ProductName:           product.Name,
			Quantity:              input.Quantity,
			Reason:                input.Reason,
			Notes:                 input.Notes,
			Status:                enums.ReviewStatusPending,
			RequestedBy:           actor.ID,
			RequestedByUsername:   actor.Username,
			RequestedAt:           s.now(),
			OriginalTransactionID: input.OriginalTransactionID,
		}
		if input.RefundAmount != nil && input.RefundAmount.IsPositive() {
			refund := *input.RefundAmount
			request.RefundAmount = &refund
		}

		if request.OriginalTransactionID != "" {
			if err := checkLinkedReturn(&tx.next, request); err != nil {
				return err
			}
		}
		tx.returnRequests().put(request)

		s.logActivity(tx, actor, "Submitted return request", fmt.Sprintf("%s - %d units (%s)", product.Name, request.Quantity, request.Reason))
		s.notifyAll(tx, notifications.AdminRecipients(tx.next.users.values()), notifications.TitleReturnSubmitted,
			notifications.ReturnSubmittedMessage(actor.Username, request.Quantity, product.Name), product.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// UpdateReturnRequest records an admin decision on a pending return.
// Approval puts the units back in stock and appends a reversal transaction.
func (s *service) UpdateReturnRequest(ctx context.Context, requestID string, decision Decision, reviewNotes string) (*models.ReturnRequest, error) {
	input := reviewInput{ID: sanitize(requestID), Decision: decision}

	var request models.ReturnRequest
	err := s.mutate(ctx, opUpdateReturnRequest, authz.PermissionReview, func(ctx context.Context, tx *txn, actor *identity.User) error {
		if err := validateInput(input); err != nil {
			return err
		}
		var ok bool
		request, ok = tx.next.returnRequests.get(input.ID)
		if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Return request not found")
		}
		if request.Status != enums.ReviewStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("Return request is already %s", request.Status))
		}

		if decision == Approve {
			if err := s.approveReturn(ctx, tx, actor, request); err != nil {
				return err
			}
		}

		reviewedAt := s.now()
		request.Status = decision
		request.ReviewNotes = reviewNotes
		request.ReviewedBy = actor.ID
		request.ReviewedByUsername = actor.Username
		request.ReviewedAt = &reviewedAt
		tx.returnRequests().put(request)

		if decision == Approve {
			s.logActivity(tx, actor, "Approved return request", fmt.Sprintf("%s - %d units returned, $%s deducted from sales",
				request.ProductName, request.Quantity, request.Refund().StringFixed(2)))
		} else {
			s.logActivity(tx, actor, "Rejected return request", fmt.Sprintf("%s - %d units", request.ProductName, request.Quantity))
		}
		s.notify(tx, request.RequestedBy, notifications.ReturnReviewTitle(decision),
			notifications.ReturnReviewMessage(request.ProductName, decision), request.ProductID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// approveReturn puts the units back and records the reversal. A product with
// no stock record gets the reversal only.
func (s *service) approveReturn(ctx context.Context, tx *txn, actor *identity.User, request models.ReturnRequest) error {
	if request.OriginalTransactionID != "" {
		if err := checkLinkedReturn(&tx.next, request); err != nil {
			return err
		}
	}

	if stock, found := stockFor(&tx.next, request.ProductID); found {
		stock.Quantity += request.Quantity
		tx.stocks().put(stock)

		if stock.Quantity > s.threshold {
			product, ok := tx.next.products.get(request.ProductID)
			if !ok {
				product = models.Product{ID: request.ProductID, Name: request.ProductName}
			}
			s.purgeLowStock(tx, product)
		}
	} else {
		s.logg.Warn(s.logg.WithProductID(ctx, request.ProductID), "approved return has no stock record to add back to")
	}

	reversal := returns.Reversal(request)
	reversal.ID = s.newID()
	reversal.Date = s.now()
	reversal.CreatedBy = actor.ID
	reversal.CreatedByUsername = actor.Username
	tx.transactions().put(reversal)
	return nil
}

func (s *service) ReturnRequests(ctx context.Context) []models.ReturnRequest {
	var out []models.ReturnRequest
	s.view(func(st *state) { out = st.returnRequests.values() })
	return out
}
