package ledger

import (
	"context"
	"fmt"

	"github.com/angelmondragon/cellar-backend/internal/authz"
	"github.com/angelmondragon/cellar-backend/internal/export"
	"github.com/angelmondragon/cellar-backend/internal/identity"
	"github.com/angelmondragon/cellar-backend/internal/notifications"
	"github.com/angelmondragon/cellar-backend/pkg/db/models"
	"github.com/angelmondragon/cellar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cellar-backend/pkg/errors"
)

const (
	opAddProductStatus    = "add_product_status"
	opUpdateProductStatus = "update_product_status"
	opEditProductStatus   = "edit_product_status"
)

func (s *service) AddProductStatus(ctx context.Context, input AddProductStatusInput) (*models.ProductStatus, error) {
	input.ProductID = sanitize(input.ProductID)

	var report models.ProductStatus
	err := s.mutate(ctx, opAddProductStatus, authz.PermissionAuthenticated, func(ctx context.Context, tx *txn, actor *identity.User) error {
		if err := validateInput(input); err != nil {
			return err
		}
		product, err := productFor(&tx.next, input.ProductID)
		if err != nil {
			return err
		}
		stock, found := stockFor(&tx.next, product.ID)
		if !found || stock.Quantity < input.Quantity {
			return pkgerrors.New(pkgerrors.CodeValidation, "Not enough stock available")
		}

		report = models.ProductStatus{
			ID:                 s.newID(),
			ProductID:          product.ID,
			ProductName:        product.Name,
			Type:               input.Type,
			Quantity:           input.Quantity,
			Notes:              input.Notes,
			ImageURL:           input.ImageURL,
			Status:             enums.ReviewStatusPending,
			ReportedBy:         actor.ID,
			ReportedByUsername: actor.Username,
			ReportedAt:         s.now(),
		}
		tx.productStatuses().put(report)

		s.logActivity(tx, actor, fmt.Sprintf("Reported %s product", input.Type), fmt.Sprintf("%s - %d units", product.Name, input.Quantity))
		s.notifyAll(tx, notifications.AdminRecipients(tx.next.users.values()),
			notifications.StatusReportTitle(input.Type),
			notifications.StatusReportMessage(actor.Username, input.Quantity, product.Name, input.Type), product.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// UpdateProductStatus records an admin decision on a pending report.
// Approval deducts the claimed units from stock without flooring at zero.
func (s *service) UpdateProductStatus(ctx context.Context, statusID string, decision Decision, reviewNotes string) (*models.ProductStatus, error) {
	input := reviewInput{ID: sanitize(statusID), Decision: decision}

	var report models.ProductStatus
	err := s.mutate(ctx, opUpdateProductStatus, authz.PermissionReview, func(ctx context.Context, tx *txn, actor *identity.User) error {
		if err := validateInput(input); err != nil {
			return err
		}
		var ok bool
		report, ok = tx.next.productStatuses.get(input.ID)
		if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Status not found")
		}
		if report.Status != enums.ReviewStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("Report is already %s", report.Status))
		}

		if decision == Approve {
			if stock, found := stockFor(&tx.next, report.ProductID); found {
				stock.Quantity -= report.Quantity
				tx.stocks().put(stock)
				if stock.Quantity < 0 {
					s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
						"product_id": report.ProductID,
						"quantity":   stock.Quantity,
					}), "approved report drove stock negative")
				}
			} else {
				s.logg.Warn(s.logg.WithProductID(ctx, report.ProductID), "approved report has no stock record to deduct from")
			}
		}

		reviewedAt := s.now()
		report.Status = decision
		report.ReviewNotes = reviewNotes
		report.ReviewedBy = actor.ID
		report.ReviewedByUsername = actor.Username
		report.ReviewedAt = &reviewedAt
		tx.productStatuses().put(report)

		action := "Approved"
		if decision == Reject {
			action = "Rejected"
		}
		s.logActivity(tx, actor, fmt.Sprintf("%s %s product", action, report.Type), fmt.Sprintf("%s - %d units", report.ProductName, report.Quantity))
		s.notify(tx, report.ReportedBy, notifications.StatusReviewTitle(decision),
			notifications.StatusReviewMessage(report.Type, report.ProductName, decision), report.ProductID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// EditProductStatus lets the reporter revise a rejected report, archiving
// the reviewed version and sending it back for review.
func (s *service) EditProductStatus(ctx context.Context, statusID, notes, imageURL string) (*models.ProductStatus, error) {
	statusID = sanitize(statusID)

	var report models.ProductStatus
	err := s.mutate(ctx, opEditProductStatus, authz.PermissionAuthenticated, func(ctx context.Context, tx *txn, actor *identity.User) error {
		var ok bool
		report, ok = tx.next.productStatuses.get(statusID)
		if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Status not found")
		}
		if report.ReportedBy != actor.ID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "You can only edit your own reports")
		}
		if report.Status != enums.ReviewStatusRejected {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "Only rejected reports can be edited")
		}

		now := s.now()
		history := make([]models.PreviousReport, 0, len(report.PreviousReports)+1)
		history = append(history, report.PreviousReports...)
		history = append(history, models.PreviousReport{
			Notes:       report.Notes,
			ImageURL:    report.ImageURL,
			ReviewNotes: report.ReviewNotes,
			Status:      report.Status,
			Timestamp:   now,
		})

		report.Notes = notes
		report.ImageURL = sanitize(imageURL)
		report.Status = enums.ReviewStatusPending
		report.EditedAt = &now
		report.PreviousReports = history
		tx.productStatuses().put(report)

		s.logActivity(tx, actor, "Edited product status report", fmt.Sprintf("%s - Updated report after rejection", report.ProductName))
		s.notifyAll(tx, notifications.AdminRecipients(tx.next.users.values()), notifications.TitleReportUpdated,
			notifications.StatusEditedMessage(actor.Username, report.Type, report.ProductName), report.ProductID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *service) ProductStatuses(ctx context.Context) []models.ProductStatus {
	var out []models.ProductStatus
	s.view(func(st *state) { out = st.productStatuses.values() })
	return out
}

// ExportProductStatusReport hands every report to sink as table rows.
func (s *service) ExportProductStatusReport(ctx context.Context, sink export.Sink) error {
	if sink == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "export sink required")
	}
	rows := export.RowsFromStatuses(s.ProductStatuses(ctx))
	if err := sink.WriteProductStatuses(ctx, rows); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to export product status report")
	}
	s.logg.Info(s.logg.WithField(ctx, "rows", len(rows)), "product status report exported")
	return nil
}
