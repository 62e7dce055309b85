package ledger

import (
	"context"
	"strings"

	"github.com/angelmondragon/cellar-backend/internal/authz"
	"github.com/angelmondragon/cellar-backend/internal/identity"
	"github.com/angelmondragon/cellar-backend/internal/notifications"
	"github.com/angelmondragon/cellar-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/cellar-backend/pkg/errors"
)

const (
	opAddActivityLog  = "add_activity_log"
	opAddNotification = "add_notification"
	opMarkRead        = "mark_notification_read"
	opMarkAllRead     = "mark_all_notifications_read"
)

func (s *service) logActivity(tx *txn, actor *identity.User, action, details string) models.ActivityLog {
	entry := models.ActivityLog{
		ID:        s.newID(),
		UserID:    actor.ID,
		Username:  actor.Username,
		UserRole:  actor.Role,
		Action:    action,
		Details:   details,
		Timestamp: s.now(),
	}
	tx.activityLogs().put(entry)
	return entry
}

func (s *service) notify(tx *txn, userID, title, message, productID string) models.Notification {
	n := models.Notification{
		ID:        s.newID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		CreatedAt: s.now(),
		ProductID: productID,
	}
	tx.notifications().put(n)
	tx.emitted[title]++
	return n
}

func (s *service) notifyAll(tx *txn, recipients []string, title, message, productID string) {
	for _, id := range recipients {
		s.notify(tx, id, title, message, productID)
	}
}

func (s *service) AddActivityLog(ctx context.Context, action, details string) (*models.ActivityLog, error) {
	var entry models.ActivityLog
	err := s.mutate(ctx, opAddActivityLog, authz.PermissionAuthenticated, func(ctx context.Context, tx *txn, actor *identity.User) error {
		if strings.TrimSpace(action) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "action is required")
		}
		entry = s.logActivity(tx, actor, action, details)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *service) AddNotification(ctx context.Context, userID, title, message string) (*models.Notification, error) {
	var n models.Notification
	err := s.mutate(ctx, opAddNotification, authz.PermissionAuthenticated, func(ctx context.Context, tx *txn, _ *identity.User) error {
		if strings.TrimSpace(userID) == "" || strings.TrimSpace(title) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "recipient and title are required")
		}
		n = s.notify(tx, userID, title, message, "")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *service) MarkNotificationRead(ctx context.Context, notificationID string) error {
	return s.mutate(ctx, opMarkRead, authz.PermissionAuthenticated, func(ctx context.Context, tx *txn, actor *identity.User) error {
		n, ok := tx.next.notifications.get(notificationID)
		if !ok || n.UserID != actor.ID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Notification not found")
		}
		if n.Read {
			return nil
		}
		n.Read = true
		tx.notifications().put(n)
		return nil
	})
}

func (s *service) MarkAllNotificationsRead(ctx context.Context) (int, error) {
	var changed int
	err := s.mutate(ctx, opMarkAllRead, authz.PermissionAuthenticated, func(ctx context.Context, tx *txn, actor *identity.User) error {
		var updated []models.Notification
		updated, changed = notifications.MarkAllRead(tx.next.notifications.values(), actor.ID)
		if changed > 0 {
			tx.notifications().reset(updated)
		}
		return nil
	})
	return changed, err
}

func (s *service) Notifications(ctx context.Context, unreadOnly bool) ([]models.Notification, error) {
	var out []models.Notification
	err := s.viewAs(ctx, func(st *state, actor *identity.User) {
		out = notifications.ForUser(st.notifications.values(), actor.ID, unreadOnly)
	})
	return out, err
}

func (s *service) UnreadNotificationsCount(ctx context.Context) (int, error) {
	var n int
	err := s.viewAs(ctx, func(st *state, actor *identity.User) {
		n = notifications.UnreadCount(st.notifications.values(), actor.ID)
	})
	return n, err
}

func (s *service) ActivityLogs(ctx context.Context) []models.ActivityLog {
	var out []models.ActivityLog
	s.view(func(st *state) { out = st.activityLogs.values() })
	return out
}

// lowStockAlert notifies every user unless an unread alert already covers
// the product.
func (s *service) lowStockAlert(tx *txn, product models.Product, quantity int) {
	if notifications.HasUnreadAlert(tx.next.notifications.values(), notifications.TitleLowStock, s.matcher, product.ID, product.Name) {
		return
	}
	s.notifyAll(tx, notifications.AllRecipients(tx.next.users.values()), notifications.TitleLowStock,
		notifications.LowStockMessage(product.Name, quantity), product.ID)
}

// outOfStockAlert drops stale low-stock alerts then notifies every user.
func (s *service) outOfStockAlert(tx *txn, product models.Product) {
	s.purgeLowStock(tx, product)
	s.notifyAll(tx, notifications.AllRecipients(tx.next.users.values()), notifications.TitleOutOfStock,
		notifications.OutOfStockMessage(product.Name), product.ID)
}

func (s *service) purgeLowStock(tx *txn, product models.Product) {
	kept, removed := notifications.PurgeAlerts(tx.next.notifications.values(), notifications.TitleLowStock, s.matcher, product.ID, product.Name)
	if removed > 0 {
		tx.notifications().reset(kept)
	}
}
