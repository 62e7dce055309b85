package notifications

import "github.com/angelmondragon/cellar-backend/pkg/db/models"

// ForUser returns the user's notifications, newest first.
func ForUser(list []models.Notification, userID string, unreadOnly bool) []models.Notification {
	out := make([]models.Notification, 0)
	for i := len(list) - 1; i >= 0; i-- {
		n := list[i]
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// UnreadCount counts the user's unread notifications.
func UnreadCount(list []models.Notification, userID string) int {
	count := 0
	for _, n := range list {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count
}

// MarkAllRead flips every unread notification of the user and returns the
// updated copy plus how many changed.
func MarkAllRead(list []models.Notification, userID string) ([]models.Notification, int) {
	out := make([]models.Notification, len(list))
	changed := 0
	for i, n := range list {
		if n.UserID == userID && !n.Read {
			n.Read = true
			changed++
		}
		out[i] = n
	}
	return out, changed
}
