package notifications

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/cellar-backend/pkg/db/models"
	"github.com/angelmondragon/cellar-backend/pkg/enums"
)

// Titles of notifications the ledger emits. Stock alerts are matched by title.
const (
	TitleLowStock        = "Low Stock Alert"
	TitleOutOfStock      = "Out of Stock Alert"
	TitleReplenished     = "Stock Replenished"
	TitleReportUpdated   = "Product Report Updated"
	TitleReturnSubmitted = "New Return Request"
)

// Matcher decides whether a notification concerns the given product.
type Matcher interface {
	Matches(n models.Notification, productID, productName string) bool
}

// SubstringMatcher matches when the product name appears in the message.
// A name that is a substring of another product's name matches both.
type SubstringMatcher struct{}

func (SubstringMatcher) Matches(n models.Notification, _ string, productName string) bool {
	return productName != "" && strings.Contains(n.Message, productName)
}

// ProductIDMatcher compares the structured product tag. Untagged records
// written before tagging existed fall back to substring matching.
type ProductIDMatcher struct{}

func (ProductIDMatcher) Matches(n models.Notification, productID, productName string) bool {
	if n.ProductID == "" {
		return SubstringMatcher{}.Matches(n, productID, productName)
	}
	return n.ProductID == productID
}

// NewMatcher picks the matcher for the configured strictness.
func NewMatcher(strict bool) Matcher {
	if strict {
		return ProductIDMatcher{}
	}
	return SubstringMatcher{}
}

// HasUnreadAlert reports whether an unread notification with title already
// exists for the product.
func HasUnreadAlert(list []models.Notification, title string, m Matcher, productID, productName string) bool {
	for _, n := range list {
		if !n.Read && n.Title == title && m.Matches(n, productID, productName) {
			return true
		}
	}
	return false
}

// PurgeAlerts drops every notification with title concerning the product,
// read or not. The input slice is left untouched.
func PurgeAlerts(list []models.Notification, title string, m Matcher, productID, productName string) ([]models.Notification, int) {
	kept := make([]models.Notification, 0, len(list))
	for _, n := range list {
		if n.Title == title && m.Matches(n, productID, productName) {
			continue
		}
		kept = append(kept, n)
	}
	return kept, len(list) - len(kept)
}

// AllRecipients returns every user id in collection order.
func AllRecipients(users []models.User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

// AdminRecipients returns admin user ids in collection order.
func AdminRecipients(users []models.User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		if u.Role == enums.RoleAdmin {
			ids = append(ids, u.ID)
		}
	}
	return ids
}

func LowStockMessage(productName string, quantity int) string {
	return fmt.Sprintf("%s is running low with only %d units remaining. Consider restocking soon.", productName, quantity)
}

func OutOfStockMessage(productName string) string {
	return fmt.Sprintf("%s is now out of stock. Immediate restocking required.", productName)
}

func ReplenishedMessage(productName string, quantity int) string {
	return fmt.Sprintf("%s has been restocked. New quantity: %d units.", productName, quantity)
}

func StatusReportTitle(kind enums.ConditionType) string {
	return fmt.Sprintf("New %s Product Report", kind)
}

func StatusReportMessage(username string, quantity int, productName string, kind enums.ConditionType) string {
	return fmt.Sprintf("%s reported %d units of %s as %s", username, quantity, productName, kind)
}

func StatusEditedMessage(username string, kind enums.ConditionType, productName string) string {
	return fmt.Sprintf("%s has updated their %s product report for %s", username, kind, productName)
}

// StatusReviewTitle is "Report Approved" or "Report Rejected".
func StatusReviewTitle(decision enums.ReviewStatus) string {
	return "Report " + decisionWord(decision)
}

func StatusReviewMessage(kind enums.ConditionType, productName string, decision enums.ReviewStatus) string {
	return fmt.Sprintf("Your %s product report for %s has been %s.", kind, productName, decision)
}

func ReturnSubmittedMessage(username string, quantity int, productName string) string {
	return fmt.Sprintf("%s submitted a return request for %d units of %s", username, quantity, productName)
}

// ReturnReviewTitle is "Return Request Approved" or "Return Request Rejected".
func ReturnReviewTitle(decision enums.ReviewStatus) string {
	return "Return Request " + decisionWord(decision)
}

func ReturnReviewMessage(productName string, decision enums.ReviewStatus) string {
	if decision == enums.ReviewStatusApproved {
		return fmt.Sprintf("Your return request for %s has been approved. Items added back to stock and sales adjusted.", productName)
	}
	return fmt.Sprintf("Your return request for %s has been rejected.", productName)
}

func decisionWord(decision enums.ReviewStatus) string {
	if decision == enums.ReviewStatusApproved {
		return "Approved"
	}
	return "Rejected"
}
