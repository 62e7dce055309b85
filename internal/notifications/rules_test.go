package notifications

import (
	"testing"

	"github.com/angelmondragon/cellar-backend/pkg/db/models"
	"github.com/angelmondragon/cellar-backend/pkg/enums"
)

func alert(id, user, title, msg, productID string, read bool) models.Notification {
	return models.Notification{ID: id, UserID: user, Title: title, Message: msg, ProductID: productID, Read: read}
}

func TestHasUnreadAlertSubstring(t *testing.T) {
	list := []models.Notification{
		alert("1", "u1", TitleLowStock, LowStockMessage("Merlot Reserve", 4), "p2", false),
		alert("2", "u1", TitleLowStock, LowStockMessage("Chablis", 2), "p3", true),
	}
	m := SubstringMatcher{}

	if !HasUnreadAlert(list, TitleLowStock, m, "p1", "Merlot") {
		t.Fatal("substring matcher should match 'Merlot' inside 'Merlot Reserve'")
	}
	if HasUnreadAlert(list, TitleLowStock, m, "p3", "Chablis") {
		t.Fatal("read alerts must not suppress new ones")
	}
	if HasUnreadAlert(list, TitleOutOfStock, m, "p2", "Merlot Reserve") {
		t.Fatal("title must match exactly")
	}
}

func TestProductIDMatcherAvoidsNameCollisions(t *testing.T) {
	list := []models.Notification{
		alert("1", "u1", TitleLowStock, LowStockMessage("Merlot Reserve", 4), "p2", false),
		alert("2", "u1", TitleLowStock, LowStockMessage("Rosé", 1), "", false),
	}
	m := NewMatcher(true)

	if HasUnreadAlert(list, TitleLowStock, m, "p1", "Merlot") {
		t.Fatal("strict matcher must not match another product's alert")
	}
	if !HasUnreadAlert(list, TitleLowStock, m, "p2", "Merlot Reserve") {
		t.Fatal("strict matcher should match by product id")
	}
	if !HasUnreadAlert(list, TitleLowStock, m, "p9", "Rosé") {
		t.Fatal("untagged alerts fall back to substring matching")
	}
}

func TestPurgeAlerts(t *testing.T) {
	list := []models.Notification{
		alert("1", "u1", TitleLowStock, LowStockMessage("Gin", 3), "p1", false),
		alert("2", "u2", TitleLowStock, LowStockMessage("Gin", 3), "p1", true),
		alert("3", "u1", TitleLowStock, LowStockMessage("Rum", 3), "p2", false),
		alert("4", "u1", TitleReplenished, ReplenishedMessage("Gin", 30), "p1", false),
	}

	kept, removed := PurgeAlerts(list, TitleLowStock, SubstringMatcher{}, "p1", "Gin")
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if len(kept) != 2 || kept[0].ID != "3" || kept[1].ID != "4" {
		t.Fatalf("unexpected kept set %+v", kept)
	}
	if len(list) != 4 {
		t.Fatal("input slice must not be modified")
	}
}

func TestRecipients(t *testing.T) {
	users := []models.User{
		{ID: "s1", Role: enums.RoleStaff},
		{ID: "a1", Role: enums.RoleAdmin},
		{ID: "a2", Role: enums.RoleAdmin},
	}
	if got := AllRecipients(users); len(got) != 3 || got[0] != "s1" {
		t.Fatalf("unexpected recipients %v", got)
	}
	if got := AdminRecipients(users); len(got) != 2 || got[0] != "a1" || got[1] != "a2" {
		t.Fatalf("unexpected admins %v", got)
	}
}

func TestMessages(t *testing.T) {
	cases := map[string]string{
		LowStockMessage("Gin", 5):                                                      "Gin is running low with only 5 units remaining. Consider restocking soon.",
		OutOfStockMessage("Gin"):                                                       "Gin is now out of stock. Immediate restocking required.",
		ReplenishedMessage("Gin", 25):                                                  "Gin has been restocked. New quantity: 25 units.",
		StatusReportTitle(enums.ConditionDamaged):                                      "New damaged Product Report",
		StatusReportMessage("ana", 2, "Gin", enums.ConditionExpired):                   "ana reported 2 units of Gin as expired",
		StatusEditedMessage("ana", enums.ConditionExpired, "Gin"):                      "ana has updated their expired product report for Gin",
		StatusReviewTitle(enums.ReviewStatusApproved):                                  "Report Approved",
		StatusReviewMessage(enums.ConditionDamaged, "Gin", enums.ReviewStatusRejected): "Your damaged product report for Gin has been rejected.",
		ReturnSubmittedMessage("ana", 3, "Gin"):                                        "ana submitted a return request for 3 units of Gin",
		ReturnReviewTitle(enums.ReviewStatusRejected):                                  "Return Request Rejected",
		ReturnReviewMessage("Gin", enums.ReviewStatusApproved):                         "Your return request for Gin has been approved. Items added back to stock and sales adjusted.",
		ReturnReviewMessage("Gin", enums.ReviewStatusRejected):                         "Your return request for Gin has been rejected.",
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("got %q want %q", got, want)
		}
	}
}
