package dashboard

import (
	"github.com/angelmondragon/cellar-backend/pkg/clock"
	"github.com/angelmondragon/cellar-backend/pkg/db/models"
	"github.com/angelmondragon/cellar-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Stats is the read-side summary shown on the dashboard.
type Stats struct {
	TotalProducts    int             `json:"totalProducts"`
	TotalStock       int             `json:"totalStock"`
	LowStockItems    int             `json:"lowStockItems"`
	TotalSalesToday  int             `json:"totalSalesToday"`
	TotalSalesAmount decimal.Decimal `json:"totalSalesAmount"`
	ActiveStaff      int             `json:"activeStaff"`
	TotalStaff       int             `json:"totalStaff"`
}

// Input is a snapshot of the collections the stats read.
type Input struct {
	Products     []models.Product
	Stocks       []models.Stock
	Transactions []models.Transaction
	Users        []models.User
	Today        string
	Threshold    int
}

// Compute derives Stats. Low stock is strictly below the threshold here.
func Compute(in Input) Stats {
	stats := Stats{
		TotalProducts:    len(in.Products),
		TotalSalesAmount: decimal.Zero,
	}

	for _, s := range in.Stocks {
		stats.TotalStock += s.Quantity
		if s.Quantity < in.Threshold {
			stats.LowStockItems++
		}
	}

	for _, t := range TodayTransactions(in.Transactions, in.Today) {
		if !t.IsReturn() {
			stats.TotalSalesToday++
		}
		stats.TotalSalesAmount = stats.TotalSalesAmount.Add(t.TotalPrice)
	}

	for _, u := range in.Users {
		if u.Role != enums.RoleStaff {
			continue
		}
		stats.TotalStaff++
		if u.IsActive {
			stats.ActiveStaff++
		}
	}
	return stats
}

// TodayTransactions keeps sales and returns dated on day (UTC).
func TodayTransactions(list []models.Transaction, day string) []models.Transaction {
	out := make([]models.Transaction, 0)
	for _, t := range list {
		if clock.DateOf(t.Date) == day {
			out = append(out, t)
		}
	}
	return out
}

// ActiveStaff lists staff users currently clocked in.
func ActiveStaff(users []models.User) []models.User {
	out := make([]models.User, 0)
	for _, u := range users {
		if u.Role == enums.RoleStaff && u.IsActive {
			out = append(out, u)
		}
	}
	return out
}
