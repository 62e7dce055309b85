package ledger

import (
	"context"
	"fmt"

	"github.com/angelmondragon/cellar-backend/internal/authz"
	"github.com/angelmondragon/cellar-backend/internal/dashboard"
	"github.com/angelmondragon/cellar-backend/internal/identity"
	"github.com/angelmondragon/cellar-backend/pkg/db/models"
	"github.com/angelmondragon/cellar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cellar-backend/pkg/errors"
)

const opDeleteUser = "delete_user"

// DeleteUser removes a staff account. Admin accounts cannot be deleted.
func (s *service) DeleteUser(ctx context.Context, userID string) error {
	userID = sanitize(userID)
	return s.mutate(ctx, opDeleteUser, authz.PermissionManageUsers, func(ctx context.Context, tx *txn, actor *identity.User) error {
		target, ok := tx.next.users.get(userID)
		if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "User not found")
		}
		if target.Role == enums.RoleAdmin {
			return pkgerrors.New(pkgerrors.CodeValidation, "Cannot delete admin users")
		}
		tx.users().remove(userID)
		s.logActivity(tx, actor, "Deleted staff account", fmt.Sprintf("Deleted account: %s", target.Username))
		return nil
	})
}

func (s *service) Users(ctx context.Context) []models.User {
	var out []models.User
	s.view(func(st *state) { out = st.users.values() })
	return out
}

func (s *service) DashboardStats(ctx context.Context) dashboard.Stats {
	var stats dashboard.Stats
	s.view(func(st *state) {
		stats = dashboard.Compute(dashboard.Input{
			Products:     st.products.values(),
			Stocks:       st.stocks.values(),
			Transactions: st.transactions.values(),
			Users:        st.users.values(),
			Today:        s.today(),
			Threshold:    s.threshold,
		})
	})
	return stats
}
