package authz

import (
	"fmt"

	"github.com/angelmondragon/cellar-backend/internal/identity"
	"github.com/angelmondragon/cellar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cellar-backend/pkg/errors"
)

// Permission names one guarded ledger capability.
type Permission string

const (
	// PermissionAuthenticated allows any signed-in user.
	PermissionAuthenticated Permission = "authenticated"
	// PermissionReview covers approving/rejecting reports and returns.
	PermissionReview Permission = "review"
	// PermissionManageUsers covers deleting staff accounts.
	PermissionManageUsers Permission = "manage_users"
	// PermissionPublic needs no identity at all.
	PermissionPublic Permission = "public"
)

const (
	msgNotAuthenticated = "User not authenticated"
	msgUnauthorized     = "Unauthorized"
)

var anyRole = []enums.Role{enums.RoleAdmin, enums.RoleStaff}

var table = map[Permission][]enums.Role{
	PermissionAuthenticated: anyRole,
	PermissionReview:        {enums.RoleAdmin},
	PermissionManageUsers:   {enums.RoleAdmin},
}

// Check validates that user may exercise perm.
func Check(user *identity.User, perm Permission) error {
	if perm == PermissionPublic {
		return nil
	}
	allowed, ok := table[perm]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unknown permission %q", perm))
	}
	if user == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, msgNotAuthenticated)
	}
	for _, role := range allowed {
		if user.Role == role {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, msgUnauthorized)
}
