// Package policy evaluates route-level access rules. Each rule is a pure
// predicate over the authenticated identity; routes attach an ordered list
// and evaluation short-circuits on the first denial, before any handler
// side effects.
package policy

import (
	commonerrors "github.com/zibbid/postboard/internal/common/errors"
	"github.com/zibbid/postboard/internal/common/jwtverify"
	userdomain "github.com/zibbid/postboard/internal/user/domain"
)

type Identity struct {
	ID   int64
	Role userdomain.Role
}

func IdentityFromClaims(claims jwtverify.Claims) Identity {
	return Identity{
		ID:   claims.UserID,
		Role: userdomain.Role(claims.Role),
	}
}

type Check func(Identity) error

// RequireRole allows identities whose role is in the given set.
func RequireRole(roles ...userdomain.Role) Check {
	return func(ident Identity) error {
		for _, role := range roles {
			if ident.Role == role {
				return nil
			}
		}
		return commonerrors.ErrForbidden
	}
}

// OwnerOrAdmin allows the resource owner and any admin.
func OwnerOrAdmin(ownerID int64) Check {
	return func(ident Identity) error {
		if ident.Role == userdomain.RoleAdmin || ident.ID == ownerID {
			return nil
		}
		return commonerrors.ErrForbidden
	}
}

// OwnerOnly allows exactly the resource owner, admins included in the
// denial.
func OwnerOnly(ownerID int64) Check {
	return func(ident Identity) error {
		if ident.ID == ownerID {
			return nil
		}
		return commonerrors.ErrForbidden
	}
}

func Evaluate(ident Identity, checks ...Check) error {
	for _, check := range checks {
		if err := check(ident); err != nil {
			return err
		}
	}
	return nil
}
