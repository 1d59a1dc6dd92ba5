package middleware

import (
	"net/http"

	"github.com/stockmasterhq/stockmaster-backend/api/responses"
	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
	pkgerrors "github.com/stockmasterhq/stockmaster-backend/pkg/errors"
	"github.com/stockmasterhq/stockmaster-backend/pkg/logger"
)

// Allowed is the single capability check: it reports whether role satisfies
// any of the required roles. Admin passes every check.
func Allowed(role enums.MemberRole, required ...enums.MemberRole) bool {
	if !role.IsValid() {
		return false
	}
	if role == enums.MemberRoleAdmin {
		return true
	}
	for _, candidate := range required {
		if role == candidate {
			return true
		}
	}
	return false
}

// RequireAnyRole guards a route with the capability check.
func RequireAnyRole(logg *logger.Logger, required ...enums.MemberRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := enums.ParseMemberRole(RoleFromContext(r.Context()))
			if err != nil || !Allowed(role, required...) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
