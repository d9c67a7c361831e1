package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presensi-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// Identity is the authenticated caller taken from the access token.
type Identity struct {
	UserID      string
	Email       string
	EmployeeID  string
	EmployeeNIK string
	Role        user.Role
}

type identityKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the caller stored by AuthRequired.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			id := Identity{
				UserID:      stringClaim(claims, "user_id"),
				Email:       stringClaim(claims, "email"),
				EmployeeID:  stringClaim(claims, "employee_id"),
				EmployeeNIK: stringClaim(claims, "employee_nik"),
				Role:        user.Role(stringClaim(claims, "role")),
			}
			if id.UserID == "" || !id.Role.Valid() {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		}
		return http.HandlerFunc(hfn)
	}
}

// RequireEmployee rejects accounts without a linked employee record.
func RequireEmployee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok || id.EmployeeNIK == "" {
			response.Forbidden(w, "account is not linked to an employee")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func stringClaim(claims map[string]interface{}, key string) string {
	v, _ := claims[key].(string)
	return v
}
