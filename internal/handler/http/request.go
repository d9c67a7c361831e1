package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/proposal"
	"github.com/cmlabs-hris/presensi-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/presensi-backend-go/internal/handler/http/response"
)

// caller writes 401 and returns false when no identity is attached.
func caller(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return middleware.Identity{}, false
	}
	return id, true
}

func actorOf(id middleware.Identity) proposal.Actor {
	return proposal.Actor{
		EmployeeID: id.EmployeeID,
		NIK:        id.EmployeeNIK,
		Role:       id.Role,
	}
}

func queryInt(r *http.Request, key string) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

func queryString(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}
