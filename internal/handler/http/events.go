package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/sse"
)

// UserLookup resolves the account behind an SSE token.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type EventHandler interface {
	Stream(w http.ResponseWriter, r *http.Request)
}

type eventHandlerImpl struct {
	hub        *sse.Hub
	jwtService jwt.Service
	users      UserLookup
	keepalive  time.Duration
}

func NewEventHandler(hub *sse.Hub, jwtService jwt.Service, users UserLookup) EventHandler {
	return &eventHandlerImpl{
		hub:        hub,
		jwtService: jwtService,
		users:      users,
		keepalive:  30 * time.Second,
	}
}

// Stream pushes proposal lifecycle events concerning the caller.
// EventSource cannot send headers, so the SSE token comes in ?token=.
func (h *eventHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	account, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		slog.Warn("SSE token for unknown user", "user_id", userID, "error", err)
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	keys := []string{}
	if account.EmployeeID != nil {
		keys = append(keys, sse.EmployeeKey(*account.EmployeeID))
	}
	if account.Role.IsAdmin() {
		keys = append(keys, sse.AdminsKey)
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(keys...)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"user_id\":%q}\n\n", userID)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if _, err := event.WriteTo(w); err != nil {
				slog.Warn("SSE write failed", "user_id", userID, "error", err)
				return
			}
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, ": ping %d\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
