package http

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserLookup map[string]user.User

func (f fakeUserLookup) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func TestEventHandler_RejectsMissingOrInvalidToken(t *testing.T) {
	h := NewEventHandler(sse.NewHub(), newTestJWT(), fakeUserLookup{})

	rec := httptest.NewRecorder()
	h.Stream(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.Stream(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events?token=garbage", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEventHandler_StreamsEventsForEmployee(t *testing.T) {
	hub := sse.NewHub()
	jwtService := newTestJWT()
	empID := "emp-rina"
	users := fakeUserLookup{"user-rina": {ID: "user-rina", Role: user.RoleEmployee, EmployeeID: &empID}}

	srv := httptest.NewServer(http.HandlerFunc(NewEventHandler(hub, jwtService, users).Stream))
	defer srv.Close()

	token, _, err := jwtService.GenerateSSEToken("user-rina")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"?token="+token, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	readUntil := func(prefix string) string {
		for lines.Scan() {
			if strings.HasPrefix(lines.Text(), prefix) {
				return lines.Text()
			}
		}
		t.Fatalf("stream ended before %q", prefix)
		return ""
	}

	assert.Equal(t, "event: connected", readUntil("event: connected"))

	// The subscription is registered before the connected frame is written.
	delivered := hub.Publish(sse.Event{ID: "prop-1:1", Name: "proposal.approved", Data: map[string]string{"proposal_id": "prop-1"}}, sse.EmployeeKey(empID))
	assert.Equal(t, 1, delivered)
	hub.Publish(sse.Event{Name: "proposal.approved", Data: "not for rina"}, sse.EmployeeKey("emp-other"))

	assert.Equal(t, "event: proposal.approved", readUntil("event: "))
	assert.Contains(t, readUntil("data: "), `"proposal_id":"prop-1"`)
}
