package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/user"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ttl = time.Hour

func created(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
}

func postWithKey(key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/clock-in", nil)
	req.Header.Set(IdempotencyHeader, key)
	return req.WithContext(WithIdentity(req.Context(), Identity{UserID: "user-1", Role: user.RoleEmployee}))
}

func TestIdempotency_FirstRequestIsCached(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	req := postWithKey("k1")
	cacheKey, lockKey := idempotencyKeys(req, "user-1", "k1")

	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(lockKey, "1", idempotencyLockTTL).SetVal(true)
	mock.ExpectSet(cacheKey, encodeCached(http.StatusCreated, "application/json", []byte(`{"ok":true}`)), ttl).SetVal("OK")
	mock.ExpectDel(lockKey).SetVal(1)

	calls := 0
	rec := httptest.NewRecorder()
	Idempotency(rdb, ttl)(created(&calls)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_ReplaysCachedResponse(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	req := postWithKey("k1")
	cacheKey, _ := idempotencyKeys(req, "user-1", "k1")

	mock.ExpectGet(cacheKey).SetVal(encodeCached(http.StatusCreated, "application/json", []byte(`{"ok":true}`)))

	calls := 0
	rec := httptest.NewRecorder()
	Idempotency(rdb, ttl)(created(&calls)).ServeHTTP(rec, req)

	assert.Equal(t, 0, calls)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "true", rec.Header().Get(ReplayedHeader))
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_InFlightDuplicate(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	req := postWithKey("k1")
	cacheKey, lockKey := idempotencyKeys(req, "user-1", "k1")

	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(lockKey, "1", idempotencyLockTTL).SetVal(false)

	calls := 0
	rec := httptest.NewRecorder()
	Idempotency(rdb, ttl)(created(&calls)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 0, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_FailuresAreNotCached(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	req := postWithKey("k1")
	cacheKey, lockKey := idempotencyKeys(req, "user-1", "k1")

	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(lockKey, "1", idempotencyLockTTL).SetVal(true)
	mock.ExpectDel(lockKey).SetVal(1)

	failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})
	rec := httptest.NewRecorder()
	Idempotency(rdb, ttl)(failing).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_Passthrough(t *testing.T) {
	calls := 0
	handler := Idempotency(nil, ttl)(created(&calls))
	handler.ServeHTTP(httptest.NewRecorder(), postWithKey("k1"))
	assert.Equal(t, 1, calls)

	rdb, mock := redismock.NewClientMock()
	handler = Idempotency(rdb, ttl)(created(&calls))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", nil))
	assert.Equal(t, 2, calls, "no key, no redis round trip")
	require.NoError(t, mock.ExpectationsWereMet())
}
