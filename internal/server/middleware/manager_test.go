package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/patrickmn/go-cache"
	"github.com/shafwanhasyim/sikad-gg/internal/server/ratelimit"
	"github.com/shafwanhasyim/sikad-gg/internal/types"
	"github.com/stretchr/testify/assert"
)

const testAdminKey = "admin-0123456789abcdef"

type fakeKeys struct {
	mu      sync.Mutex
	keys    map[string]*types.APIKey
	lookups int
	err     error
}

func (f *fakeKeys) ValidateAPIKey(_ context.Context, key string) (*types.APIKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	return f.keys[key], nil
}

func (f *fakeKeys) UpdateKeyUsage(context.Context, string) error {
	return nil
}

func (f *fakeKeys) lookupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups
}

func newTestManager(keys *fakeKeys, authEnabled bool) *Manager {
	return NewManager(
		keys,
		cache.New(time.Minute, time.Minute),
		ratelimit.NewLimiter(),
		log.NewNopLogger(),
		Options{AdminKey: testAdminKey, AuthEnabled: authEnabled, FrontendURL: "http://localhost:3000"},
	)
}

func newTestRouter(m *Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(m.CORS())

	v1 := r.Group("/api/v1", m.Auth(), m.RateLimit())
	v1.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	admin := r.Group("/admin", m.Auth(), m.RateLimit(), m.Admin())
	admin.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func do(r http.Handler, method, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if key != "" {
		req.Header.Set(APIKeyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	keys := &fakeKeys{keys: map[string]*types.APIKey{
		"good":    {Key: "good", RateLimit: 100, WindowSeconds: 60},
		"expired": {Key: "expired", RateLimit: 100, WindowSeconds: 60, ExpiresAt: time.Now().Add(-time.Hour)},
	}}
	r := newTestRouter(newTestManager(keys, true))

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/ping", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/ping", "nope").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/ping", "expired").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/ping", "good").Code)
}

func TestAuthCachesKeys(t *testing.T) {
	keys := &fakeKeys{keys: map[string]*types.APIKey{
		"good": {Key: "good", RateLimit: 100, WindowSeconds: 60},
	}}
	r := newTestRouter(newTestManager(keys, true))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/ping", "good").Code)
	}
	assert.Equal(t, 1, keys.lookupCount())
}

func TestAuthStoreError(t *testing.T) {
	keys := &fakeKeys{err: errors.New("firestore unavailable")}
	r := newTestRouter(newTestManager(keys, true))

	w := do(r, http.MethodGet, "/api/v1/ping", "good")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "firestore")
}

func TestAuthDisabled(t *testing.T) {
	keys := &fakeKeys{}
	r := newTestRouter(newTestManager(keys, false))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/ping", "").Code)
	assert.Equal(t, 0, keys.lookupCount())

	// admin routes still need the admin key
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/admin/ping", "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/admin/ping", "someone").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/admin/ping", testAdminKey).Code)
}

func TestRateLimit(t *testing.T) {
	keys := &fakeKeys{keys: map[string]*types.APIKey{
		"small":      {Key: "small", RateLimit: 2, WindowSeconds: 60},
		testAdminKey: {Key: testAdminKey, Owner: types.AdminKeyDocID, IsAdmin: true},
	}}
	r := newTestRouter(newTestManager(keys, true))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/ping", "small").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/ping", "small").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "/api/v1/ping", "small").Code)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/ping", testAdminKey).Code)
	}
}

func TestAdmin(t *testing.T) {
	keys := &fakeKeys{keys: map[string]*types.APIKey{
		"user":       {Key: "user", RateLimit: 100, WindowSeconds: 60},
		"ops":        {Key: "ops", RateLimit: 100, WindowSeconds: 60, IsAdmin: true},
		testAdminKey: {Key: testAdminKey, Owner: types.AdminKeyDocID, IsAdmin: true},
	}}
	r := newTestRouter(newTestManager(keys, true))

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/admin/ping", "user").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/admin/ping", "ops").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/admin/ping", testAdminKey).Code)
}

func TestCORS(t *testing.T) {
	r := newTestRouter(newTestManager(&fakeKeys{}, false))

	w := do(r, http.MethodOptions, "/api/v1/ping", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(r, http.MethodGet, "/api/v1/ping", "")
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
