package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/patrickmn/go-cache"
	"github.com/shafwanhasyim/sikad-gg/internal/server/ratelimit"
	"github.com/shafwanhasyim/sikad-gg/internal/types"
)

// APIKeyHeader is the request header carrying the caller's key.
const APIKeyHeader = "X-API-Key"

const apiKeyContextKey = "api_key"

// KeyStore is the part of the store the auth middleware needs.
type KeyStore interface {
	ValidateAPIKey(ctx context.Context, key string) (*types.APIKey, error)
	UpdateKeyUsage(ctx context.Context, docID string) error
}

// Options configures a Manager.
type Options struct {
	AdminKey    string
	AuthEnabled bool
	FrontendURL string
}

// Manager wires all HTTP middlewares with shared dependencies.
type Manager struct {
	keys        KeyStore
	apiKeyCache *cache.Cache
	rateLimiter *ratelimit.Limiter
	logger      log.Logger
	opts        Options
	now         func() time.Time
}

// NewManager builds a middleware manager for the HTTP server.
func NewManager(keys KeyStore, apiKeyCache *cache.Cache, limiter *ratelimit.Limiter, logger log.Logger, opts Options) *Manager {
	return &Manager{
		keys:        keys,
		apiKeyCache: apiKeyCache,
		rateLimiter: limiter,
		logger:      logger,
		opts:        opts,
		now:         time.Now,
	}
}

// CORS allows the configured frontend origin and answers preflight requests.
func (m *Manager) CORS() gin.HandlerFunc {
	origin := m.opts.FrontendURL
	if origin == "" {
		origin = "*"
	}

	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization, X-API-Key, X-Request-ID")
		if origin != "*" {
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Auth validates API keys and decorates the context with key metadata.
func (m *Manager) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.opts.AuthEnabled {
			c.Next()
			return
		}

		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			return
		}

		if cached, found := m.apiKeyCache.Get(key); found {
			apiKey, ok := cached.(*types.APIKey)
			if !ok {
				m.apiKeyCache.Delete(key)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
				return
			}
			m.accept(c, apiKey)
			return
		}

		apiKey, err := m.keys.ValidateAPIKey(c.Request.Context(), key)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			return
		}
		if apiKey == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}

		m.apiKeyCache.Set(key, apiKey, cache.DefaultExpiration)
		m.accept(c, apiKey)
	}
}

func (m *Manager) accept(c *gin.Context, apiKey *types.APIKey) {
	if apiKey.Expired(m.now()) {
		m.apiKeyCache.Delete(apiKey.Key)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key expired"})
		return
	}

	m.updateKeyUsageAsync(apiKey.DocID())
	c.Set(apiKeyContextKey, apiKey)
	c.Next()
}

// RateLimit enforces per-key request limits. Admin keys are not limited.
func (m *Manager) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.opts.AuthEnabled {
			c.Next()
			return
		}

		apiKey, ok := KeyFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "please provide an API key"})
			return
		}

		if !apiKey.IsAdmin && !m.rateLimiter.Allow(apiKey.Key, apiKey.RateLimit, apiKey.WindowSeconds) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}

// Admin restricts routes to the generated admin key or keys issued with
// admin rights. It applies even when auth is disabled for the data routes.
func (m *Manager) Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey, ok := KeyFromContext(c); ok && apiKey.IsAdmin {
			c.Next()
			return
		}

		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			return
		}

		if m.opts.AdminKey == "" || key != m.opts.AdminKey {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}

		c.Next()
	}
}

// KeyFromContext returns the key Auth attached to the request.
func KeyFromContext(c *gin.Context) (*types.APIKey, bool) {
	value, exists := c.Get(apiKeyContextKey)
	if !exists {
		return nil, false
	}
	apiKey, ok := value.(*types.APIKey)
	return apiKey, ok
}

func (m *Manager) updateKeyUsageAsync(docID string) {
	if docID == "" {
		return
	}

	go func(id string) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := m.keys.UpdateKeyUsage(ctx, id); err != nil {
			level.Warn(m.logger).Log("msg", "failed to update key usage", "key_doc", id, "err", err)
		}
	}(docID)
}
