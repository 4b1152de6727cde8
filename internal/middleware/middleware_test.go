package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tokoria-be/internal/user"
	"tokoria-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("no token passes through anonymously", func(t *testing.T) {
		var sawUser bool
		h := Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, sawUser = utils.GetUserIDFromContext(r.Context())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, sawUser)
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		token, err := user.GenerateJWT(7, "USER", "buyer@example.com")
		require.NoError(t, err)

		var gotID uint
		h := Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotID, _ = utils.GetUserIDFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, uint(7), gotID)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		h := Authenticate(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAuth(t *testing.T) {
	t.Run("anonymous rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequireAuth(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("authenticated allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(utils.SetUserContext(req.Context(), 1, "buyer@example.com", "USER"))
		rec := httptest.NewRecorder()
		RequireAuth(okHandler()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Run("regular user forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(utils.SetUserContext(req.Context(), 1, "buyer@example.com", "USER"))
		rec := httptest.NewRecorder()
		RequireAdmin(okHandler()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(utils.SetUserContext(req.Context(), 9, "admin@example.com", "ADMIN"))
		rec := httptest.NewRecorder()
		RequireAdmin(okHandler()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRateLimit_StrictTierExhausts(t *testing.T) {
	h := RateLimit(okHandler())

	var last int
	for i := 0; i < burstStrict+1; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = "10.1.2.3:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		last = rec.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, last)
}
