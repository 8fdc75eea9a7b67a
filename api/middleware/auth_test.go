package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgAuth "github.com/angelmondragon/packfinderz-storefront/pkg/auth"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
)

const testSecret = "test-secret"

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(UserIDFromContext(r.Context()) + "|" + EmailFromContext(r.Context())))
	})
}

func TestOptionalAuthPassesGuests(t *testing.T) {
	h := OptionalAuth(testSecret, logger.Nop())(echoUser())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cart?guestId=g1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "|", w.Body.String())
}

func TestOptionalAuthSeedsClaims(t *testing.T) {
	token, err := pkgAuth.Mint(testSecret, TokenIssuer, time.Hour, time.Now(), pkgAuth.ShopperClaims{
		UserID: "user-1",
		Email:  "a@b.co",
	})
	require.NoError(t, err)

	h := OptionalAuth(testSecret, logger.Nop())(echoUser())
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1|a@b.co", w.Body.String())
}

func TestOptionalAuthRejectsForeignToken(t *testing.T) {
	token, err := pkgAuth.Mint("other-secret", TokenIssuer, time.Hour, time.Now(), pkgAuth.ShopperClaims{UserID: "user-1"})
	require.NoError(t, err)

	h := OptionalAuth(testSecret, logger.Nop())(echoUser())
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireUser(t *testing.T) {
	h := RequireUser(logger.Nop())(echoUser())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/myorders", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/orders/myorders", nil)
	req = req.WithContext(WithUserID(req.Context(), "user-1"))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecovererWritesInternalError(t *testing.T) {
	h := Recoverer(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequestIDEchoesHeader(t *testing.T) {
	h := RequestID(logger.Nop())(echoUser())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get(requestIDHeader))
}
