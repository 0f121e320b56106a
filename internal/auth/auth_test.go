package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	a := NewAuthenticator("test-secret-0123456789", "crime-insights")
	token, err := a.Issue(User{ID: "u-1", Email: "analyst@example.com"}, time.Hour)
	require.NoError(t, err)

	u, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, "analyst@example.com", u.Email)
}

func TestVerifyRejects(t *testing.T) {
	a := NewAuthenticator("test-secret-0123456789", "crime-insights")
	good, err := a.Issue(User{ID: "u-1"}, time.Hour)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewAuthenticator("another-secret-987654", "crime-insights")
		_, err := other.Verify(good)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewAuthenticator("test-secret-0123456789", "someone-else")
		_, err := other.Verify(good)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		a.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		old, err := a.Issue(User{ID: "u-1"}, time.Hour)
		a.now = time.Now
		require.NoError(t, err)
		_, err = a.Verify(old)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := a.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestMiddleware(t *testing.T) {
	a := NewAuthenticator("test-secret-0123456789", "crime-insights")
	var seen *User
	h := a.Middleware(func(w http.ResponseWriter, r *http.Request, err error) {
		http.Error(w, err.Error(), http.StatusUnauthorized)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserFromContext(r.Context())
	}))

	t.Run("anonymous", func(t *testing.T) {
		seen = &User{}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, seen)
	})

	t.Run("valid bearer", func(t *testing.T) {
		token, err := a.Issue(User{ID: "u-2"}, time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "u-2", seen.ID)
	})

	t.Run("bad scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic abc")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
