package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeSessions struct {
	sessions map[string]int64
}

func (f *fakeSessions) Create(ctx context.Context, userID int64) (string, error) {
	panic("not used")
}

func (f *fakeSessions) GetUserID(ctx context.Context, id string) (int64, bool) {
	userID, ok := f.sessions[id]
	return userID, ok
}

func (f *fakeSessions) Delete(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func newTestRouter(sessions Sessions) (*gin.Engine, *int64) {
	gin.SetMode(gin.TestMode)
	var seen int64
	r := gin.New()
	r.GET("/protected", RequireSession(sessions), func(c *gin.Context) {
		seen = UserIDFromContext(c)
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func TestRequireSessionNoCookie(t *testing.T) {
	r, seen := newTestRouter(&fakeSessions{sessions: map[string]int64{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, *seen)
}

func TestRequireSessionUnknownSession(t *testing.T) {
	r, seen := newTestRouter(&fakeSessions{sessions: map[string]int64{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "deadbeef"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, *seen)
}

func TestRequireSessionValid(t *testing.T) {
	r, seen := newTestRouter(&fakeSessions{sessions: map[string]int64{"abc": 42}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "abc"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(42), *seen)
}
