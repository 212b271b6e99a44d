package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/your-org/gurukul-storefront/internal/domain/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestIsOriginAllowed(t *testing.T) {
	allowed := []string{"http://localhost:5173", "*.gurukulbakery.in"}

	assert.True(t, isOriginAllowed("http://localhost:5173", allowed))
	assert.True(t, isOriginAllowed("https://shop.gurukulbakery.in", allowed))
	assert.False(t, isOriginAllowed("https://evilgurukulbakery.in", allowed))
	assert.False(t, isOriginAllowed("http://localhost:3000", allowed))
	assert.True(t, isOriginAllowed("anything", []string{"*"}))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	const given = "6f1c2a9e-8d51-4a63-9d0e-7f2b4e1c3a55"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", given)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, given, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "not-a-uuid")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Body.String())
	assert.Len(t, rec.Body.String(), 36)
}

func TestRequestSizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(RequestSizeLimit(8))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestTimeoutSetsDeadline(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(time.Second))
	r.GET("/", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

type fixedSession struct{ identity *session.Identity }

func (f fixedSession) Identity(context.Context) (*session.Identity, bool) {
	return f.identity, f.identity != nil
}

func TestRequireSessionAndAdmin(t *testing.T) {
	tests := []struct {
		name     string
		identity *session.Identity
		want     int
	}{
		{"logged out", nil, http.StatusUnauthorized},
		{"customer", &session.Identity{UserID: "1", Role: "user"}, http.StatusForbidden},
		{"admin", &session.Identity{UserID: "2", Role: session.RoleAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(RequireSession(fixedSession{tt.identity}), RequireAdmin())
			r.GET("/", func(c *gin.Context) {
				id, ok := GetIdentity(c)
				assert.True(t, ok)
				c.String(http.StatusOK, id.UserID)
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
