package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/promptsheet-backend/internal/platform/ctxutil"
	"github.com/yungbote/promptsheet-backend/internal/platform/logger"
)

func authRouter(t *testing.T, secret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	r := gin.New()
	r.Use(NewAuthMiddleware(log, secret, "local").RequireAuth())
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.GetUserID(c.Request.Context()))
	})
	return r
}

func sign(t *testing.T, secret, sub string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func get(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthValidToken(t *testing.T) {
	r := authRouter(t, "s3cret")
	rec := get(r, "Bearer "+sign(t, "s3cret", "user-42", time.Now().Add(time.Hour)))
	if rec.Code != http.StatusOK || rec.Body.String() != "user-42" {
		t.Fatalf("status=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestAuthRejects(t *testing.T) {
	r := authRouter(t, "s3cret")
	cases := map[string]string{
		"missing":      "",
		"wrong secret": "Bearer " + sign(t, "other", "user-42", time.Now().Add(time.Hour)),
		"expired":      "Bearer " + sign(t, "s3cret", "user-42", time.Now().Add(-time.Hour)),
		"no subject":   "Bearer " + sign(t, "s3cret", "", time.Now().Add(time.Hour)),
	}
	for name, header := range cases {
		if rec := get(r, header); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status=%d", name, rec.Code)
		}
	}
}

func TestAuthAnonymousWithoutSecret(t *testing.T) {
	r := authRouter(t, "")
	rec := get(r, "")
	if rec.Code != http.StatusOK || rec.Body.String() != "local" {
		t.Fatalf("status=%d body=%q", rec.Code, rec.Body.String())
	}
}
