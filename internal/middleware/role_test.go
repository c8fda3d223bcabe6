package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "testsecret"

func signTestToken(t *testing.T, userID uint64, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func buildTestApp() *echo.Echo {
	e := echo.New()
	g := e.Group("/v1/owner", JWTAuth(testSecret), RequireRole("OWNER"))
	g.GET("/properties", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return e
}

func TestOwnerRoutesRBAC(t *testing.T) {
	e := buildTestApp()

	// no token -> 401
	req := httptest.NewRequest(http.MethodGet, "/v1/owner/properties", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}

	// tenant token -> 403
	req = httptest.NewRequest(http.MethodGet, "/v1/owner/properties", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 7, "TENANT"))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("tenant token: status = %d, want 403", rec.Code)
	}

	// garbage token -> 401
	req = httptest.NewRequest(http.MethodGet, "/v1/owner/properties", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status = %d, want 401", rec.Code)
	}

	// owner token -> 200
	req = httptest.NewRequest(http.MethodGet, "/v1/owner/properties", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 3, "OWNER"))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner token: status = %d, want 200", rec.Code)
	}
}

func TestCurrentUserID(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if got := currentUserID(c); got != "guest" {
		t.Errorf("unauthenticated: %q, want guest", got)
	}
	c.Set("user_id", float64(42)) // JWT numeric claims decode as float64
	if got := currentUserID(c); got != "42" {
		t.Errorf("float64 claim: %q, want 42", got)
	}
	c.Set("user_id", "abc")
	if got := currentUserID(c); got != "abc" {
		t.Errorf("string claim: %q, want abc", got)
	}
}
