package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, method jwt.SigningMethod, claims jwt.Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestRequireAuth_ValidToken(t *testing.T) {
	r := newAuthRouter()

	var gotUser, gotRole string
	r.GET("/ping", RequireAuth(testSecret), func(c *gin.Context) {
		gotUser = c.GetString(CtxUserIDKey)
		gotRole = c.GetString(CtxRoleKey)
		c.Status(http.StatusOK)
	})

	tok := signToken(t, jwt.SigningMethodHS256, Claims{
		Role: RoleEmployee,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "emp@example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if gotUser != "emp@example.com" {
		t.Errorf("user = %q", gotUser)
	}
	if gotRole != RoleEmployee {
		t.Errorf("role = %q", gotRole)
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	r := newAuthRouter()
	r.GET("/ping", RequireAuth(testSecret), func(c *gin.Context) { c.Status(http.StatusOK) })

	expired := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "emp@example.com", "role": RoleEmployee,
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	noSub := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"role": RoleEmployee, "exp": time.Now().Add(time.Hour).Unix(),
	})

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired", "Bearer " + expired},
		{"missing sub", "Bearer " + noSub},
	}
	for _, c := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if c.header != "" {
			req.Header.Set("Authorization", c.header)
		}
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", c.name, w.Code)
		}
	}
}

func TestRequireAuth_WrongAlgRejected(t *testing.T) {
	r := newAuthRouter()
	r.GET("/ping", RequireAuth(testSecret), func(c *gin.Context) { c.Status(http.StatusOK) })

	// HS384署名はHS256固定の検証で弾く
	tok := signToken(t, jwt.SigningMethodHS384, jwt.MapClaims{
		"sub": "emp@example.com", "exp": time.Now().Add(time.Hour).Unix(),
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	r := newAuthRouter()
	r.GET("/hr-only", RequireAuth(testSecret), RequireRole(RoleHR), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(role string) int {
		tok := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "x@example.com", "role": role,
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/hr-only", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		r.ServeHTTP(w, req)
		return w.Code
	}

	if got := do(RoleHR); got != http.StatusOK {
		t.Errorf("hr: status = %d, want 200", got)
	}
	if got := do(RoleEmployee); got != http.StatusForbidden {
		t.Errorf("employee: status = %d, want 403", got)
	}
	if got := do(""); got != http.StatusForbidden {
		t.Errorf("no role: status = %d, want 403", got)
	}
}
