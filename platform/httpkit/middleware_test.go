package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type testJWTConfig struct{}

func (testJWTConfig) GetJWTAccessSecret() string { return "test-secret" }

func newAuthEngine(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	group := engine.Group("/", AuthRequired(testJWTConfig{}), RequireRole(roles...))
	group.GET("/whoami", func(c *gin.Context) {
		actor, _ := ActorFromContext(c.Request.Context())
		c.String(http.StatusOK, actor.Name)
	})
	return engine
}

func TestAuthRequiredAcceptsSignedToken(t *testing.T) {
	token, err := SignAccessToken(testJWTConfig{}, Actor{ID: "u-1", Name: "Sara", Roles: []string{RoleBroker}}, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	newAuthEngine(RoleBroker).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "Sara" {
		t.Fatalf("expected actor name in body, got %q", rec.Body.String())
	}
}

func TestAuthRequiredRejectsMissingAndBadTokens(t *testing.T) {
	engine := newAuthEngine(RoleBroker)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with garbage token, got %d", rec.Code)
	}
}

func TestRequireRoleForbidsOtherRoles(t *testing.T) {
	token, err := SignAccessToken(testJWTConfig{}, Actor{ID: "u-2", Name: "Omar", Roles: []string{RoleBuyer}}, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	newAuthEngine(RoleBroker).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for buyer on broker route, got %d", rec.Code)
	}
}
