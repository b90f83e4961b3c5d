package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-for-jwt-middleware"

func init() {
	gin.SetMode(gin.TestMode)
}

func generateTestToken(claims jwt.MapClaims, secret string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(secret))
	return tokenString
}

func setupTestRouter(config *JWTConfig) *gin.Engine {
	router := gin.New()
	router.Use(JWTMiddleware(config))
	router.GET("/protected", func(c *gin.Context) {
		tenantID, _ := GetTenantID(c)
		userID, _ := GetUserID(c)
		name, _ := GetName(c)
		c.JSON(http.StatusOK, gin.H{
			"tenant_id": tenantID,
			"user_id":   userID,
			"name":      name,
		})
	})
	router.GET("/skip", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "skipped"})
	})
	return router
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"tenant_id": "t1",
		"user_id":   "u1",
		"name":      "Ravi",
		"exp":       time.Now().Add(time.Hour).Unix(),
	}
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	router := setupTestRouter(&JWTConfig{Secret: testSecret})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(validClaims(), testSecret))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	router := setupTestRouter(&JWTConfig{Secret: testSecret})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestJWTMiddleware_WrongSecret(t *testing.T) {
	router := setupTestRouter(&JWTConfig{Secret: testSecret})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(validClaims(), "other-secret"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	router := setupTestRouter(&JWTConfig{Secret: testSecret})

	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(claims, testSecret))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestJWTMiddleware_MissingTenantClaim(t *testing.T) {
	router := setupTestRouter(&JWTConfig{Secret: testSecret})

	claims := validClaims()
	delete(claims, "tenant_id")
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(claims, testSecret))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestJWTMiddleware_SkipPath(t *testing.T) {
	router := setupTestRouter(&JWTConfig{Secret: testSecret, SkipPaths: []string{"/skip"}})

	req := httptest.NewRequest(http.MethodGet, "/skip", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestJWTMiddleware_RevokedToken(t *testing.T) {
	blacklist := NewMemoryTokenBlacklist()
	router := setupTestRouter(&JWTConfig{Secret: testSecret, Blacklist: blacklist})

	tokenString := generateTestToken(validClaims(), testSecret)
	if err := blacklist.Revoke(context.Background(), tokenString, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke() failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestMemoryTokenBlacklist_ExpiredRevocation(t *testing.T) {
	blacklist := NewMemoryTokenBlacklist()
	_ = blacklist.Revoke(context.Background(), "tok", time.Now().Add(-time.Minute))

	revoked, err := blacklist.IsRevoked(context.Background(), "tok")
	if err != nil {
		t.Fatalf("IsRevoked() failed: %v", err)
	}
	if revoked {
		t.Error("expired revocation should no longer apply")
	}
}
