package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "budgetly/internal/errors"
	"budgetly/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, method jwt.SigningMethod, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func setupAuthRouter(issuer string) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(testSecret, issuer))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(UserIDKey)})
	})
	return r
}

func doAuthRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := parseBody(t, rec)
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

func TestAuthMiddleware(t *testing.T) {
	valid := jwt.RegisteredClaims{
		Subject:   "user-123",
		Issuer:    "https://id.example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	t.Run("valid_token_sets_owner", func(t *testing.T) {
		rec := doAuthRequest(setupAuthRouter(""), "Bearer "+signToken(t, testSecret, jwt.SigningMethodHS256, valid))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		if got := parseBody(t, rec)["user_id"]; got != "user-123" {
			t.Errorf("user_id = %v, want user-123", got)
		}
	})

	t.Run("issuer_enforced", func(t *testing.T) {
		r := setupAuthRouter("https://other.example.com")
		rec := doAuthRequest(r, "Bearer "+signToken(t, testSecret, jwt.SigningMethodHS256, valid))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("issuer_matches", func(t *testing.T) {
		r := setupAuthRouter("https://id.example.com")
		rec := doAuthRequest(r, "Bearer "+signToken(t, testSecret, jwt.SigningMethodHS256, valid))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("missing_header", func(t *testing.T) {
		rec := doAuthRequest(setupAuthRouter(""), "")
		if rec.Code != http.StatusUnauthorized || errorCode(t, rec) != "UNAUTHORIZED" {
			t.Errorf("unexpected response %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("malformed_header", func(t *testing.T) {
		rec := doAuthRequest(setupAuthRouter(""), "Token abc")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("wrong_secret", func(t *testing.T) {
		rec := doAuthRequest(setupAuthRouter(""), "Bearer "+signToken(t, []byte("other"), jwt.SigningMethodHS256, valid))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("wrong_algorithm", func(t *testing.T) {
		rec := doAuthRequest(setupAuthRouter(""), "Bearer "+signToken(t, testSecret, jwt.SigningMethodHS512, valid))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("expired", func(t *testing.T) {
		expired := valid
		expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		rec := doAuthRequest(setupAuthRouter(""), "Bearer "+signToken(t, testSecret, jwt.SigningMethodHS256, expired))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("missing_subject", func(t *testing.T) {
		noSub := valid
		noSub.Subject = ""
		rec := doAuthRequest(setupAuthRouter(""), "Bearer "+signToken(t, testSecret, jwt.SigningMethodHS256, noSub))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) {
		_ = c.Error(apperrors.Wrap(apperrors.ErrAccountNotFound, errors.New("record not found")))
	})
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	tests := []struct {
		path       string
		wantStatus int
		wantCode   string
	}{
		{"/app", http.StatusNotFound, "ACCOUNT_NOT_FOUND"},
		{"/plain", http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"/ok", http.StatusOK, ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != tt.wantStatus {
			t.Errorf("%s: status = %d, want %d", tt.path, rec.Code, tt.wantStatus)
		}
		if tt.wantCode != "" {
			if got := errorCode(t, rec); got != tt.wantCode {
				t.Errorf("%s: code = %q, want %q", tt.path, got, tt.wantCode)
			}
		}
	}
}

func TestRequestLogging(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	t.Run("generates_request_id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))
		id := rec.Header().Get("X-Request-ID")
		if id == "" || id != rec.Body.String() {
			t.Errorf("expected request id header to match context, got %q and %q", id, rec.Body.String())
		}
	})

	t.Run("reuses_incoming_request_id", func(t *testing.T) {
		const incoming = "0191f3a4-7c2e-7b3a-9d4f-1a2b3c4d5e6f"
		req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
		req.Header.Set("X-Request-ID", incoming)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if got := rec.Header().Get("X-Request-ID"); got != incoming {
			t.Errorf("X-Request-ID = %q, want %q", got, incoming)
		}
	})

	t.Run("replaces_invalid_request_id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
		req.Header.Set("X-Request-ID", "not-a-uuid")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if got := rec.Header().Get("X-Request-ID"); got == "not-a-uuid" {
			t.Error("expected invalid request id to be replaced")
		}
	})
}
