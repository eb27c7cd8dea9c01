package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

const pipelineKey = "scheduler-key"

// setupPipelineRouter returns a router guarding POST /rollover and a
// pointer to the number of requests that reached the handler.
func setupPipelineRouter(apiKey string) (*gin.Engine, *int) {
	reached := 0
	r := gin.New()
	r.Use(PipelineAuthMiddleware(apiKey))
	r.POST("/rollover", func(c *gin.Context) {
		reached++
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"processed": 0}})
	})
	return r, &reached
}

func doPipelineRequest(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/rollover", http.NoBody)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func TestPipelineAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		headers    map[string]string
		wantStatus int
		wantCode   string
	}{
		{"matching key", pipelineKey, map[string]string{"X-API-Key": pipelineKey}, http.StatusOK, ""},
		{"wrong key", pipelineKey, map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized, "INVALID_API_KEY"},
		{"prefix of key", pipelineKey, map[string]string{"X-API-Key": "scheduler"}, http.StatusUnauthorized, "INVALID_API_KEY"},
		{"no header", pipelineKey, nil, http.StatusUnauthorized, "INVALID_API_KEY"},
		{"bearer token instead of key", pipelineKey, map[string]string{"Authorization": "Bearer " + pipelineKey}, http.StatusUnauthorized, "INVALID_API_KEY"},
		{"not configured", "", map[string]string{"X-API-Key": pipelineKey}, http.StatusServiceUnavailable, "PIPELINE_NOT_CONFIGURED"},
		{"not configured without header", "", nil, http.StatusServiceUnavailable, "PIPELINE_NOT_CONFIGURED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, reached := setupPipelineRouter(tt.configured)
			rec := doPipelineRequest(router, tt.headers)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode == "" {
				if *reached != 1 {
					t.Errorf("expected the handler to run once, ran %d times", *reached)
				}
				return
			}
			if *reached != 0 {
				t.Error("expected the handler not to run for a rejected request")
			}
			if code := errorCode(t, rec); code != tt.wantCode {
				t.Errorf("error code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}
