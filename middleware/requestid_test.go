package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func requestWithID(t *testing.T, cfg RequestIDConfig, upstream string) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var captured string
	r := gin.New()
	r.Use(RequestIDWithConfig(cfg))
	r.GET("/", func(c *gin.Context) {
		captured = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if upstream != "" {
		req.Header.Set("X-Request-ID", upstream)
	}
	r.ServeHTTP(w, req)
	return w, captured
}

func TestRequestID_Generated(t *testing.T) {
	w, captured := requestWithID(t, RequestIDConfig{}, "")

	header := w.Header().Get("X-Request-ID")
	if header == "" {
		t.Fatal("X-Request-ID header not set")
	}
	if header != captured {
		t.Errorf("header %q != context value %q", header, captured)
	}
	if _, err := uuid.Parse(header); err != nil {
		t.Errorf("request id %q is not a uuid: %v", header, err)
	}
}

func TestRequestID_UpstreamIgnoredByDefault(t *testing.T) {
	w, _ := requestWithID(t, RequestIDConfig{}, "upstream-id-123")

	if w.Header().Get("X-Request-ID") == "upstream-id-123" {
		t.Error("untrusted upstream id must not be reused")
	}
}

func TestRequestID_UpstreamTrusted(t *testing.T) {
	w, captured := requestWithID(t, RequestIDConfig{TrustUpstream: true}, "upstream-id-123")

	if w.Header().Get("X-Request-ID") != "upstream-id-123" {
		t.Errorf("header=%q; want upstream id reused", w.Header().Get("X-Request-ID"))
	}
	if captured != "upstream-id-123" {
		t.Errorf("context value=%q", captured)
	}
}

func TestRequestID_InvalidUpstreamReplaced(t *testing.T) {
	w, _ := requestWithID(t, RequestIDConfig{TrustUpstream: true}, "bad id with spaces!")

	header := w.Header().Get("X-Request-ID")
	if header == "bad id with spaces!" || header == "" {
		t.Errorf("header=%q; want freshly generated id", header)
	}
}

func TestGetRequestID_Unset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := GetRequestID(c); got != "" {
		t.Errorf("GetRequestID=%q; want empty", got)
	}
}
