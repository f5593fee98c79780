package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/coursegen-backend/internal/platform/ctxutil"
)

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var correlation string
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/x", func(c *gin.Context) {
		correlation = ctxutil.CorrelationID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if correlation != "req-123" || rec.Header().Get(HeaderRequestID) != "req-123" {
		t.Fatalf("request id: ctx=%q header=%q", correlation, rec.Header().Get(HeaderRequestID))
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if _, err := uuid.Parse(rec.Header().Get(HeaderRequestID)); err != nil {
		t.Fatalf("generated request id: got=%q", rec.Header().Get(HeaderRequestID))
	}
	if rec.Header().Get(HeaderTraceID) == "" {
		t.Fatalf("trace id header missing")
	}
}
