package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"imovia_backend/internal/matching/service"
	"imovia_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

func TestMinScoreOrDefault(t *testing.T) {
	zero := 0.0
	half := 0.5

	tests := []struct {
		name      string
		requested *float64
		want      float64
	}{
		{"absent falls back to default", nil, service.DefaultMinScore},
		{"explicit zero lists everything", &zero, 0},
		{"explicit value passes through", &half, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := minScoreOrDefault(tt.requested); got != tt.want {
				t.Errorf("minScoreOrDefault(%v) = %v, want %v", tt.requested, got, tt.want)
			}
		})
	}
}

func TestRunWeeklyMatchingUnavailableWithoutJobClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/matching/run-weekly-matching", strings.NewReader("{}"))
	c.Request.Header.Set("Content-Type", "application/json")

	h := New(nil, nil, validator.New())
	h.RunWeeklyMatching(c)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}
