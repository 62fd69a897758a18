package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/casalabia/realtor-backend/internal/logger"
)

func rateLimitRouter(rl *RateLimiter, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/draft", func(c *gin.Context) {
		c.Set(ContextUserID, userID)
		c.Next()
	}, rl.Limit(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestRateLimiterBurst(t *testing.T) {
	rl := NewRateLimiter(3, logger.NewNop())
	router := rateLimitRouter(rl, uuid.New())

	statuses := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/draft", nil))
		statuses = append(statuses, rec.Code)
	}
	for i := 0; i < 3; i++ {
		if statuses[i] != http.StatusOK {
			t.Errorf("request %d status = %d, want 200", i, statuses[i])
		}
	}
	if statuses[3] != http.StatusTooManyRequests {
		t.Errorf("request 4 status = %d, want 429", statuses[3])
	}
}

func TestRateLimiterPerUser(t *testing.T) {
	rl := NewRateLimiter(1, logger.NewNop())
	first := rateLimitRouter(rl, uuid.New())
	second := rateLimitRouter(rl, uuid.New())

	rec := httptest.NewRecorder()
	first.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/draft", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("first user status = %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	first.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/draft", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("first user second request = %d, want 429", rec.Code)
	}

	// A different user has an untouched bucket.
	rec = httptest.NewRecorder()
	second.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/draft", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("second user status = %d, want 200", rec.Code)
	}
}

func TestRateLimiterRequiresAuth(t *testing.T) {
	rl := NewRateLimiter(5, logger.NewNop())
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/draft", rl.Limit(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/draft", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without auth context", rec.Code)
	}
}
