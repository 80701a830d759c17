package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"

	"go-pfund/internal/domain"
)

func TestIdempotency_PassThroughWithoutKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb, redisMock := redismock.NewClientMock()

	r := gin.New()
	r.POST("/pay", Idempotency(rdb), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pay", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// no header, redis is never touched
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestIdempotency_FirstCallCachesResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb, redisMock := redismock.NewClientMock()

	r := gin.New()
	r.POST("/pay", func(c *gin.Context) {
		c.Set("user_id", "user-1")
	}, Idempotency(rdb), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "APPROVED"})
	})

	cacheKey := "idemp:/pay:user-1:key-123"
	lockKey := cacheKey + ":lock"
	body := `{"status":"APPROVED"}`

	redisMock.ExpectGet(cacheKey).RedisNil()
	redisMock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
	redisMock.ExpectSet(cacheKey, []byte(body), idempotencyTTL).SetVal("OK")
	redisMock.ExpectDel(lockKey).SetVal(1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pay", nil)
	req.Header.Set("Idempotency-Key", "key-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, body, w.Body.String())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestIdempotency_ReplaysCachedResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb, redisMock := redismock.NewClientMock()

	handlerCalls := 0
	r := gin.New()
	r.POST("/pay", func(c *gin.Context) {
		c.Set("user_id", "user-1")
	}, Idempotency(rdb), func(c *gin.Context) {
		handlerCalls++
		c.JSON(http.StatusOK, gin.H{"status": "APPROVED"})
	})

	cached := `{"status":"APPROVED"}`
	redisMock.ExpectGet("idemp:/pay:user-1:key-123").SetVal(cached)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pay", nil)
	req.Header.Set("Idempotency-Key", "key-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, cached, w.Body.String())
	assert.Zero(t, handlerCalls, "replay must not reach the handler")
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestIdempotency_DuplicateInFlight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb, redisMock := redismock.NewClientMock()

	r := gin.New()
	r.POST("/pay", func(c *gin.Context) {
		c.Set("user_id", "user-1")
	}, Idempotency(rdb), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "APPROVED"})
	})

	cacheKey := "idemp:/pay:user-1:key-123"
	redisMock.ExpectGet(cacheKey).RedisNil()
	redisMock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pay", nil)
	req.Header.Set("Idempotency-Key", "key-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "PROCESSING")
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

type stubEnforcer struct {
	allowed bool
	err     error
	last    domain.EnforceRequest
}

func (s *stubEnforcer) Enforce(req domain.EnforceRequest) (bool, error) {
	s.last = req
	return s.allowed, s.err
}

func TestRBACAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(enf *stubEnforcer, withAuth bool) *gin.Engine {
		r := gin.New()
		r.GET("/loans", func(c *gin.Context) {
			if withAuth {
				c.Set(string(ContextEmployeeID), "emp-1")
				c.Set(string(ContextRole), "OFFICER")
			}
		}, RBACAuthorize(enf, "loan", "review"), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
		return r
	}

	t.Run("allowed", func(t *testing.T) {
		enf := &stubEnforcer{allowed: true}
		w := httptest.NewRecorder()
		newRouter(enf, true).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/loans", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "loan", enf.last.Resource)
		assert.Equal(t, "review", enf.last.Action)
		assert.Equal(t, "OFFICER", enf.last.Role)
	})

	t.Run("denied", func(t *testing.T) {
		enf := &stubEnforcer{allowed: false}
		w := httptest.NewRecorder()
		newRouter(enf, true).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/loans", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "loan:review")
	})

	t.Run("missing auth context", func(t *testing.T) {
		enf := &stubEnforcer{allowed: true}
		w := httptest.NewRecorder()
		newRouter(enf, false).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/loans", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
