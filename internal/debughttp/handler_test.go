package debughttp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mlba-team/xdispatch"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestPoolStatsAPI_Register(t *testing.T) {
	router := gin.New()
	NewPoolStatsAPI().Register(router)

	req := httptest.NewRequest(http.MethodGet, PoolStatsPath, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestPoolStatsAPI_GetPoolStatsReflectsSubmittedWork(t *testing.T) {
	q := xdispatch.CreateQueue("debughttp-pool-stats")
	done := make(chan struct{})
	q.Async(xdispatch.NewOperation(func() { close(done) }))
	<-done

	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodGet, PoolStatsPath, nil)

	NewPoolStatsAPI().GetPoolStats(c)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "tasksConsumed")
}
