package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/feedguard/internal/pkg/cron"
	"github.com/mx-space/feedguard/internal/pkg/response"
)

// Pinger is satisfied by the redis client.
type Pinger interface {
	Ping(ctx context.Context) error
}

var processStart = time.Now()

// RegisterRoutes mounts liveness and, behind authMW, cron inspection.
// A nil pinger means redis is disabled.
func RegisterRoutes(rg *gin.RouterGroup, pinger Pinger, sched *cron.Scheduler, authMW gin.HandlerFunc) {
	rg.GET("/health", func(c *gin.Context) {
		redisState := "disabled"
		status := "ok"
		code := http.StatusOK
		if pinger != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			err := pinger.Ping(ctx)
			cancel()
			if err != nil {
				redisState = "error"
				status = "degraded"
				code = http.StatusServiceUnavailable
			} else {
				redisState = "ok"
			}
		}

		c.JSON(code, gin.H{
			"status":     status,
			"redis":      redisState,
			"uptime":     time.Since(processStart).Truncate(time.Second).String(),
			"goroutines": runtime.NumGoroutine(),
		})
	})

	cronGroup := rg.Group("/health/cron", authMW)
	cronGroup.GET("", func(c *gin.Context) {
		response.OK(c, sched.List())
	})
	cronGroup.POST("/:name", func(c *gin.Context) {
		name := c.Param("name")
		if _, err := sched.Get(name); err != nil {
			response.NotFound(c)
			return
		}
		if err := sched.Run(c.Request.Context(), name); err != nil {
			response.InternalError(c, err)
			return
		}
		item, _ := sched.Get(name)
		response.OK(c, item)
	})
}
