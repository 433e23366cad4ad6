package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/feedguard/internal/modules/detection/detect"
	"github.com/mx-space/feedguard/internal/modules/health"
	"github.com/mx-space/feedguard/internal/modules/scanner"
	"github.com/mx-space/feedguard/internal/modules/settings"
	"github.com/mx-space/feedguard/internal/modules/status"
	"github.com/mx-space/feedguard/internal/pkg/response"
)

func (a *App) registerRoutes() {
	r := a.router

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.Error(c, http.StatusMethodNotAllowed, "method not allowed")
	})

	api := r.Group("/api/v1")

	var pinger health.Pinger
	if a.rc != nil {
		pinger = a.rc
	}
	health.RegisterRoutes(api, pinger, a.sched, a.authMW)

	detectSvc := detect.NewService(a.engine.Coordinator, a.engine.Bank, a.engine.Adapter, a.engine.Settings)
	detect.NewHandler(detectSvc).RegisterRoutes(api, a.authMW)

	scanSvc := scanner.NewService(a.engine.Coordinator, a.queue, a.logger)
	scanner.NewHandler(scanSvc).RegisterRoutes(api)

	status.NewHandler(a.monitor, a.sched).RegisterRoutes(api)
	settings.NewHandler(a.engine.Settings).RegisterRoutes(api, a.authMW)
}
