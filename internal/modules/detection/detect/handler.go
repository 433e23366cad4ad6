package detect

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/feedguard/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/detect", h.detect)
	rg.GET("/stats", h.stats)
	rg.GET("/lexicon", h.lexicon)
	rg.POST("/probe", authMW, h.probe)
}

func (h *Handler) detect(c *gin.Context) {
	var req DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.OK(c, h.svc.Detect(c.Request.Context(), req))
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, stats)
}

func (h *Handler) lexicon(c *gin.Context) {
	response.OK(c, h.svc.Lexicon())
}

// probe accepts an empty body, meaning "use the stored credentials".
func (h *Handler) probe(c *gin.Context) {
	var req ProbeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, err.Error())
		return
	}
	response.OK(c, h.svc.Probe(c.Request.Context(), req))
}
