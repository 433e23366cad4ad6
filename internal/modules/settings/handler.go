package settings

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/feedguard/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/settings", authMW)
	g.GET("", h.get)
	g.PATCH("", h.patch)
}

func (h *Handler) get(c *gin.Context) {
	response.OK(c, h.svc.Get().Masked())
}

func (h *Handler) patch(c *gin.Context) {
	var p Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if p.Empty() {
		response.BadRequest(c, "no settings to update")
		return
	}
	next, err := h.svc.Patch(c.Request.Context(), p)
	if err != nil {
		if errors.Is(err, ErrInvalidSettings) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, next.Masked())
}
