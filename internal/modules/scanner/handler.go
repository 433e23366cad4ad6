package scanner

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/feedguard/internal/pkg/response"
)

const maxSnapshotBytes = 4 << 20

type scanRequest struct {
	HTML string `json:"html" binding:"required"`
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/scan", h.scan)
}

// scan accepts either a raw text/html body or {"html": "..."}.
func (h *Handler) scan(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSnapshotBytes)

	var body io.Reader
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req scanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		body = strings.NewReader(req.HTML)
	} else {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				response.Error(c, http.StatusRequestEntityTooLarge, "snapshot too large")
				return
			}
			response.BadRequest(c, err.Error())
			return
		}
		if len(strings.TrimSpace(string(raw))) == 0 {
			response.BadRequest(c, "empty snapshot")
			return
		}
		body = strings.NewReader(string(raw))
	}

	report, err := h.svc.Scan(c.Request.Context(), body)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, report)
}
