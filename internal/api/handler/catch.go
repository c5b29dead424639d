package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/reqcatcher/internal/capture"
	"github.com/user/reqcatcher/internal/web"
	"go.uber.org/zap"
)

// CatchHandler records every inbound request and responds with the page
// listing the current captures.
type CatchHandler struct {
	log      *capture.BoundedLog
	renderer *web.Renderer
	logger   *zap.Logger
}

// NewCatchHandler creates a CatchHandler.
func NewCatchHandler(log *capture.BoundedLog, renderer *web.Renderer, logger *zap.Logger) *CatchHandler {
	return &CatchHandler{
		log:      log,
		renderer: renderer,
		logger:   logger,
	}
}

// Catch handles any method on any path: extract, prepend, render. The
// capture itself cannot fail, so every request gets a 200 page.
func (h *CatchHandler) Catch(c *gin.Context) {
	rec := capture.Extract(c.Request, c.Param("path"))
	h.log.Prepend(rec)

	data := web.PageData{
		BaseURL: baseURL(c.Request),
		Records: h.log.Snapshot(),
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.renderer.Render(c.Writer, data); err != nil {
		// The connection is likely gone; nothing to send the client.
		h.logger.Error("render page", zap.Error(err))
	}
}

// baseURL reconstructs the externally visible root URL of the service,
// honoring a forwarded scheme when running behind a proxy.
func baseURL(r *http.Request) string {
	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		if r.TLS != nil {
			scheme = "https"
		} else {
			scheme = "http"
		}
	}
	return scheme + "://" + r.Host + "/"
}
