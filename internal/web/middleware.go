// SPDX-License-Identifier: AGPL-3.0-only
package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
		c.Next()
	}
}

// RequireLoginMiddleware guards the pages that only make sense with a
// session.
func RequireLoginMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessionHandle(c) == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// TrackViewMiddleware enqueues a view hit for every rendered page. The
// hit rides the worker so rendering never waits on telemetry.
func (h *Handler) TrackViewMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if !h.Config.Features.TrackViews {
			return
		}
		if c.Request.Method != http.MethodGet {
			return
		}
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/static") || path == "/health" {
			return
		}

		client := h.apiClient(c)
		h.Worker.Enqueue(func(ctx context.Context) error {
			return client.TrackView(ctx, path)
		})
	}
}
