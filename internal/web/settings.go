// SPDX-License-Identifier: AGPL-3.0-only
package web

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quillfeed/quill/internal/c2s"
	"github.com/quillfeed/quill/internal/notify"
)

func (h *Handler) SettingsViewHandler(c *gin.Context) {
	view := h.asm(c).Settings(c.Request.Context())

	c.HTML(http.StatusOK, "settings.html", h.CommonData(c, gin.H{
		"title": "Settings",
		"view":  view,
	}))
}

func (h *Handler) SettingsSubmitHandler(c *gin.Context) {
	update := c2s.UserUpdate{
		DisplayName: c.PostForm("display_name"),
		Bio:         c.PostForm("bio"),
		CustomCSS:   c.PostForm("custom_css"),
	}

	session := sessions.Default(c)
	if err := h.apiClient(c).UpdateUser(c.Request.Context(), update); err != nil {
		h.Logger.Warn("profile update failed", zap.Error(err))
		session.AddFlash(notify.MessageForError(err))
	} else {
		session.AddFlash("Profile updated.")
	}
	session.Save()
	c.Redirect(http.StatusFound, "/settings")
}
