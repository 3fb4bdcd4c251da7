// SPDX-License-Identifier: AGPL-3.0-only
package web

import (
	"html/template"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// NewRouter wires every page and action route. templatesGlob comes
// from config so tests can point it at the repo's templates dir.
func NewRouter(h *Handler, templatesGlob string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	secret := h.Config.Server.SessionSecret
	if secret == "" {
		secret = "quill-dev-only-secret"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("quill_session", store))
	r.Use(SecurityHeadersMiddleware())
	r.Use(h.TrackViewMiddleware())

	r.SetFuncMap(template.FuncMap{
		// Post bodies arrive from the backend as sanitized HTML.
		"postBody": func(s string) template.HTML { return template.HTML(s) },
	})
	r.LoadHTMLGlob(templatesGlob)
	r.Static("/static", "./static")

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/", h.HomeHandler)
	r.GET("/u/:handle", h.ProfileHandler)
	r.GET("/u/:handle/:id", h.PostHandler)
	r.GET("/search", h.SearchHandler)

	r.GET("/login", h.LoginViewHandler)
	r.POST("/login", h.LoginSubmitHandler)
	r.GET("/register", h.RegisterViewHandler)
	r.POST("/register", h.RegisterSubmitHandler)
	r.POST("/logout", h.LogoutHandler)

	authed := r.Group("/", RequireLoginMiddleware())
	{
		authed.GET("/write", h.WriteViewHandler)
		authed.POST("/write", h.WriteSubmitHandler)
		authed.GET("/edit/:handle/:id", h.EditViewHandler)
		authed.POST("/edit/:id", h.EditSubmitHandler)
		authed.POST("/delete/:id", h.DeleteHandler)
		authed.POST("/like/:id", h.LikeHandler)
		authed.POST("/announce/:id", h.AnnounceHandler)
		authed.POST("/follow", h.FollowHandler)
		authed.GET("/follows", h.FollowsHandler)
		authed.GET("/settings", h.SettingsViewHandler)
		authed.POST("/settings", h.SettingsSubmitHandler)
	}

	return r
}
