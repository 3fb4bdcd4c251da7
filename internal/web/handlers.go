// SPDX-License-Identifier: AGPL-3.0-only

// Package web is the presentation shell: gin handlers that hand page
// view models to the templates and route widget actions to the
// optimistic controllers.
package web

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quillfeed/quill/internal/assembler"
	"github.com/quillfeed/quill/internal/c2s"
	"github.com/quillfeed/quill/internal/config"
	"github.com/quillfeed/quill/internal/feed"
	"github.com/quillfeed/quill/internal/notify"
	"github.com/quillfeed/quill/internal/worker"
)

type Handler struct {
	Client *c2s.Client
	Norm   *feed.Normalizer
	Config *config.AppConfig
	Worker *worker.Worker
	Logger *zap.Logger
}

func NewHandler(client *c2s.Client, norm *feed.Normalizer, cfg *config.AppConfig, w *worker.Worker, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Client: client,
		Norm:   norm,
		Config: cfg,
		Worker: w,
		Logger: logger,
	}
}

// apiClient returns the gateway authenticated as the session user.
// Liked/followed flags in feed payloads are viewer-relative, so even
// read paths go through it.
func (h *Handler) apiClient(c *gin.Context) *c2s.Client {
	token, _ := sessions.Default(c).Get("token").(string)
	if token == "" {
		return h.Client
	}
	return h.Client.WithToken(token)
}

func (h *Handler) asm(c *gin.Context) *assembler.Assembler {
	return assembler.New(h.apiClient(c), h.Norm, h.Logger)
}

// CommonData merges site text, the session user and queued toasts into
// every template payload.
func (h *Handler) CommonData(c *gin.Context, data gin.H) gin.H {
	session := sessions.Default(c)

	out := gin.H{
		"site_title":   h.Config.Site.Title,
		"site_tagline": h.Config.Site.Tagline,
	}
	if handle, ok := session.Get("handle").(string); ok && handle != "" {
		out["current_user"] = handle
	}
	if userID, ok := session.Get("user_id").(string); ok && userID != "" {
		out["user_css"] = h.Client.UserCSSURL(userID)
	}
	if flashes := session.Flashes(); len(flashes) > 0 {
		session.Save()
		out["toasts"] = flashes
	}
	for k, v := range data {
		out[k] = v
	}
	return out
}

// sessionHandle returns the logged-in handle, empty when anonymous.
func sessionHandle(c *gin.Context) string {
	handle, _ := sessions.Default(c).Get("handle").(string)
	return handle
}

// flash queues toasts for the post-redirect render.
func flash(c *gin.Context, toasts []notify.Toast) {
	if len(toasts) == 0 {
		return
	}
	session := sessions.Default(c)
	for _, t := range toasts {
		session.AddFlash(t.Message)
	}
	session.Save()
}

func (h *Handler) HomeHandler(c *gin.Context) {
	ctx := c.Request.Context()
	asm := h.asm(c)

	var view assembler.FeedView
	if handle := sessionHandle(c); handle != "" {
		view = asm.HomeFeed(ctx, handle)
	} else {
		view = asm.PublicFeed(ctx)
	}

	data := gin.H{
		"title": "Feed",
		"view":  view,
	}
	if h.Config.Features.Recommendations && sessionHandle(c) != "" {
		userID, _ := sessions.Default(c).Get("user_id").(string)
		rec := asm.Recommendations(ctx, userID)
		if !rec.Disabled {
			data["recommendations"] = rec
		}
	}
	c.HTML(http.StatusOK, "feed.html", h.CommonData(c, data))
}

func (h *Handler) ProfileHandler(c *gin.Context) {
	handle := c.Param("handle")
	view := h.asm(c).Profile(c.Request.Context(), handle)

	c.HTML(http.StatusOK, "profile.html", h.CommonData(c, gin.H{
		"title": "@" + handle,
		"view":  view,
	}))
}

func (h *Handler) PostHandler(c *gin.Context) {
	handle := c.Param("handle")
	id := c.Param("id")

	view := h.asm(c).SinglePost(c.Request.Context(), handle, id)
	if view.NotFound() {
		c.HTML(http.StatusNotFound, "error.html", h.CommonData(c, gin.H{
			"title": "Not found",
			"error": notify.MessageForStatus(http.StatusNotFound),
		}))
		return
	}

	c.HTML(http.StatusOK, "post.html", h.CommonData(c, gin.H{
		"title": "Post",
		"view":  view,
	}))
}

func (h *Handler) SearchHandler(c *gin.Context) {
	query := c.Query("q")

	data := gin.H{"title": "Search"}
	if query != "" {
		data["view"] = h.asm(c).Search(c.Request.Context(), query)
	}
	c.HTML(http.StatusOK, "search.html", h.CommonData(c, data))
}

func (h *Handler) FollowsHandler(c *gin.Context) {
	view := h.asm(c).PendingFollows(c.Request.Context())

	c.HTML(http.StatusOK, "follows.html", h.CommonData(c, gin.H{
		"title": "Follow requests",
		"view":  view,
	}))
}
