// SPDX-License-Identifier: AGPL-3.0-only
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quillfeed/quill/internal/c2s"
	"github.com/quillfeed/quill/internal/notify"
	"github.com/quillfeed/quill/internal/rss"
	"github.com/quillfeed/quill/internal/widget"
)

// backTo is where an action handler sends the browser afterwards.
func backTo(c *gin.Context) string {
	if ref := c.Request.Referer(); ref != "" {
		return ref
	}
	return "/"
}

// remoteLog forwards a widget failure to the backend's debug log sink,
// off the request path.
func (h *Handler) remoteLog(c *gin.Context, msg string, err error) {
	h.Logger.Debug(msg, zap.Error(err))
	client := h.apiClient(c)
	line := fmt.Sprintf("%s: %v", msg, err)
	h.Worker.Enqueue(func(ctx context.Context) error {
		return client.AddLog(ctx, line)
	})
}

// LikeHandler drives the like widget for one post. The form carries
// the widget's current state; the controller flips it optimistically
// and the redirect target shows whatever survived reconciliation.
func (h *Handler) LikeHandler(c *gin.Context) {
	articleID := c.Param("id")
	liked := c.PostForm("liked") == "true"
	count, _ := strconv.Atoi(c.PostForm("count"))

	toasts := &notify.Toasts{}
	button := widget.NewLikeButton(articleID, liked, count, h.Config.Features.AllowUnlike, h.apiClient(c), toasts, h.Logger)

	if err := button.Toggle(c.Request.Context()); err != nil && !errors.Is(err, widget.ErrPending) {
		h.remoteLog(c, "like toggle failed for "+articleID, err)
	}

	flash(c, toasts.Drain())
	c.Redirect(http.StatusFound, backTo(c))
}

func (h *Handler) FollowHandler(c *gin.Context) {
	follower := sessionHandle(c)
	followed := c.PostForm("followed")
	following := c.PostForm("following") == "true"
	feedURL := c.PostForm("feed_url")

	toasts := &notify.Toasts{}

	if feedURL != "" {
		// Follow-by-URL: resolve the page to its advertised feed first.
		resolved, err := rss.DiscoverFeedURL(c.Request.Context(), h.Client.HTTPClient, feedURL)
		if err != nil {
			h.Logger.Debug("feed discovery failed", zap.String("url", feedURL), zap.Error(err))
			toasts.Error("Could not find a feed at that address.")
			flash(c, toasts.Drain())
			c.Redirect(http.StatusFound, backTo(c))
			return
		}
		followed = resolved
	}

	if followed == "" {
		toasts.Error("Nothing to follow.")
		flash(c, toasts.Drain())
		c.Redirect(http.StatusFound, backTo(c))
		return
	}

	button := widget.NewFollowButton(follower, followed, following, h.apiClient(c), toasts, h.Logger)
	if err := button.Toggle(c.Request.Context()); err != nil && !errors.Is(err, widget.ErrPending) {
		h.remoteLog(c, "follow toggle failed for "+followed, err)
	}

	flash(c, toasts.Drain())
	c.Redirect(http.StatusFound, backTo(c))
}

func (h *Handler) AnnounceHandler(c *gin.Context) {
	articleID := c.Param("id")
	shared := c.PostForm("shared") == "true"

	toasts := &notify.Toasts{}
	button := widget.NewReblogButton(articleID, shared, h.apiClient(c), toasts, h.Logger)

	if err := button.Share(c.Request.Context()); err != nil && !errors.Is(err, widget.ErrPending) {
		h.remoteLog(c, "announce failed for "+articleID, err)
	} else if err == nil && !shared {
		toasts.Notify("Shared with your followers.")
	}

	flash(c, toasts.Drain())
	c.Redirect(http.StatusFound, backTo(c))
}

func (h *Handler) WriteViewHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "write.html", h.CommonData(c, gin.H{
		"title": "New post",
	}))
}

func (h *Handler) WriteSubmitHandler(c *gin.Context) {
	article := c2s.NewArticle{
		Title:   c.PostForm("title"),
		Body:    c.PostForm("body"),
		Summary: c.PostForm("summary"),
		Tags:    c.PostFormArray("tags"),
	}
	if article.Title == "" || article.Body == "" {
		c.HTML(http.StatusOK, "write.html", h.CommonData(c, gin.H{
			"title":   "New post",
			"error":   "Title and body are required",
			"article": article,
		}))
		return
	}

	if err := h.apiClient(c).CreateArticle(c.Request.Context(), article); err != nil {
		h.Logger.Warn("create article failed", zap.Error(err))
		c.HTML(http.StatusOK, "write.html", h.CommonData(c, gin.H{
			"title":   "New post",
			"error":   notify.MessageForError(err),
			"article": article,
		}))
		return
	}

	session := sessions.Default(c)
	session.AddFlash("Published.")
	session.Save()
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) EditViewHandler(c *gin.Context) {
	handle := c.Param("handle")
	id := c.Param("id")

	view := h.asm(c).SinglePost(c.Request.Context(), handle, id)
	if view.Failed() || view.NotFound() {
		c.HTML(http.StatusNotFound, "error.html", h.CommonData(c, gin.H{
			"title": "Not found",
			"error": notify.MessageForStatus(http.StatusNotFound),
		}))
		return
	}

	c.HTML(http.StatusOK, "write.html", h.CommonData(c, gin.H{
		"title": "Edit post",
		"view":  view,
		"edit":  true,
	}))
}

func (h *Handler) EditSubmitHandler(c *gin.Context) {
	edit := c2s.ArticleEdit{
		GlobalID: c.Param("id"),
		Title:    c.PostForm("title"),
		Body:     c.PostForm("body"),
		Summary:  c.PostForm("summary"),
		Tags:     c.PostFormArray("tags"),
	}

	session := sessions.Default(c)
	if err := h.apiClient(c).UpdateArticle(c.Request.Context(), edit); err != nil {
		h.Logger.Warn("update article failed", zap.String("article", edit.GlobalID), zap.Error(err))
		session.AddFlash(notify.MessageForError(err))
	} else {
		session.AddFlash("Post updated.")
	}
	session.Save()
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) DeleteHandler(c *gin.Context) {
	articleID := c.Param("id")

	session := sessions.Default(c)
	if err := h.apiClient(c).DeleteArticle(c.Request.Context(), articleID); err != nil {
		h.Logger.Warn("delete article failed", zap.String("article", articleID), zap.Error(err))
		session.AddFlash(notify.MessageForError(err))
	} else {
		session.AddFlash("Post deleted.")
	}
	session.Save()
	c.Redirect(http.StatusFound, "/")
}
