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

func (h *Handler) LoginViewHandler(c *gin.Context) {
	if sessionHandle(c) != "" {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", h.CommonData(c, gin.H{
		"title":        "Login",
		"is_auth_page": true,
	}))
}

func (h *Handler) LoginSubmitHandler(c *gin.Context) {
	handle := c.PostForm("handle")
	password := c.PostForm("password")

	if handle == "" || password == "" {
		c.HTML(http.StatusOK, "login.html", h.CommonData(c, gin.H{
			"error":        "Handle and password are required",
			"title":        "Login",
			"is_auth_page": true,
		}))
		return
	}

	sess, err := h.Client.Login(c.Request.Context(), handle, password)
	if err != nil {
		h.Logger.Warn("login failed", zap.String("handle", handle), zap.Error(err))
		c.HTML(http.StatusUnauthorized, "login.html", h.CommonData(c, gin.H{
			"error":        notify.MessageForError(err),
			"title":        "Login",
			"is_auth_page": true,
		}))
		return
	}

	session := sessions.Default(c)
	session.Set("token", sess.Token)
	session.Set("user_id", sess.UserID)
	session.Set("handle", sess.Handle)
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) RegisterViewHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", h.CommonData(c, gin.H{
		"title":        "Register",
		"is_auth_page": true,
	}))
}

func (h *Handler) RegisterSubmitHandler(c *gin.Context) {
	reg := c2s.Registration{
		Handle:   c.PostForm("handle"),
		Password: c.PostForm("password"),
		Email:    c.PostForm("email"),
	}
	if reg.Handle == "" || reg.Password == "" {
		c.HTML(http.StatusOK, "register.html", h.CommonData(c, gin.H{
			"error":        "Handle and password are required",
			"title":        "Register",
			"is_auth_page": true,
		}))
		return
	}

	if err := h.Client.Register(c.Request.Context(), reg); err != nil {
		h.Logger.Warn("registration failed", zap.String("handle", reg.Handle), zap.Error(err))
		c.HTML(http.StatusOK, "register.html", h.CommonData(c, gin.H{
			"error":        notify.MessageForError(err),
			"title":        "Register",
			"is_auth_page": true,
		}))
		return
	}

	session := sessions.Default(c)
	session.AddFlash("Account created, you can log in now.")
	session.Save()
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) LogoutHandler(c *gin.Context) {
	if err := h.apiClient(c).Logout(c.Request.Context()); err != nil {
		// Local session dies regardless; the backend token will expire.
		h.Logger.Debug("backend logout failed", zap.Error(err))
	}

	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/")
}
