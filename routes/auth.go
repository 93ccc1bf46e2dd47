package routes

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"survey-server/services"
	"survey-server/sessions"
	"survey-server/utils"
)

// LoginRequest is the login form
type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required,max=32"`
	Password string `form:"password" json:"password" binding:"required,max=128"`
}

// LoginForm describes the empty login form
func (h *Handler) LoginForm(c *gin.Context, _ *sessions.Session) {
	c.JSON(http.StatusOK, gin.H{
		"form": gin.H{
			"username": "",
			"password": "",
		},
		"form_errors": utils.FormErrors{},
	})
}

// Login authenticates an employee or admin and records the principal in the
// session. Every outcome is reported with HTTP 200; the body tells the
// login page what happened.
func (h *Handler) Login(c *gin.Context, session *sessions.Session) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"form_errors": utils.ToFormErrors(err)})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		errs := utils.FormErrors{}
		errs.Add("username", utils.MsgRequired)
		c.JSON(http.StatusOK, gin.H{"form_errors": errs})
		return
	}

	principal, err := h.Auth.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			log.Printf("❌ Login lookup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal server error",
				"message": "Failed to verify credentials",
			})
			return
		}

		log.Printf("❌ Invalid credentials for username %q from %s", req.Username, c.ClientIP())
		errs := utils.FormErrors{}
		errs.Add("password", utils.MsgInvalidPassword)
		c.JSON(http.StatusOK, gin.H{
			"success":     false,
			"form_errors": errs,
		})
		return
	}

	if err := h.Sessions.Login(c, session, principal); err != nil {
		log.Printf("❌ Failed to store session for %s %d: %v", principal.Role, principal.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": "Failed to create session",
		})
		return
	}

	log.Printf("✅ %s %d signed in", principal.Role, principal.ID)

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"location_href": "/",
	})
}

// Logout removes the session
func (h *Handler) Logout(c *gin.Context, session *sessions.Session) {
	userID := session.UserID

	if err := h.Sessions.Destroy(c, session); err != nil {
		log.Printf("⚠️ Failed to delete session: %v", err)
	}
	if userID != 0 {
		log.Printf("✅ User signed out: %d", userID)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"location_href": "/login",
	})
}

// Me returns the principal stored in the session
func (h *Handler) Me(c *gin.Context, session *sessions.Session) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user_id":  session.UserID,
			"username": session.Username,
			"role":     session.Role,
		},
	})
}
