package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"survey-server/middleware"
	"survey-server/models"
	"survey-server/services"
	"survey-server/sessions"
	"survey-server/utils"
	ws "survey-server/websocket"
)

// Handler holds the dependencies shared by all route handlers
type Handler struct {
	DB       *gorm.DB
	Sessions *middleware.SessionManager
	Auth     *services.AuthService
	Answers  *services.AnswerService
	Results  *services.ResultsService
	Hub      *ws.Hub
	Upgrader *websocket.Upgrader
}

// RegisterRoutes registers all routes on the router. Global middleware
// (logging, recovery, security headers, CORS, rate limiting) is installed by
// the caller.
func RegisterRoutes(router *gin.Engine, h *Handler) {
	utils.RegisterValidatorTagNames()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Survey server is running",
			"time":    time.Now().UTC(),
		})
	})

	web := router.Group("")
	web.Use(h.Sessions.SessionMiddleware())
	{
		web.GET("/login", withSession(h.LoginForm))
		web.POST("/login", withSession(h.Login))
		web.POST("/logout", withSession(h.Logout))
	}

	api := router.Group("/api/v1")
	api.Use(h.Sessions.SessionMiddleware())
	{
		api.GET("/me", middleware.RequireAuthenticated(), withSession(h.Me))

		employee := api.Group("")
		employee.Use(middleware.RequireRole(models.RoleEmployee))
		RegisterSurveyRoutes(employee, h)

		admin := api.Group("/admin")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		RegisterAdminRoutes(admin, h)
	}
}

// SessionHandler is a handler that receives the request's session explicitly
type SessionHandler func(c *gin.Context, session *sessions.Session)

// withSession resolves the session attached by the session middleware and
// hands it to fn.
func withSession(fn SessionHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := middleware.CurrentSession(c)
		if s == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal server error",
				"message": "Session unavailable",
			})
			return
		}
		fn(c, s)
	}
}
