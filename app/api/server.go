package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RSAK56/NewsStream/app/database"
)

const userContextKey = "current_user"
const tokenContextKey = "session_token"

// NewServer creates the HTTP server with all routes configured
func NewServer(handler *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	// CORS middleware for browser clients
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Session-Token")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Every route sees the session if one is presented; handlers and
	// requireAuth decide what a missing session means.
	r.Use(sessionMiddleware(handler))

	setupRoutes(r, handler)

	return r
}

// setupRoutes configures all the application routes
func setupRoutes(r *gin.Engine, handler *Handler) {
	r.GET("/news", handler.GetNews)

	r.POST("/auth/signup", handler.SignUp)
	r.GET("/auth/confirm/:token", handler.Confirm)
	r.POST("/auth/signin", handler.SignIn)
	r.POST("/auth/signout", handler.SignOut)

	// Save/unsave silently no-op without a session, so no requireAuth.
	r.POST("/articles/saved", handler.SaveArticle)
	r.DELETE("/articles/saved", handler.UnsaveArticle)

	authed := r.Group("", requireAuth())
	{
		authed.GET("/preferences", handler.GetPreferences)
		authed.PATCH("/preferences", handler.UpdatePreferences)
	}

	r.GET("/health", handler.GetHealth)
	r.GET("/stats", handler.GetStats)

	// Root endpoint with basic information
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service":     "NewsStream",
			"description": "News aggregation API over NewsAPI, The Guardian and The New York Times",
			"endpoints": map[string]string{
				"news":        "/news?sources=&categories=&from=&to=&search=&saved=",
				"signup":      "/auth/signup (POST)",
				"confirm":     "/auth/confirm/<token>",
				"signin":      "/auth/signin (POST)",
				"signout":     "/auth/signout (POST)",
				"preferences": "/preferences (GET, PATCH; requires session)",
				"saved":       "/articles/saved (POST, DELETE)",
				"health":      "/health",
				"stats":       "/stats",
			},
			"auth_header": "Authorization: Bearer <token> or X-Session-Token",
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}

// sessionMiddleware resolves the presented session token to a user and
// stashes both in the request context. Invalid or absent tokens leave
// the request anonymous.
func sessionMiddleware(handler *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token != "" {
			if user, err := handler.authService.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(userContextKey, user)
				c.Set(tokenContextKey, token)
			}
		}
		c.Next()
	}
}

// requireAuth rejects anonymous requests.
func requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Authentication required",
				"message": "Provide a session token in Authorization: Bearer <token> or X-Session-Token",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if token, ok := c.Get(tokenContextKey); ok {
		if s, ok := token.(string); ok {
			return s
		}
	}

	if token := c.GetHeader("X-Session-Token"); token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

func currentUser(c *gin.Context) *database.User {
	if value, ok := c.Get(userContextKey); ok {
		if user, ok := value.(*database.User); ok {
			return user
		}
	}
	return nil
}
