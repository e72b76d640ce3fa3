// README: HTTP router registration; wires middleware and per-module handlers.
package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"guardian/internal/config"
	"guardian/internal/http/handlers"
	"guardian/internal/http/middleware"
	"guardian/internal/infra"
	"guardian/internal/modules/acceptance"
	"guardian/internal/modules/analytics"
	"guardian/internal/modules/auth"
	"guardian/internal/modules/profile"
	"guardian/internal/modules/request"
)

type RouterDeps struct {
	Requests   *request.Service
	Acceptance *acceptance.Service
	Profiles   *profile.Service
	Analytics  *analytics.Service
	Auth       *auth.Service
	Verifier   infra.TokenVerifier
	RateLimit  config.RateLimitConfig
}

func NewRouter(deps RouterDeps) http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Logging())
	r.Use(cors.Default())
	r.Use(middleware.RateLimit(deps.RateLimit.RPS, deps.RateLimit.Burst))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	authHandler := handlers.NewAuthHandler(deps.Auth)
	r.POST("/api/register", authHandler.Register)
	r.POST("/api/login", authHandler.Login)

	api := r.Group("/api")
	api.Use(middleware.Auth(deps.Verifier))

	requestHandler := handlers.NewRequestHandler(deps.Requests, deps.Acceptance)
	api.POST("/requests", requestHandler.Create)
	api.GET("/requests/open", requestHandler.ListOpen)
	api.GET("/user/requests", requestHandler.ListOwn)
	api.PUT("/requests/:id", requestHandler.Update)
	api.POST("/requests/:id/cancel", requestHandler.Cancel)
	api.POST("/requests/:id/reopen", requestHandler.Reopen)
	api.DELETE("/requests/:id", requestHandler.Delete)
	api.POST("/requests/:id/accept", requestHandler.Accept)
	api.POST("/requests/:id/decline", requestHandler.Decline)
	api.POST("/requests/:id/respond", requestHandler.Respond)

	profileHandler := handlers.NewProfileHandler(deps.Profiles)
	api.GET("/user/profile", profileHandler.GetOwn)
	api.POST("/user/profile/update", profileHandler.Update)
	api.GET("/user/:userId", profileHandler.GetByID)
	api.POST("/user/:userId/like", profileHandler.Like)
	api.GET("/user/:userId/likes", profileHandler.LikeCount)
	api.POST("/user/:userId/comment", profileHandler.Comment)
	api.GET("/user/:userId/comments", profileHandler.Comments)

	analyticsHandler := handlers.NewAnalyticsHandler(deps.Analytics)
	api.GET("/analytics/:userId", analyticsHandler.ProfileStats)

	return r
}
