package routes

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sharath018/event-management-backend/config"
	"github.com/sharath018/event-management-backend/internal/admin"
	"github.com/sharath018/event-management-backend/internal/auditlog"
	"github.com/sharath018/event-management-backend/internal/auth"
	"github.com/sharath018/event-management-backend/internal/event"
	"github.com/sharath018/event-management-backend/internal/notification"
	"github.com/sharath018/event-management-backend/internal/policy"
	"github.com/sharath018/event-management-backend/internal/review"
	"github.com/sharath018/event-management-backend/internal/rsvp"
	"github.com/sharath018/event-management-backend/internal/userprofile"
	"github.com/sharath018/event-management-backend/middleware"
	"github.com/sharath018/event-management-backend/utils"
	"gorm.io/gorm"

	_ "github.com/sharath018/event-management-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps are the process-wide resources the routes are built on.
type Deps struct {
	DB            *gorm.DB
	Tokens        utils.TokenStore
	Mailer        utils.Mailer
	Redis         *redis.Client
	Notifications notification.Service
	Publisher     notification.Publisher
	Pusher        notification.Pusher
}

const apiPrefix = "/api/v1"

func Setup(r *gin.Engine, cfg *config.Config, deps Deps) {
	r.Use(middleware.RequestID())
	r.RedirectTrailingSlash = false
	r.NoRoute(trailingSlash(r))

	r.GET("/", apiRoot(r))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group(apiPrefix)
	api.Use(middleware.RateLimiter(cfg))
	api.Use(middleware.AuditMiddleware())

	// ===========================
	// 🧱 Repositories & services
	// ===========================
	auditSvc := auditlog.NewService(auditlog.NewRepository(deps.DB))
	auditHandler := auditlog.NewHandler(auditSvc)

	authRepo := auth.NewRepository(deps.DB)
	authSvc := auth.NewService(authRepo, deps.Tokens, deps.Mailer, auditSvc, cfg)
	authHandler := auth.NewHandler(authSvc)

	notifSvc := deps.Notifications
	if notifSvc == nil {
		notifSvc = notification.NewService(notification.NewRepository(deps.DB), deps.Redis, deps.Pusher)
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = &notification.DirectPublisher{Service: notifSvc}
	}
	notifHandler := notification.NewHandler(notifSvc)

	eventRepo := event.NewRepository(deps.DB)
	rsvpRepo := rsvp.NewRepository(deps.DB)
	reviewRepo := review.NewRepository(deps.DB)

	pol := policy.New(rsvpRepo, reviewRepo, policy.Options{
		ReviewRequiresAttendance: cfg.ReviewRequiresAttendance,
		OpenPrivateRSVP:          cfg.OpenPrivateRSVP,
	})

	eventHandler := event.NewHandler(event.NewService(eventRepo, pol, auditSvc))
	rsvpHandler := rsvp.NewHandler(rsvp.NewService(rsvpRepo, eventRepo, pol, authRepo, publisher, deps.Mailer, auditSvc))
	reviewHandler := review.NewHandler(review.NewService(reviewRepo, eventRepo, pol, authRepo, publisher, auditSvc))
	adminHandler := admin.NewHandler(admin.NewService(admin.NewRepository(deps.DB), auditSvc))
	profileHandler := userprofile.NewHandler(userprofile.NewService(userprofile.NewRepository(deps.DB), auditSvc))

	// Every route below sees the caller identity; anonymous requests pass
	// through and the access policy decides per resource.
	api.Use(middleware.AuthMiddleware(authSvc))

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)

		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/reset-password", authHandler.ResetPassword)

		authGroup.GET("/me", middleware.RequireAuth(), authHandler.Me)
	}

	events := api.Group("/events")
	{
		events.GET("", eventHandler.ListEvents)
		events.POST("", eventHandler.CreateEvent)
		events.GET("/:id", eventHandler.GetEvent)
		events.PUT("/:id", eventHandler.UpdateEvent)
		events.PATCH("/:id", eventHandler.UpdateEvent)
		events.DELETE("/:id", eventHandler.DeleteEvent)

		events.GET("/:id/rsvp", rsvpHandler.ListRSVPs)
		events.POST("/:id/rsvp", rsvpHandler.CreateRSVP)
		events.GET("/:id/rsvp/export", rsvpHandler.ExportAttendees)
		events.PATCH("/:id/rsvp/:rsvp_id", rsvpHandler.UpdateRSVP)
		events.DELETE("/:id/rsvp/:rsvp_id", rsvpHandler.DeleteRSVP)
		events.POST("/:id/invite", rsvpHandler.InviteUser)

		events.GET("/:id/reviews", reviewHandler.ListReviews)
		events.POST("/:id/reviews", reviewHandler.CreateReview)
		events.PATCH("/:id/reviews/:review_id", reviewHandler.UpdateReview)
		events.DELETE("/:id/reviews/:review_id", reviewHandler.DeleteReview)
	}

	api.GET("/rsvps/my", rsvpHandler.ListMyRSVPs)

	profiles := api.Group("/profiles")
	{
		profiles.GET("/me", profileHandler.GetMyProfile)
		profiles.PUT("/me", profileHandler.UpdateMyProfile)
		profiles.PATCH("/me", profileHandler.UpdateMyProfile)
		profiles.GET("/:user_id", profileHandler.GetProfile)
	}

	notifications := api.Group("/notifications")
	notifications.Use(middleware.RequireAuth())
	{
		notifications.GET("/inapp", notifHandler.GetMyInApp)
		notifications.PUT("/inapp/:id/read", notifHandler.MarkInAppRead)
		notifications.GET("/stream", notifHandler.StreamInApp)
		notifications.POST("/devices", notifHandler.RegisterDevice)
		notifications.DELETE("/devices", notifHandler.UnregisterDevice)
	}

	auditRoutes := api.Group("/auditlogs")
	auditRoutes.Use(middleware.RBACMiddleware(auth.RoleAdmin))
	{
		auditRoutes.GET("", auditHandler.GetAuditLogs)
		auditRoutes.GET("/stats", auditHandler.GetAuditLogStats)
		auditRoutes.GET("/:id", auditHandler.GetAuditLogByID)
	}

	adminRoutes := api.Group("/admin")
	adminRoutes.Use(middleware.RBACMiddleware(auth.RoleAdmin))
	{
		adminRoutes.GET("/users", adminHandler.GetUsers)
		adminRoutes.GET("/users/:id", adminHandler.GetUserByID)
		adminRoutes.PATCH("/users/:id/status", adminHandler.UpdateUserStatus)
	}
}

// trailingSlash serves "/events/" with the handler registered for "/events"
// instead of redirecting, so POST bodies survive.
func trailingSlash(r *gin.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if len(p) > 1 && strings.HasSuffix(p, "/") {
			c.Request.URL.Path = strings.TrimSuffix(p, "/")
			c.Request.Header.Set(middleware.RequestIDHeader, c.GetString("request_id"))
			r.HandleContext(c)
			// HandleContext leaves the rewritten route's handlers on c
			c.Abort()
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "no route for " + c.Request.Method + " " + p, "code": "not_found"})
	}
}

// apiRoot lists the API entry points and every registered API route.
func apiRoot(r *gin.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		routes := r.Routes()
		sort.Slice(routes, func(i, j int) bool {
			if routes[i].Path != routes[j].Path {
				return routes[i].Path < routes[j].Path
			}
			return routes[i].Method < routes[j].Method
		})

		docs := make([]string, 0, len(routes))
		for _, rt := range routes {
			if strings.HasPrefix(rt.Path, apiPrefix) {
				docs = append(docs, rt.Method+" "+rt.Path)
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to Event Management API",
			"version": "1.0",
			"endpoints": gin.H{
				"api": gin.H{
					"events":        apiPrefix + "/events",
					"token":         apiPrefix + "/auth/login",
					"token_refresh": apiPrefix + "/auth/refresh",
					"register":      apiPrefix + "/auth/register",
					"my_rsvps":      apiPrefix + "/rsvps/my",
				},
				"swagger":       "/swagger/index.html",
				"health":        "/healthz",
				"documentation": docs,
			},
		})
	}
}
