package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sharath018/event-management-backend/config"
	"github.com/sharath018/event-management-backend/database"
	"github.com/sharath018/event-management-backend/internal/auditlog"
	"github.com/sharath018/event-management-backend/internal/auth"
	"github.com/sharath018/event-management-backend/internal/event"
	"github.com/sharath018/event-management-backend/internal/notification"
	"github.com/sharath018/event-management-backend/internal/review"
	"github.com/sharath018/event-management-backend/internal/rsvp"
	"github.com/sharath018/event-management-backend/internal/userprofile"
	"github.com/sharath018/event-management-backend/routes"
	"github.com/sharath018/event-management-backend/utils"
)

// @title Event Management API
// @version 1.0
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("❌ Database: %v", err)
	}

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&auth.UserRole{},
		&auth.User{},
		&event.Event{},
		&rsvp.RSVP{},
		&review.Review{},
		&userprofile.UserProfile{},
		&auditlog.AuditLog{},
		&notification.InAppNotification{},
		&notification.DeviceToken{},
	); err != nil {
		log.Fatalf("❌ DB AutoMigrate failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// Seed roles & admin
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	authRepo := auth.NewRepository(db)
	if err := authRepo.SeedRoles(ctx); err != nil {
		log.Fatalf("❌ Failed to seed roles: %v", err)
	}
	if err := authRepo.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("❌ Failed to seed admin: %v", err)
	}

	tokens, err := utils.NewTokenStore(cfg)
	if err != nil {
		log.Fatalf("❌ Redis init failed: %v", err)
	}
	var rdb *redis.Client
	if rs, ok := tokens.(*utils.RedisTokenStore); ok {
		rdb = rs.Client()
		defer rs.Close()
	}

	pusher := notification.NewFCMPusher(ctx, cfg)
	notifSvc := notification.NewService(notification.NewRepository(db), rdb, pusher)
	publisher := notification.NewPublisher(cfg, notifSvc)
	defer publisher.Close()
	notification.StartKafkaConsumer(ctx, cfg, notifSvc)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Optional request logger
	router.Use(func(c *gin.Context) {
		log.Printf("REQUEST -> 👉 %s %s from origin %s", c.Request.Method, c.Request.URL.Path, c.Request.Header.Get("Origin"))
		c.Next()
	})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Setup(router, cfg, routes.Deps{
		DB:            db,
		Tokens:        tokens,
		Mailer:        utils.NewSMTPMailer(cfg),
		Redis:         rdb,
		Notifications: notifSvc,
		Publisher:     publisher,
		Pusher:        pusher,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Shutdown: %v", err)
	}
}

