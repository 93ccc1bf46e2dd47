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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"survey-server/config"
	"survey-server/database"
	"survey-server/jobs"
	"survey-server/middleware"
	"survey-server/routes"
	"survey-server/services"
	"survey-server/sessions"
	ws "survey-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()
	cfg := config.AppConfig
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration:", err)
	}
	if cfg.UsesDefaultSessionSecret() {
		log.Println("⚠️  SESSION_SECRET not set, signing sessions with the public default secret")
	}

	// Set Gin mode
	if cfg.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	if err := database.Initialize(cfg.Database.URL); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	if err := database.SeedAdmin(database.DB, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword, cfg.Security.BcryptCost); err != nil {
		log.Fatal("Failed to seed admin:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := newSessionStore(ctx, cfg.Redis)
	defer closeStore()

	sessionManager := middleware.NewSessionManager(
		store,
		services.NewSessionTokenService(cfg.Session.Secret),
		time.Duration(cfg.Session.TTLHours)*time.Hour,
		cfg.Session.CookieSecure,
	)

	// Live feed for admins
	hub := ws.NewHub()
	go hub.Run(ctx)

	handler := &routes.Handler{
		DB:       database.DB,
		Sessions: sessionManager,
		Auth:     services.NewAuthService(database.DB, cfg.Security.BcryptCost),
		Answers:  services.NewAnswerService(database.DB),
		Results:  services.NewResultsService(database.DB),
		Hub:      hub,
		Upgrader: ws.NewUpgrader(cfg.Security.AllowedOrigins),
	}

	limiter := middleware.NewRateLimiter(cfg.Security.RateLimitPerMinute, cfg.Security.RateLimitBurst)

	// Create router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.InputValidationMiddleware())
	router.Use(middleware.RateLimitMiddleware(limiter))
	router.Use(middleware.CORSMiddleware(cfg.Security.AllowedOrigins))

	routes.RegisterRoutes(router, handler)

	// Start background jobs
	cleanupJob := jobs.NewSessionCleanupJob(jobs.CleanupFunc(func(ctx context.Context) error {
		if limiter != nil {
			limiter.Cleanup(time.Hour)
		}
		return sessionManager.Cleanup(ctx)
	}), time.Duration(cfg.Session.CleanupMinutes)*time.Minute)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}
	log.Println("✅ Server exited")
}

// newSessionStore connects to Redis when addresses are configured and falls
// back to an in-process store otherwise
func newSessionStore(ctx context.Context, cfg config.RedisConfig) (sessions.Store, func()) {
	if len(cfg.Addresses) == 0 {
		log.Println("⚠️  REDIS_ADDR not set, keeping sessions in memory")
		return sessions.NewMemoryStore(), func() {}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	store, err := sessions.NewRedisStore(pingCtx, cfg.Addresses, cfg.Password, cfg.DB)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	log.Printf("✅ Connected to Redis session store at %v", cfg.Addresses)

	return store, func() {
		if err := store.Close(); err != nil {
			log.Printf("⚠️ Failed to close Redis client: %v", err)
		}
	}
}
