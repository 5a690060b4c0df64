package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tradeacademy/tradeacademy-api/config"
	"github.com/tradeacademy/tradeacademy-api/internal/cache"
	"github.com/tradeacademy/tradeacademy-api/internal/handlers"
	"github.com/tradeacademy/tradeacademy-api/internal/middleware"
	"github.com/tradeacademy/tradeacademy-api/internal/repository"
	"github.com/tradeacademy/tradeacademy-api/internal/services"
	"github.com/tradeacademy/tradeacademy-api/pkg/db"
	"github.com/tradeacademy/tradeacademy-api/pkg/httpclient"
	"github.com/tradeacademy/tradeacademy-api/pkg/jwt"
	"github.com/tradeacademy/tradeacademy-api/pkg/logger"
	"github.com/tradeacademy/tradeacademy-api/pkg/metrics"
	"github.com/tradeacademy/tradeacademy-api/pkg/profiling"
	"github.com/tradeacademy/tradeacademy-api/pkg/storage"
	"github.com/tradeacademy/tradeacademy-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// registerAPIRoutes registers the login route and the authenticated (but not
// admin-only) course catalog read.
func registerAPIRoutes(
	group *gin.RouterGroup,
	tokenManager *jwt.TokenManager,
	generalRateLimiter, authRateLimiter *middleware.RateLimiter,
	authHandler *handlers.AuthHandler,
	courseHandler *handlers.CourseHandler,
) {
	group.POST("/auth/login", authRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024), authHandler.Login)

	group.GET("/courses", generalRateLimiter.Middleware(), middleware.BearerAuthMiddleware(tokenManager), courseHandler.ListCourses)
}

// registerAdminRoutes registers the dashboard routes. Every route requires a
// valid bearer token carrying the admin flag.
func registerAdminRoutes(
	router *gin.Engine,
	tokenManager *jwt.TokenManager,
	generalRateLimiter, uploadRateLimiter *middleware.RateLimiter,
	courseHandler *handlers.CourseHandler,
	lectureHandler *handlers.LectureHandler,
	userHandler *handlers.UserHandler,
	coachHandler *handlers.CoachHandler,
) {
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.BearerAuthMiddleware(tokenManager))
	admin.Use(middleware.AdminRequired())

	// Course management
	admin.GET("/courses/:id", generalRateLimiter.Middleware(), courseHandler.GetCourse)
	admin.POST("/courses", uploadRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024*1024), courseHandler.CreateCourse)
	admin.PUT("/courses/:id", uploadRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024*1024), courseHandler.UpdateCourse)
	admin.DELETE("/courses/:id", generalRateLimiter.Middleware(), courseHandler.DeleteCourse)

	// Lecture management (video uploads get the large body limit)
	admin.GET("/courses/:id/videos", generalRateLimiter.Middleware(), lectureHandler.ListLectures)
	admin.POST("/courses/:id/videos", uploadRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(2*1024*1024*1024), lectureHandler.AddLecture)
	admin.PUT("/videos/:id", uploadRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(2*1024*1024*1024), lectureHandler.UpdateLecture)
	admin.DELETE("/videos/:id", generalRateLimiter.Middleware(), lectureHandler.DeleteLecture)
	admin.GET("/videos/:id/stream", generalRateLimiter.Middleware(), lectureHandler.StreamLecture)

	// User administration
	admin.GET("/users", generalRateLimiter.Middleware(), userHandler.ListUsers)
	admin.PUT("/users/:id/admin", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024), userHandler.SetAdmin)

	// Coach management
	admin.GET("/coaches", generalRateLimiter.Middleware(), coachHandler.ListCoaches)
	admin.GET("/coaches/:id", generalRateLimiter.Middleware(), coachHandler.GetCoach)
	admin.POST("/coaches", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), coachHandler.CreateCoach)
	admin.PUT("/coaches/:id", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), coachHandler.UpdateCoach)
	admin.DELETE("/coaches/:id", generalRateLimiter.Middleware(), coachHandler.DeleteCoach)
	admin.POST("/coaches/:id/slots", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024), coachHandler.AddSlot)
	admin.DELETE("/coaches/:id/slots/:slotId", generalRateLimiter.Middleware(), coachHandler.DeleteSlot)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting TradeAcademy API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.ExporterEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Initialize continuous profiling
	profilerStop, err := profiling.InitProfiler(
		cfg.Profiling,
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
	)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer profilerStop()

	// Initialize metrics with service name from config
	metrics.Init(cfg.Observability.ServiceName)

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics()

	// Initialize PostgreSQL connection pool
	pool, err := db.NewPool(context.Background(), db.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer pool.Close()

	// NOTE: Database migrations run separately via the migrate command

	// Initialize object storage client for course assets and lecture videos
	storageClient, err := storage.NewClient(
		cfg.ObjectStorage.AccessKeyID,
		cfg.ObjectStorage.SecretAccessKey,
		cfg.ObjectStorage.BucketName,
		cfg.ObjectStorage.Endpoint,
		cfg.ObjectStorage.Region,
	)
	if err != nil {
		logger.Fatal("Failed to initialize object storage client", zap.Error(err))
	}

	// Catalog cache shared by all read paths
	catalog := cache.NewCatalog(cfg.Cache.CatalogTTLSeconds)

	// Initialize repositories
	courseRepo := repository.NewCourseRepository(pool)
	videoRepo := repository.NewVideoRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	coachRepo := repository.NewCoachRepository(pool)

	// Token manager for admin sessions
	tokenManager := jwt.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.SessionTTLHours)

	// Initialize HTTP client for event triggers
	httpClient := httpclient.NewStandardClient()

	// Initialize services
	authService := services.NewAuthService(userRepo, tokenManager)
	courseService := services.NewCourseService(courseRepo, videoRepo, storageClient, catalog, cfg, httpClient)
	lectureService := services.NewLectureService(videoRepo, courseRepo, storageClient, catalog, cfg, httpClient)
	userService := services.NewUserService(userRepo, catalog)
	coachService := services.NewCoachService(coachRepo, catalog)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	courseHandler := handlers.NewCourseHandler(courseService, cfg)
	lectureHandler := handlers.NewLectureHandler(lectureService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	coachHandler := handlers.NewCoachHandler(coachService)
	healthHandler := handlers.NewHealthHandler(pool.Ping, catalog.ItemCount)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS configuration - SECURITY: Only allow specific origins
	allowedOrigins := cfg.Server.AllowedOrigins
	// Allow localhost in development
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// SECURITY: Rate limiters to prevent abuse and DoS attacks
	generalRateLimiter := middleware.NewRateLimiter(100, 200) // 100 req/sec, burst of 200
	uploadRateLimiter := middleware.NewRateLimiter(5, 10)     // 5 req/sec, burst of 10 (uploads are heavy)
	authRateLimiter := middleware.NewRateLimiter(0.1, 5)      // 6 req/min, burst of 5 (login abuse prevention)
	defer generalRateLimiter.Stop()
	defer uploadRateLimiter.Stop()
	defer authRateLimiter.Stop()

	// Utility endpoints (not versioned - operational endpoints)
	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// API v1 routes
	v1 := router.Group("/api/v1")
	registerAPIRoutes(v1, tokenManager, generalRateLimiter, authRateLimiter, authHandler, courseHandler)
	registerAdminRoutes(router, tokenManager, generalRateLimiter, uploadRateLimiter,
		courseHandler, lectureHandler, userHandler, coachHandler)

	// Create HTTP server
	// SECURITY: Bind to all interfaces for Docker Compose networking
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       10 * time.Minute, // large video uploads
		WriteTimeout:      10 * time.Minute, // lecture streaming
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // SECURITY: 1 MB max header size
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
