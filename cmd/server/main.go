package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/labstack/echo/v4"

	"tasktracker/docs" // swagger docs
	"tasktracker/internal/auth"
	"tasktracker/internal/cache"
	"tasktracker/internal/config"
	"tasktracker/internal/db"
	"tasktracker/internal/handler"
	"tasktracker/internal/repository"
	"tasktracker/internal/router"
	"tasktracker/internal/service"
)

// @title Task Tracker API
// @version 1.0
// @description Multi-tenant task tracker with JWT authentication.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.HideBanner = true

	gormDB, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	ctx := context.Background()
	if err := db.WaitForDB(ctx, gormDB, cfg.DBWaitAttempts, cfg.DBWaitInterval); err != nil {
		log.Fatalf("database unavailable: %v", err)
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("%v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(ctx); err != nil {
		log.Printf("Warning: redis unavailable, running without cache: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	// Initialize auth components
	hasher := auth.NewPasswordHasher(auth.DefaultBcryptCost)
	jwtService := auth.NewJWTService(cfg.SecretKey, cfg.AccessTokenTTL())
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	userService := service.NewUserService(userRepo, hasher)
	authService := service.NewAuthService(userRepo, userService, hasher, jwtService, tokenStore)
	taskService := service.NewTaskService(taskRepo)

	// Register routes
	router.Register(
		e,
		cfg,
		jwtService,
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(),
		handler.NewTaskHandler(taskService),
		handler.NewHealthHandler(gormDB),
	)

	docs.SwaggerInfo.BasePath = cfg.APIPrefix
	swaggerURL := "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
		swaggerURL = cfg.SwaggerHost + "/swagger/index.html"
		if !strings.HasPrefix(cfg.SwaggerHost, "http://") && !strings.HasPrefix(cfg.SwaggerHost, "https://") {
			swaggerURL = "http://" + swaggerURL
		}
	}
	log.Printf("Swagger documentation available at: %s", swaggerURL)

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server start: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				log.Println("Shutting down HTTP server...")
				return e.Shutdown(ctx)
			},
			"redis": func(ctx context.Context) error {
				return cacheClient.Close()
			},
			"database": func(ctx context.Context) error {
				sqlDB, err := gormDB.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		},
	)

	exitCode := <-wait
	log.Printf("Server exited with code: %d", exitCode)
	os.Exit(exitCode)
}
