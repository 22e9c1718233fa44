// Command server is a reference wiring of the library: configuration,
// logging, database, optional redis, the users permission layer, and a CRUD
// endpoint set mounted through viewset. Applications are expected to copy
// this shape, not import it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/shree-dhimal/commoncore/cache"
	"github.com/shree-dhimal/commoncore/config"
	"github.com/shree-dhimal/commoncore/middleware"
	"github.com/shree-dhimal/commoncore/response"
	"github.com/shree-dhimal/commoncore/users"
	"github.com/shree-dhimal/commoncore/viewset"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	if err := run(cfg); err != nil {
		log.Fatal("server error: ", err)
	}
}

func run(cfg *config.Config) error {
	logger, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() {
		if err := logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	db, err := config.SetupDatabase(&cfg.Database, logger.Logger)
	if err != nil {
		return fmt.Errorf("setup database: %w", err)
	}
	defer closeDatabase(db)

	if cfg.Server.Mode == gin.DebugMode {
		if err := users.Migrate(db); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		logger.Info("auto migration completed")
	}

	var rdb *redis.Client
	var cacheClient *cache.Client
	if cfg.Redis.Enabled {
		rdb, err = config.SetupRedis(&cfg.Redis, logger.Logger)
		if err != nil {
			return fmt.Errorf("setup redis: %w", err)
		}
		defer rdb.Close()
		cacheClient = cache.New(rdb)
	}

	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	engine.Use(
		middleware.Recovery(logger.Logger),
		middleware.RequestID(),
		middleware.Logger(logger.Logger),
		middleware.CORSWithConfig(resolveCORSConfig(cfg.Server.Mode, cfg.Server.CORS.AllowOrigins)),
	)

	engine.GET("/health", healthHandler(db, rdb))

	checker := users.NewChecker(db, cacheClient)
	api := engine.Group("/api/v1")
	api.Use(identityMiddleware(db))

	userRoutes := api.Group("/users")
	userRoutes.Use(users.RequirePermission(checker, "user"))
	userSet := viewset.New[users.User](db, "user",
		viewset.WithChecker[users.User](checker),
		viewset.WithSortFields[users.User]("id", "name", "email"),
		viewset.WithFilterFields[users.User]("name", "email"),
	)
	userSet.Register(userRoutes, "")

	return serve(cfg, engine, logger.Logger)
}

// identityMiddleware resolves the acting user from the X-User-ID header. It
// stands in for real authentication, which applications wire themselves (a
// session layer or an auth.TokenIssuer backed middleware).
func identityMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		if raw == "" {
			c.Next()
			return
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			c.Next()
			return
		}

		var user users.User
		if err := db.WithContext(c.Request.Context()).First(&user, uint(id)).Error; err != nil {
			c.Next()
			return
		}
		users.SetCurrentUser(c, &user)
		c.Next()
	}
}

// healthHandler pings the database and, when configured, redis.
func healthHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, response.Envelope{
				Success: false,
				Message: "database unavailable",
				Errors:  err.Error(),
			})
			return
		}

		if rdb != nil {
			if err := rdb.Ping(c.Request.Context()).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, response.Envelope{
					Success: false,
					Message: "redis unavailable",
					Errors:  err.Error(),
				})
				return
			}
		}

		response.Success(c, gin.H{"status": "ok"})
	}
}

// resolveCORSConfig applies configured origins, denying cross-origin requests
// in release mode when no allowlist is configured.
func resolveCORSConfig(mode string, configuredAllowOrigins []string) middleware.CORSConfig {
	corsConfig := middleware.DefaultCORSConfig()

	if len(configuredAllowOrigins) > 0 {
		corsConfig.AllowOrigins = configuredAllowOrigins
		return corsConfig
	}

	if mode == gin.ReleaseMode {
		corsConfig.AllowOrigins = []string{}
	}

	return corsConfig
}

// serve starts the HTTP server and blocks until a shutdown signal is
// received, then shuts down gracefully with a 5-second deadline.
func serve(cfg *config.Config, engine *gin.Engine, logger *slog.Logger) error {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	logger.Info("server stopped")
	return nil
}

func closeDatabase(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		slog.Error("database close error", slog.Any("error", err))
	}
}
