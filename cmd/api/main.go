package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	_ "github.com/redmonkez12/course-api/docs" // Swagger docs
	"github.com/redmonkez12/course-api/internal/auth"
	"github.com/redmonkez12/course-api/internal/config"
	"github.com/redmonkez12/course-api/internal/course"
	httpServer "github.com/redmonkez12/course-api/internal/http"
	"github.com/redmonkez12/course-api/internal/logging"
	"github.com/redmonkez12/course-api/internal/ratelimit"
	"github.com/redmonkez12/course-api/internal/validation"
)

// @title           Course Catalog API
// @version         1.0
// @description     A REST API for managing users and the courses they own.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.basic BasicAuth

func main() {
	rootCmd := &cobra.Command{
		Use:           "course-api",
		Short:         "Course Catalog REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables or collection indexes",
		RunE:  runMigrate,
	}

	rootCmd.AddCommand(serveCmd, migrateCmd)

	// Allow running without subcommand (default to serve)
	rootCmd.RunE = serveCmd.RunE

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())

	s, err := openStores(cmd.Context(), cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer s.Close()

	if err := s.Migrate(cmd.Context()); err != nil {
		return err
	}

	logger.Info("schema is up to date", "driver", cfg.Database.Driver)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"driver", cfg.Database.Driver,
	)

	ctx := cmd.Context()

	s, err := openStores(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer s.Close()

	if err := s.Migrate(ctx); err != nil {
		return err
	}

	redisClient, err := initRedis(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	defer redisClient.Close()

	rateLimiter := ratelimit.NewLimiter(redisClient, map[string]ratelimit.Rule{
		ratelimit.PurposeAuth:     {Max: cfg.Auth.MaxFailedAttempts, Window: cfg.Auth.LockoutWindow},
		ratelimit.PurposeRegister: {Max: cfg.Auth.MaxRegistrations, Window: cfg.Auth.RegistrationWindow},
	})

	validator := validation.New()

	authService, err := auth.NewService(s.Users, validator, logger, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	courseService := course.NewService(s.Courses, validator, logger)

	router, err := httpServer.NewRouter(cfg, httpServer.Handlers{
		Users:          auth.NewHandler(authService, rateLimiter),
		Courses:        course.NewHandler(courseService),
		AuthMiddleware: auth.NewMiddleware(authService, rateLimiter),
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	server := httpServer.NewServer(
		cfg.Server.Address(),
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initRedis initializes the Redis connection and returns a Redis client
func initRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
