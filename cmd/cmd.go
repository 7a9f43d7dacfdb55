package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"instafeed/internal/config"
	"instafeed/internal/database/migrations"
	"instafeed/internal/form"
	"instafeed/internal/handlers"
	"instafeed/internal/repository"
	"instafeed/internal/router"
	"instafeed/internal/services"
	"instafeed/internal/session"
	"instafeed/internal/storage"
	"instafeed/internal/web"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "instafeed",
	Short:         "Photo feed web server",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := connectDB(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migrations.MigrateUp(db); err != nil {
			return err
		}

		version, err := migrations.LatestVersion()
		if err != nil {
			return err
		}
		log.Info().Uint("version", version).Msg("Database schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the configuration file")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// Run executes the command line
func Run() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	setupLogger(cfg.Log.Level)
	return cfg, nil
}

func connectDB(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	db, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info().Msg("Database connection established")
	return db, nil
}

func newRevocations(ctx context.Context, cfg config.RedisConfig) (session.RevocationStore, func(), error) {
	if cfg.Addr == "" {
		log.Warn().Msg("Redis not configured, sign-outs are kept in process memory")
		return session.NewMemoryRevocations(), func() {}, nil
	}

	rdb, err := session.NewRedisClient(ctx, cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("addr", cfg.Addr).Msg("Redis connection established")
	return session.NewRedisRevocations(rdb), func() { rdb.Close() }, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	db, err := connectDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.MigrateUp(db); err != nil {
		return err
	}

	revocations, closeRevocations, err := newRevocations(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer closeRevocations()

	files, err := storage.NewFromConfig(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	log.Info().Str("driver", cfg.Storage.Driver).Msg("Storage ready")

	renderer, err := web.NewRenderer()
	if err != nil {
		return err
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	photoRepo := repository.NewPhotoRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, revocations, cfg.JWT.Secret, cfg.JWT.TTL)
	userService := services.NewUserService(userRepo, files)
	photoService := services.NewPhotoService(photoRepo, files)
	hub := services.NewSessionHub()
	inflight := form.NewInFlight()

	// Initialize handlers
	pages := handlers.NewPages(renderer)
	cookie := handlers.SessionCookie{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.Secure,
		TTL:    cfg.JWT.TTL,
	}

	deps := router.Deps{
		Auth:           handlers.NewAuthHandler(authService, hub, pages, cookie),
		Photos:         handlers.NewPhotoHandler(photoService, pages, inflight, cfg.Upload.MaxPhotoBytes),
		Users:          handlers.NewUserHandler(userService, photoService, hub, pages, inflight, cfg.Upload.MaxAvatarBytes),
		Sessions:       handlers.NewWebSocketHandler(hub, cfg.CORS.AllowedOrigins),
		Pages:          pages,
		Resolver:       authService,
		CookieName:     cfg.Session.CookieName,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		StaticDir:      cfg.Server.StaticDir,
	}
	if media, ok := files.(http.Handler); ok {
		deps.Media = media
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(deps),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Hijacked WebSocket connections are not closed by Shutdown
	hub.CloseAll()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
	return nil
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
