package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"

	"spareeye/backend/internal/api"
	"spareeye/backend/internal/auth"
	"spareeye/backend/internal/config"
	"spareeye/backend/internal/database"
	"spareeye/backend/internal/llm"
	"spareeye/backend/internal/repository"
	"spareeye/backend/internal/resolver"
	"spareeye/backend/internal/service"
	"spareeye/backend/internal/speech"
	"spareeye/backend/internal/uploads"
)

const shutdownTimeout = 15 * time.Second

// App is the fully wired server.
type App struct {
	Config *config.Config
	Repo   repository.Repository
	Store  *uploads.Store
	Server *http.Server

	closers []func(context.Context) error
}

// NewApp builds the storage backend, providers, services and router for cfg.
// On error everything opened so far is closed again.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &App{Config: cfg}
	repo, err := a.openRepository(ctx)
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}
	a.Repo = repo

	limits := uploads.Limits{MaxFiles: cfg.MaxUploadFiles, MaxFileBytes: cfg.MaxUploadBytes}
	store, err := uploads.NewDiskStore(cfg.UploadDir, limits)
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}
	a.Store = store

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	diagnoser := llm.NewOpenAIProvider(llm.Options{
		APIKey:     cfg.OpenAIAPIKey,
		BaseURL:    cfg.OpenAIBaseURL,
		Model:      cfg.OpenAIModel,
		Timeout:    cfg.OpenAITimeout,
		MaxRetries: cfg.OpenAIMaxRetries,
		RetryWait:  cfg.OpenAIRetryWait,
	})
	synthesizer := speech.NewElevenLabsClient(speech.Options{
		APIKey:     cfg.ElevenLabsAPIKey,
		BaseURL:    cfg.ElevenLabsBaseURL,
		Model:      cfg.ElevenLabsModel,
		Timeout:    cfg.ElevenLabsTimeout,
		MaxRetries: 1,
	})

	requestService := service.NewRequestService(repo, store, resolver.New(store), diagnoser)
	userService := service.NewUserService(repo, tokens)
	settingsService := service.NewSettingsService(repo)
	speechService := service.NewSpeechService(synthesizer, settingsService, service.Voices{
		Male:   cfg.ElevenLabsVoiceMale,
		Female: cfg.ElevenLabsVoiceFemale,
	})

	router := api.NewRouter(api.Handlers{
		Requests: api.NewRequestHandler(requestService, limits),
		Users:    api.NewUserHandler(userService),
		Settings: api.NewSettingsHandler(settingsService),
		Speech:   api.NewSpeechHandler(speechService),
		Uploads:  store.FileServer(),
	}, api.RouterOptions{
		Tokens:             tokens,
		AllowedOrigins:     cfg.AllowedOrigins(),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	a.Server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled: analyze and tts wait on upstream providers.
		IdleTimeout:       120 * time.Second,
	}
	return a, nil
}

func (a *App) openRepository(ctx context.Context) (repository.Repository, error) {
	cfg := a.Config
	switch cfg.StorageDriver {
	case config.StorageRedis:
		rdb, err := database.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		slog.Info("Using Redis storage.", "addr", cfg.RedisAddr)
		return repository.NewRedisRepository(rdb), nil

	case config.StorageMongo:
		client, err := database.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		a.closers = append(a.closers, client.Disconnect)
		db := client.Database(cfg.MongoDatabase)
		if err := repository.EnsureMongoIndexes(ctx, db); err != nil {
			return nil, fmt.Errorf("failed to create mongo indexes: %w", err)
		}
		slog.Info("Using MongoDB storage.", "database", cfg.MongoDatabase)
		return repository.NewMongoRepository(db), nil

	default:
		db, err := database.InitDB(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return db.Close() })
		slog.Info("Successfully connected to SQLite database.", "path", cfg.DatabasePath)
		return repository.NewSQLiteRepository(db), nil
	}
}

// Close releases the storage connections in reverse order of opening.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Run loads the configuration, serves HTTP until SIGINT or SIGTERM, and
// shuts down gracefully. It returns the process exit code.
func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	logger := setupLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	logConfigSource()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := NewApp(ctx, cfg)
	if err != nil {
		slog.Error("Failed to build application", "error", err)
		return 1
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			slog.Error("Failed to close storage", "error", err)
		}
	}()

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", cfg.AppPort, "storage", cfg.StorageDriver)
		serveErr <- a.Server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			return 1
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received, draining connections...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
			return 1
		}
	}

	slog.Info("Server stopped.")
	return 0
}

// Migrate applies the SQLite schema and exits.
func Migrate() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}
	logger := setupLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		slog.Error("Failed to migrate database", "path", cfg.DatabasePath, "error", err)
		return 1
	}
	if err := db.Close(); err != nil {
		slog.Error("Failed to close database connection", "error", err)
		return 1
	}
	slog.Info("Database schema is up to date.", "path", cfg.DatabasePath)
	return 0
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

// setupLogger routes slog through a zap JSON core and makes it the default.
func setupLogger(logLevel string) *zap.Logger {
	var level zapcore.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = zapcore.DebugLevel
	case "WARN":
		level = zapcore.WarnLevel
	case "ERROR":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.TimeKey = "time"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = []string{"stdout"}

	logger, err := zapCfg.Build()
	if err != nil {
		slog.Error("Failed to build zap logger, keeping the default", "error", err)
		return zap.NewNop()
	}

	slog.SetDefault(slog.New(zapslog.NewHandler(logger.Core(), zapslog.WithCaller(true))))
	return logger
}
