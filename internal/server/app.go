// Package server initializes and runs the winelog application server.
// It wires the database, object storage, the inference provider and the
// OAuth layer, and starts the HTTP server with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/gorilla/sessions"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/kakao"

	"github.com/winelog/winelog/internal/logging"
	"github.com/winelog/winelog/internal/server/config"
	"github.com/winelog/winelog/internal/server/httpapi"
	"github.com/winelog/winelog/internal/server/inference"
	"github.com/winelog/winelog/internal/server/repositories/repomanager"
	"github.com/winelog/winelog/internal/server/services"
	"github.com/winelog/winelog/internal/server/storage"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, err := storage.NewS3Store(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	client := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey))
	provider := inference.NewAnthropicProvider(client, cfg.InferenceModel)

	initOAuth(cfg)

	userService := services.NewUserService(db, rm, cfg)
	diaryService := services.NewDiaryService(db, rm, store, logger, cfg)
	wineService := services.NewWineService(db, rm, provider, cfg)

	srv := httpapi.NewServer(cfg, logger, userService, diaryService, wineService)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

// initOAuth registers the Kakao provider and the session store gothic uses
// during the OAuth round-trip.
func initOAuth(cfg *config.Config) {
	goth.UseProviders(kakao.New(cfg.KakaoKey, cfg.KakaoSecret, cfg.KakaoCallbackURL))

	store := sessions.NewCookieStore([]byte(cfg.SecretKey))
	store.MaxAge(600)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	gothic.Store = store
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
