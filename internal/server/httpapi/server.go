// Package httpapi exposes the winelog services over HTTP: Kakao OAuth login,
// the diary and wine endpoints, and the AI analysis operations.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/winelog/winelog/internal/logging"
	"github.com/winelog/winelog/internal/server/config"
	"github.com/winelog/winelog/internal/server/inference"
	"github.com/winelog/winelog/internal/server/models"
	"github.com/winelog/winelog/internal/server/services"
)

// UserService is the identity surface the transport needs.
type UserService interface {
	LoginWithKakao(ctx context.Context, profile services.KakaoProfile) (*models.User, *services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// DiaryService is the diary surface the transport needs.
type DiaryService interface {
	CreateWineDiary(ctx context.Context, userID int64, wine services.WineInput,
		input services.DiaryInput, images map[string][]byte) (*services.DiaryEntry, error)
	Get(ctx context.Context, userID, seq int64) (*services.DiaryEntry, error)
	ListForUser(ctx context.Context, userID int64, offset, limit int) ([]*services.DiaryEntry, error)
	ListPublic(ctx context.Context, offset, limit int) ([]*services.DiaryEntry, error)
	Update(ctx context.Context, userID, seq int64, upd services.DiaryUpdate) (*services.DiaryEntry, error)
	Delete(ctx context.Context, userID, seq int64) error
}

// WineService is the catalog/analysis surface the transport needs.
type WineService interface {
	Get(ctx context.Context, id int64) (*models.Wine, error)
	List(ctx context.Context, offset, limit int) ([]*models.Wine, error)
	AnalyzeImages(ctx context.Context, images [][]byte) (*inference.WineDescription, error)
	TasteProfile(ctx context.Context, req inference.TasteRequest) (*inference.TastingNotes, error)
}

// Server is the HTTP front of the application.
type Server struct {
	address       string
	logger        logging.Logger
	users         UserService
	diaries       DiaryService
	wines         WineService
	jwtSecret     []byte
	refreshTTL    time.Duration
	frontURL      string
	maxUploadSize int64
}

// NewServer wires the transport to its services.
func NewServer(cfg *config.Config, l logging.Logger, us UserService, ds DiaryService, ws WineService) *Server {
	return &Server{
		address:       cfg.EndpointAddr,
		logger:        l.With("module", "http_server"),
		users:         us,
		diaries:       ds,
		wines:         ws,
		jwtSecret:     []byte(cfg.SecretKey),
		refreshTTL:    cfg.RefreshTokenValidityDuration,
		frontURL:      cfg.FrontURL,
		maxUploadSize: cfg.MaxUploadSize,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	// the front-end is served from a different origin and authenticates
	// with cookies, so credentials must be allowed
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.frontURL},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/auth/{provider}", s.handleAuthBegin)
		r.Get("/auth/{provider}/callback", s.handleAuthCallback)
		r.Post("/auth/refresh", s.handleAuthRefresh)
		r.Post("/auth/logout", s.handleAuthLogout)

		r.Get("/diary/public", s.handleDiaryListPublic)
		r.Get("/wines", s.handleWineList)
		r.Get("/wines/{id}", s.handleWineGet)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Use(httprate.Limit(
				60,
				1*time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
			))

			r.Get("/auth/me", s.handleAuthMe)

			r.Post("/diary", s.handleDiaryCreate)
			r.Get("/diary", s.handleDiaryList)
			r.Get("/diary/{seq}", s.handleDiaryGet)
			r.Patch("/diary/{seq}", s.handleDiaryUpdate)
			r.Delete("/diary/{seq}", s.handleDiaryDelete)

			r.Post("/diary/wine-analysis", s.handleWineAnalysis)
			r.Post("/diary/wine-taste", s.handleWineTaste)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// requestLogger logs one line per request with status and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
		)
	})
}
