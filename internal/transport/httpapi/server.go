package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/rs/cors"

	"github.com/sandevgo/coworker/internal/config"
	"github.com/sandevgo/coworker/pkg/log"
)

// Server serves the JSON API. It satisfies srv.Service.
type Server struct {
	http *http.Server
}

func NewServer(ctx context.Context, cfg *config.ServerConfig, h *Handler) *Server {
	router := chi.NewRouter()
	router.Use(cors.New(cors.Options{
		AllowCredentials: true,
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept"},
	}).Handler)
	router.Use(requestLogger(ctx))
	h.Routes(router)

	return &Server{
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.http.Addr).Msg("starting http server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("shutting down http server")
	return s.http.Shutdown(ctx)
}

// requestLogger attaches the app logger to each request context and logs the
// request at debug level once served.
func requestLogger(appCtx context.Context) func(http.Handler) http.Handler {
	logger := log.FromCtx(appCtx)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("duration", time.Since(start)).
				Msg("request served")
		})
	}
}
