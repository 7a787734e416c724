package rest

import (
	"context"
	"fmt"
	"net/http"

	core_port "apt-trade-map/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server - наш REST API сервер.
type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// NewServer создает новый экземпляр сервера.
func NewServer(port string, allowedOrigins []string,
	searchHandler *SearchHandler,
	sessionHandler *SessionHandler,
	referenceHandler *ReferenceHandler,
	baseLogger core_port.LoggerPort) *Server {

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(baseLogger))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300, // 5 минут
	}))

	r.Route("/api/v1", func(r chi.Router) {
		// Справочники
		r.Get("/regions", referenceHandler.GetRegions)
		r.Get("/regions/{code}/dongs", referenceHandler.GetDongs)
		r.Get("/months", referenceHandler.GetMonths)
		r.Get("/dongs", referenceHandler.FindSigunguByDong)

		// Поиск
		r.Post("/searches", searchHandler.Search)

		// Сессии
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", sessionHandler.GetSession)
			r.Delete("/", sessionHandler.ResetSession)
			r.Post("/tabs", sessionHandler.OpenTab)
			r.Delete("/tabs/{key}", sessionHandler.CloseTab)
			r.Patch("/view", sessionHandler.UpdateViewOptions)
		})
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	return &Server{
		httpServer: srv,
		logger:     baseLogger,
	}
}

// Start запускает HTTP-сервер.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
