package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mgpai22/tilawa/internal/document"
	"github.com/mgpai22/tilawa/internal/logging"
	"github.com/mgpai22/tilawa/internal/translate"
)

// TranslatorFactory builds a translator for one request's target language.
type TranslatorFactory func(
	ctx context.Context,
	opts translate.Options,
) (translate.Translator, error)

type Options struct {
	Port           int
	MaxUploadBytes int64
	Concurrency    int
	// nil disables the translate endpoint
	Translators TranslatorFactory
}

type Server struct {
	router  *chi.Mux
	manager *document.Manager
	logger  *logging.Logger
	opts    Options
}

func NewServer(
	manager *document.Manager,
	logger *logging.Logger,
	opts Options,
) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(requestLogger(logger))

	s := &Server{
		router:  router,
		manager: manager,
		logger:  logger,
		opts:    opts,
	}

	router.Get("/health", s.health)
	router.Route("/api/v1/documents", func(r chi.Router) {
		r.Get("/", s.listDocuments)
		r.Post("/", s.createDocument)
		r.Get("/active", s.activeDocument)
		r.Route("/{docID}", func(r chi.Router) {
			r.Get("/", s.getDocument)
			r.Post("/select", s.selectDocument)
			r.Post("/selection/{segmentID}", s.toggleSelection)
			r.Delete("/selection", s.clearSelection)
			r.Post("/merge", s.mergeSegments)
			r.Post("/validate", s.validateDocument)
			r.Get("/export", s.exportDocument)
			r.Post("/translate", s.translateDocument)
		})
	})

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.opts.Port)
	s.logger.Infow("API server starting", "addr", addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func requestLogger(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debugw("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
