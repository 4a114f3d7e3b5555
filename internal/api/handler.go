// Package api implements the local segap HTTP front end.
// It exposes one survey session as a small JSON API.
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/segap/segap/pkg/questionnaire"
	"github.com/segap/segap/pkg/survey"
)

// Server serves a single survey session. All access to the controller is
// serialized by mu.
type Server struct {
	router *chi.Mux

	mu        sync.Mutex
	ctrl      *survey.Controller
	questions *questionnaire.QuestionSet

	sessionID string
	apiKey    string
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the access and session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSessionID sets the id reported in responses and JSON reports.
func WithSessionID(id string) Option {
	return func(s *Server) {
		s.sessionID = id
	}
}

// WithAPIKey requires the X-API-Key header on /api routes. Empty disables it.
func WithAPIKey(key string) Option {
	return func(s *Server) {
		s.apiKey = key
	}
}

// New creates a Server for ctrl, whose questions are described by questions.
func New(ctrl *survey.Controller, questions *questionnaire.QuestionSet, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		ctrl:      ctrl,
		questions: questions,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := s.router
	r.Use(middleware.RequestID)
	r.Use(s.accessLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))

		r.Get("/survey", s.handleGetSurvey)
		r.Put("/survey/answers", s.handlePutAnswers)
		r.Post("/survey/forward", s.handleForward)
		r.Post("/survey/back", s.handleBack)
		r.Post("/survey/restart", s.handleRestart)
		r.Get("/report", s.handleGetReport)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger logs one record per request.
func (s *Server) accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("access",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote", r.RemoteAddr),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
