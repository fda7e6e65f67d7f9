// Package api serves play sessions over HTTP.
//
// # Routes
//
//	GET    /healthz
//	GET    /sessions                      list stored sessions
//	POST   /sessions                      start a session, returns the first card
//	GET    /sessions/{id}                 session state and current card
//	DELETE /sessions/{id}
//	POST   /sessions/{id}/advance         {"followup": "name"} or {}
//	GET    /sessions/{id}/families/{n}    family 1, 2 or 3 (?format=json|dot|svg, ?all=true)
//
// Each live session's selector is guarded by its own mutex, so concurrent
// advances on one session are serialized while different sessions proceed
// in parallel. Sessions not in memory are resumed from the store.
package api

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/kindred/pkg/errors"
	"github.com/matzehuels/kindred/pkg/observability"
	"github.com/matzehuels/kindred/pkg/selector"
	"github.com/matzehuels/kindred/pkg/session"
	"github.com/matzehuels/kindred/pkg/setup"
)

// Config configures a [Server].
type Config struct {
	Runner *setup.Runner // required
	Store  session.Store // defaults to a MemoryStore
	Logger *log.Logger

	// Defaults are the options new sessions start from. Requests may override
	// everything except file paths.
	Defaults setup.Options
}

// Server is the HTTP session API.
type Server struct {
	runner   *setup.Runner
	store    session.Store
	logger   *log.Logger
	defaults setup.Options

	mu   sync.Mutex
	live map[string]*entry
}

// entry is one live session. mu serializes everything touching sel.
type entry struct {
	mu    sync.Mutex
	world *setup.World
	sel   *selector.Selector
	sess  *session.Session
}

// New creates a server.
func New(cfg Config) *Server {
	if cfg.Store == nil {
		cfg.Store = session.NewMemoryStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Server{
		runner:   cfg.Runner,
		store:    cfg.Store,
		logger:   cfg.Logger,
		defaults: cfg.Defaults,
		live:     make(map[string]*entry),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.health)
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.listSessions)
		r.Post("/", s.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Post("/advance", s.advance)
			r.Get("/families/{n}", s.getFamily)
		})
	})
	return r
}

// observe logs requests and reports them to the HTTP hooks under their
// route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", elapsed,
			"request_id", chimiddleware.GetReqID(r.Context()))
	})
}

// lookup returns the live entry for id, resuming it from the store when it
// is not in memory. On success the entry is returned locked.
func (s *Server) lookup(ctx context.Context, id string) (*entry, error) {
	s.mu.Lock()
	e, ok := s.live[id]
	if !ok {
		e = &entry{}
		s.live[id] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	if e.sel != nil {
		return e, nil
	}
	sess, err := s.store.Get(ctx, id)
	if err == nil {
		e.world, e.sel, err = sess.Resume(ctx, s.runner, selector.Options{Logger: s.logger})
		e.sess = sess
	}
	if err != nil {
		e.mu.Unlock()
		s.forget(id, e)
		return nil, err
	}
	s.logger.Debug("resumed session", "id", id, "week", e.sel.Week())
	return e, nil
}

func (s *Server) forget(id string, e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live[id] == e {
		delete(s.live, id)
	}
}

func (s *Server) remember(e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[e.sess.ID] = e
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidTemplate, errors.ErrCodeInvalidEdgeQuery:
		return http.StatusBadRequest
	case errors.ErrCodeSessionNotFound, errors.ErrCodeTemplateNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsatisfiable:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNoCurrentCard, errors.ErrCodeSelectorExhausted, errors.ErrCodeArityMismatch:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
