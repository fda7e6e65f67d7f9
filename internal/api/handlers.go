package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/kindred/pkg/buildinfo"
	"github.com/matzehuels/kindred/pkg/cards"
	"github.com/matzehuels/kindred/pkg/errors"
	"github.com/matzehuels/kindred/pkg/graph"
	"github.com/matzehuels/kindred/pkg/render/nodelink"
	"github.com/matzehuels/kindred/pkg/selector"
	"github.com/matzehuels/kindred/pkg/session"
)

// SessionResponse is the JSON shape of a session.
type SessionResponse struct {
	ID            string      `json:"id"`
	WorldID       string      `json:"world_id"`
	Seed          uint64      `json:"seed"`
	Compatibility int         `json:"compatibility"`
	Families      []string    `json:"families"`
	Week          int         `json:"week"`
	Cursor        int         `json:"cursor"`
	Remaining     int         `json:"remaining"`
	Exhausted     bool        `json:"exhausted"`
	Card          *graph.Card `json:"card,omitempty"`
}

// SessionSummary is one entry of the session list.
type SessionSummary struct {
	ID      string `json:"id"`
	WorldID string `json:"world_id"`
	Seed    uint64 `json:"seed"`
	Week    int    `json:"week"`
	Updated string `json:"updated_at"`
}

// AdvanceRequest names an optional follow-up template.
type AdvanceRequest struct {
	Followup string `json:"followup,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	opts := s.defaults
	if err := decodeBody(r, &opts); err != nil {
		s.respondError(w, err)
		return
	}
	// File paths are server configuration.
	opts.Templates = s.defaults.Templates
	opts.Surnames = s.defaults.Surnames
	opts.Refresh = false

	world, err := s.runner.Build(r.Context(), opts)
	if err != nil {
		s.respondError(w, err)
		return
	}
	e := &entry{
		world: world,
		sel:   world.NewSelector(selector.Options{Logger: s.logger}),
		sess:  session.New(world),
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.sel.Advance(r.Context(), cards.NullChoice()); err != nil {
		s.respondError(w, err)
		return
	}
	e.sess.Record(e.sel)
	if err := s.store.Set(r.Context(), e.sess); err != nil {
		s.respondError(w, err)
		return
	}
	s.remember(e)
	s.logger.Info("session started", "id", e.sess.ID, "world", world.ID, "deck", len(world.Deck))
	respondJSON(w, http.StatusCreated, e.response())
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	defer e.mu.Unlock()
	respondJSON(w, http.StatusOK, e.response())
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	out := make([]SessionSummary, len(list))
	for i, sess := range list {
		out[i] = SessionSummary{
			ID:      sess.ID,
			WorldID: sess.WorldID,
			Seed:    sess.Seed,
			Week:    sess.Week,
			Updated: sess.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.respondError(w, err)
		return
	}
	s.mu.Lock()
	delete(s.live, id)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) advance(w http.ResponseWriter, r *http.Request) {
	var req AdvanceRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	e, err := s.lookup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	defer e.mu.Unlock()

	if _, err := e.sel.Advance(r.Context(), cards.FollowupChoice(req.Followup)); err != nil {
		s.respondError(w, err)
		return
	}
	e.sess.Record(e.sel)
	if err := s.store.Set(r.Context(), e.sess); err != nil {
		// The selector is now ahead of the store; the next request resumes
		// from what was stored.
		e.sel = nil
		s.forget(e.sess.ID, e)
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, e.response())
}

func (s *Server) getFamily(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "family must be 1, 2 or 3"))
		return
	}
	e, err := s.lookup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	g, err := e.world.Family(n)
	e.mu.Unlock()
	if err != nil {
		s.respondError(w, err)
		return
	}

	q := r.URL.Query()
	all, _ := strconv.ParseBool(q.Get("all"))
	f := graph.FromFamily(g, graph.Options{PresentOnly: !all})

	switch format := q.Get("format"); format {
	case "", "json":
		respondJSON(w, http.StatusOK, f)
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = io.WriteString(w, nodelink.ToDOT(f, nodelink.Options{Detailed: true, ShowAbsent: all}))
	case "svg":
		svg, err := nodelink.RenderSVG(r.Context(), nodelink.ToDOT(f, nodelink.Options{Detailed: true, ShowAbsent: all}))
		if err != nil {
			s.respondError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "unknown format %q", format))
	}
}

func (e *entry) response() SessionResponse {
	resp := SessionResponse{
		ID:            e.sess.ID,
		WorldID:       e.sess.WorldID,
		Seed:          e.sess.Seed,
		Compatibility: e.world.Compatibility,
		Families:      []string{e.world.One.Surname(), e.world.Two.Surname()},
		Week:          e.sel.Week(),
		Cursor:        e.sel.Cursor(),
		Remaining:     e.sel.Remaining(),
		Exhausted:     e.sel.Exhausted(),
	}
	if c, ok := e.sel.Current(); ok {
		gc := graph.FromCard(c)
		resp.Card = &gc
	}
	return resp
}

// decodeBody decodes an optional JSON body into v. An empty body leaves v
// untouched.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !stderrors.Is(err, io.EOF) {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	respondJSON(w, status, ErrorResponse{Code: string(code), Message: errors.UserMessage(err)})
}
