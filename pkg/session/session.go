// Package session persists play sessions between processes.
//
// A session does not store the world. Worlds are deterministic in their
// options, so a session keeps the options it was started with and the
// choices made so far; [Session.Resume] rebuilds the world and replays the
// choices onto a fresh selector.
//
// # Backends
//
//   - [MemoryStore]: in-process map for tests and the standalone API server
//   - [FileStore]: JSON files for the CLI (~/.config/kindred/sessions/)
//   - [MongoStore]: a MongoDB collection for multi-instance API deployments
//
// # Usage
//
//	world, _ := runner.Build(ctx, opts)
//	sel := world.NewSelector(selector.Options{})
//	sess := session.New(world)
//	sel.Advance(ctx, cards.NullChoice())
//	sess.Record(sel)
//	store.Set(ctx, sess)
//
//	// later, possibly in another process
//	sess, err := store.Get(ctx, id)
//	world, sel, err := sess.Resume(ctx, runner, selector.Options{})
package session

import (
	"context"
	stderrors "errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/kindred/pkg/cards"
	"github.com/matzehuels/kindred/pkg/errors"
	"github.com/matzehuels/kindred/pkg/selector"
	"github.com/matzehuels/kindred/pkg/setup"
)

// ErrNotFound is the cause of SESSION_NOT_FOUND errors returned by stores.
var ErrNotFound = stderrors.New("session not found")

// CardRef records a shown card by template and cast names.
type CardRef struct {
	Template string   `json:"template" bson:"template"`
	Cast     []string `json:"cast" bson:"cast"`
	Text     string   `json:"text" bson:"text"`
	Followup bool     `json:"followup,omitempty" bson:"followup,omitempty"`
}

// Session is the persisted state of one game.
type Session struct {
	ID      string        `json:"id" bson:"_id"`
	WorldID string        `json:"world_id" bson:"world_id"`
	Seed    uint64        `json:"seed" bson:"seed"`
	Options setup.Options `json:"options" bson:"options"`

	Week   int       `json:"week" bson:"week"`
	Cursor int       `json:"cursor" bson:"cursor"`
	Shown  []CardRef `json:"shown" bson:"shown"`

	// Choices holds the follow-up template of each advance, or "" for a
	// plain advance.
	Choices []string `json:"choices" bson:"choices"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID. A missing session returns a
	// SESSION_NOT_FOUND error wrapping [ErrNotFound].
	Get(ctx context.Context, id string) (*Session, error)

	// Set creates or replaces a session.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// List returns all sessions, most recently updated first.
	List(ctx context.Context) ([]*Session, error)

	// Close releases backend resources.
	Close() error
}

// New starts a session for w with a fresh random ID.
func New(w *setup.World) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		WorldID:   w.ID.String(),
		Seed:      w.Seed,
		Options:   w.Options,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Record copies the selector's progress into the session.
func (s *Session) Record(sel *selector.Selector) {
	shown := sel.Shown()
	choices := sel.Choices()

	s.Week = sel.Week()
	s.Cursor = sel.Cursor()
	s.Shown = make([]CardRef, len(shown))
	s.Choices = make([]string, len(choices))
	for i, c := range shown {
		s.Shown[i] = Ref(c, choices[i].HasFollowup())
		s.Choices[i] = choices[i].Followup
	}
	s.UpdatedAt = time.Now().UTC()
}

// Ref describes a card for storage.
func Ref(c cards.Card, followup bool) CardRef {
	cast := make([]string, len(c.Cast))
	for i, p := range c.Cast {
		cast[i] = p.FullName()
	}
	return CardRef{Template: c.Template.Name, Cast: cast, Text: c.Text(), Followup: followup}
}

// Resume rebuilds the session's world with r and replays its choices onto
// a new selector. Listeners in opts are not notified of replayed cards.
//
// If the rebuilt world differs from the recorded one, for example because a
// template file changed, INVALID_CONFIG is returned.
func (s *Session) Resume(ctx context.Context, r *setup.Runner, opts selector.Options) (*setup.World, *selector.Selector, error) {
	w, err := r.Build(ctx, s.Options)
	if err != nil {
		return nil, nil, err
	}
	if w.ID.String() != s.WorldID {
		return nil, nil, errors.New(errors.ErrCodeInvalidConfig,
			"session %s was recorded against world %s, options now build %s", s.ID, s.WorldID, w.ID)
	}

	sel := w.NewSelector(opts)
	choices := make([]cards.Choice, len(s.Choices))
	for i, name := range s.Choices {
		choices[i] = cards.FollowupChoice(name)
	}
	if err := sel.Replay(ctx, choices); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "resume session %s", s.ID)
	}
	if err := s.matches(sel.Shown()); err != nil {
		return nil, nil, err
	}
	return w, sel, nil
}

// matches checks replayed cards against the recorded ones.
func (s *Session) matches(shown []cards.Card) error {
	if len(shown) != len(s.Shown) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"session %s recorded %d cards, replay produced %d", s.ID, len(s.Shown), len(shown))
	}
	for i, c := range shown {
		got, want := Ref(c, false), s.Shown[i]
		if got.Template != want.Template || got.Text != want.Text || !slices.Equal(got.Cast, want.Cast) {
			return errors.New(errors.ErrCodeInvalidConfig,
				"session %s: week %d replayed %q, recorded %q", s.ID, i+1, got.Text, want.Text)
		}
	}
	return nil
}

func notFound(id string) error {
	return errors.Wrap(errors.ErrCodeSessionNotFound, ErrNotFound, "session %s", id)
}
