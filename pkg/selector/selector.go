// Package selector drives which card is shown next.
//
// A [Selector] walks a precomputed deck. Each [Selector.Advance] either
// rebinds the current card's cast to a follow-up template, leaving the deck
// cursor where it is, or takes the next card from the deck. Either way the new
// card is appended to the shown log, the week counter is incremented and
// listeners are notified.
//
// Advancing past the end of the deck without a follow-up returns
// SELECTOR_EXHAUSTED and changes nothing.
//
// A Selector is not safe for concurrent use; callers serialize Advance.
package selector

import (
	"context"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kindred/pkg/cards"
	"github.com/matzehuels/kindred/pkg/errors"
	"github.com/matzehuels/kindred/pkg/observability"
)

// TemplateSource resolves follow-up template names.
type TemplateSource interface {
	Lookup(name string) (*cards.Template, error)
}

// Listener is notified whenever a card becomes current.
type Listener interface {
	CardSelected(card cards.Card, week int)
}

// ListenerFunc adapts a function to [Listener].
type ListenerFunc func(card cards.Card, week int)

// CardSelected implements [Listener].
func (f ListenerFunc) CardSelected(card cards.Card, week int) { f(card, week) }

// Options configures a [Selector].
type Options struct {
	Templates TemplateSource // required for follow-up choices
	Listeners []Listener
	Logger    *log.Logger // defaults to a discard logger
}

// Selector is the card selection state of one game session.
type Selector struct {
	deck      []cards.Card
	cursor    int
	week      int
	current   cards.Card
	started   bool
	shown     []cards.Card
	choices   []cards.Choice
	templates TemplateSource
	listeners []Listener
	logger    *log.Logger
	replaying bool
}

// New creates a selector over deck with no current card, cursor 0 and week 0.
// The deck is not copied and must not be modified afterwards.
func New(deck []cards.Card, opts Options) *Selector {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Selector{
		deck:      deck,
		templates: opts.Templates,
		listeners: slices.Clone(opts.Listeners),
		logger:    logger,
	}
}

// Subscribe adds a listener for subsequent selections.
func (s *Selector) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Advance selects the next card.
//
// With a follow-up choice the current card's cast is rebound, position for
// position, onto the named template and the cursor is not moved. Without
// one the card at the cursor is taken and the cursor moves forward. The null
// choice bootstraps the first selection.
//
// Errors leave the selector unchanged: NO_CURRENT_CARD for a follow-up
// before any card is shown, TEMPLATE_NOT_FOUND for an unknown follow-up,
// BINDING_ARITY_MISMATCH when the follow-up has more roles than the current
// cast, and SELECTOR_EXHAUSTED at the end of the deck.
func (s *Selector) Advance(ctx context.Context, choice cards.Choice) (cards.Card, error) {
	var next cards.Card
	if choice.HasFollowup() {
		if !s.started {
			return cards.Card{}, errors.New(errors.ErrCodeNoCurrentCard, "follow-up %s without a current card", choice.Followup)
		}
		if s.templates == nil {
			return cards.Card{}, errors.New(errors.ErrCodeTemplateNotFound, "no template source for follow-up %s", choice.Followup)
		}
		t, err := s.templates.Lookup(choice.Followup)
		if err != nil {
			return cards.Card{}, err
		}
		next, err = s.current.Rebind(t)
		if err != nil {
			return cards.Card{}, err
		}
	} else {
		if s.cursor >= len(s.deck) {
			observability.Selector().OnExhausted(ctx, len(s.shown))
			return cards.Card{}, errors.New(errors.ErrCodeSelectorExhausted,
				"all %d cards have been shown", len(s.deck))
		}
		next = s.deck[s.cursor]
		s.cursor++
	}

	s.shown = append(s.shown, next)
	s.choices = append(s.choices, choice)
	s.week++
	s.current = next
	s.started = true

	if s.replaying {
		return next, nil
	}
	s.logger.Debug("card selected", "template", next.Template.Name, "week", s.week, "followup", choice.HasFollowup())
	observability.Selector().OnCardSelected(ctx, next.Template.Name, s.week, choice.HasFollowup())
	for _, l := range s.listeners {
		l.CardSelected(next, s.week)
	}
	return next, nil
}

// Current returns the current card, if any.
func (s *Selector) Current() (cards.Card, bool) {
	return s.current, s.started
}

// Week returns the number of cards shown so far.
func (s *Selector) Week() int { return s.week }

// Cursor returns the index of the next deck card.
func (s *Selector) Cursor() int { return s.cursor }

// Remaining returns how many deck cards have not been taken.
func (s *Selector) Remaining() int { return len(s.deck) - s.cursor }

// Exhausted reports whether the deck has no cards left.
func (s *Selector) Exhausted() bool { return s.cursor >= len(s.deck) }

// Shown returns every card shown so far, oldest first.
func (s *Selector) Shown() []cards.Card {
	return slices.Clone(s.shown)
}

// Choices returns the choices that produced the shown cards, in order.
// Passing them to [Selector.Replay] on a selector over the same deck restores
// this selector's state.
func (s *Selector) Choices() []cards.Choice {
	return slices.Clone(s.choices)
}

// Deck returns the precomputed deck.
func (s *Selector) Deck() []cards.Card {
	return s.deck
}

// Replay re-applies previously made choices to a fresh selector, restoring
// its cursor, week and shown log. Listeners and hooks are not notified. The
// selector must not have shown any card yet.
func (s *Selector) Replay(ctx context.Context, choices []cards.Choice) error {
	if s.started {
		return errors.New(errors.ErrCodeInvalidInput, "replay on a selector that already showed %d cards", s.week)
	}
	s.replaying = true
	defer func() { s.replaying = false }()
	for i, c := range choices {
		if _, err := s.Advance(ctx, c); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "replay choice %d", i)
		}
	}
	return nil
}
