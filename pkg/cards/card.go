package cards

import (
	"strings"

	"github.com/matzehuels/kindred/pkg/errors"
	"github.com/matzehuels/kindred/pkg/population"
)

// Card is a template with one individual bound to each role. Cast[i] plays
// Template.Roles[i].
type Card struct {
	Template *Template
	Cast     []*population.Individual
}

// Roles returns the role to individual mapping.
func (c Card) Roles() map[string]*population.Individual {
	m := make(map[string]*population.Individual, len(c.Cast))
	for i, p := range c.Cast {
		m[c.Template.Roles[i]] = p
	}
	return m
}

// Role returns the individual playing the named role.
func (c Card) Role(name string) (*population.Individual, bool) {
	for i, r := range c.Template.Roles {
		if r == name {
			return c.Cast[i], true
		}
	}
	return nil, false
}

// Rebind builds a card for t with the same cast, position for position.
// Cast members beyond t's arity are dropped. A template with more roles than
// the cast returns BINDING_ARITY_MISMATCH.
func (c Card) Rebind(t *Template) (Card, error) {
	if t.Arity() > len(c.Cast) {
		return Card{}, errors.New(errors.ErrCodeArityMismatch,
			"follow-up %s needs %d roles, card %s has %d", t.Name, t.Arity(), c.Template.Name, len(c.Cast))
	}
	cast := make([]*population.Individual, t.Arity())
	copy(cast, c.Cast)
	return Card{Template: t, Cast: cast}, nil
}

// Text renders the template text, replacing each {role} with the full name
// of the individual playing it.
func (c Card) Text() string {
	if c.Template.Text == "" {
		return ""
	}
	pairs := make([]string, 0, 2*len(c.Cast))
	for i, p := range c.Cast {
		pairs = append(pairs, "{"+c.Template.Roles[i]+"}", p.FullName())
	}
	return strings.NewReplacer(pairs...).Replace(c.Template.Text)
}

// String returns "template(name, name, ...)".
func (c Card) String() string {
	names := make([]string, len(c.Cast))
	for i, p := range c.Cast {
		names[i] = p.FullName()
	}
	return c.Template.Name + "(" + strings.Join(names, ", ") + ")"
}

// Choice is the player's decision on the current card. The zero value is the
// null choice: advance to the next unseen card.
type Choice struct {
	Followup string
}

// NullChoice returns the choice that advances to the next card.
func NullChoice() Choice { return Choice{} }

// FollowupChoice returns a choice that rebinds the current cast to template.
func FollowupChoice(template string) Choice { return Choice{Followup: template} }

// HasFollowup reports whether the choice names a follow-up template.
func (c Choice) HasFollowup() bool { return c.Followup != "" }
