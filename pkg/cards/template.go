// Package cards defines card templates, the cards built from them and the
// up-front enumeration of every card the game can show.
//
// A [Template] names an ordered list of roles. A [Card] binds one distinct
// individual to each role. [Enumerate] produces every card for every template
// over a population: C(n, k) cards for a template with k roles and n
// individuals, each cast drawn as a strictly increasing index subset.
//
// Templates are loaded from TOML or YAML files (see [Load]) or from the
// built-in set ([Defaults]) and looked up by name through a [Registry].
package cards

import (
	"strings"

	"github.com/matzehuels/kindred/pkg/errors"
)

// Template describes a card: its roles in order, its text with {role}
// placeholders, and the follow-ups the player may pick.
type Template struct {
	Name  string   `json:"name" toml:"name" yaml:"name" bson:"name"`
	Roles []string `json:"roles" toml:"roles" yaml:"roles" bson:"roles"`
	Text  string   `json:"text,omitempty" toml:"text" yaml:"text" bson:"text,omitempty"`

	// Followup is the template a plain "continue" leads to, if any.
	Followup string `json:"followup,omitempty" toml:"followup" yaml:"followup" bson:"followup,omitempty"`

	// Choices are additional named decisions. A choice without a follow-up
	// advances to the next card.
	Choices []ChoiceSpec `json:"choices,omitempty" toml:"choices" yaml:"choices" bson:"choices,omitempty"`
}

// ChoiceSpec is one option printed on a card.
type ChoiceSpec struct {
	Label    string `json:"label" toml:"label" yaml:"label" bson:"label"`
	Followup string `json:"followup,omitempty" toml:"followup" yaml:"followup" bson:"followup,omitempty"`
}

// Arity returns the number of roles.
func (t *Template) Arity() int { return len(t.Roles) }

// Validate checks the template's own fields: a valid name, at least one role
// and unique, valid role names. Follow-up references are checked by
// [NewRegistry].
func (t *Template) Validate() error {
	if err := errors.ValidateTemplateName(t.Name); err != nil {
		return err
	}
	if len(t.Roles) == 0 {
		return errors.New(errors.ErrCodeInvalidTemplate, "template %s has no roles", t.Name)
	}
	seen := make(map[string]bool, len(t.Roles))
	for _, r := range t.Roles {
		if err := errors.ValidateRoleName(r); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidTemplate, err, "template %s", t.Name)
		}
		if seen[r] {
			return errors.New(errors.ErrCodeInvalidTemplate, "template %s repeats role %q", t.Name, r)
		}
		seen[r] = true
	}
	for i, c := range t.Choices {
		if strings.TrimSpace(c.Label) == "" {
			return errors.New(errors.ErrCodeInvalidTemplate, "template %s choice %d has no label", t.Name, i)
		}
	}
	return nil
}

// Followups returns every template name reachable from t in one step,
// without duplicates.
func (t *Template) Followups() []string {
	var out []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	add(t.Followup)
	for _, c := range t.Choices {
		add(c.Followup)
	}
	return out
}
