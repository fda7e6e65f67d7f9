package cards

import (
	"github.com/matzehuels/kindred/pkg/errors"
)

// Registry holds a validated template set in load order.
type Registry struct {
	templates []*Template
	byName    map[string]*Template
}

// NewRegistry validates templates and indexes them by name. Names must be
// unique, every follow-up must name a template in the set, and a follow-up
// cannot have more roles than the template leading to it.
func NewRegistry(templates ...*Template) (*Registry, error) {
	r := &Registry{byName: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		if t == nil {
			return nil, errors.New(errors.ErrCodeInvalidTemplate, "nil template")
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byName[t.Name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidTemplate, "duplicate template %s", t.Name)
		}
		r.byName[t.Name] = t
		r.templates = append(r.templates, t)
	}
	for _, t := range r.templates {
		for _, f := range t.Followups() {
			next, ok := r.byName[f]
			if !ok {
				return nil, errors.New(errors.ErrCodeTemplateNotFound,
					"template %s follows up with unknown template %s", t.Name, f)
			}
			if next.Arity() > t.Arity() {
				return nil, errors.New(errors.ErrCodeInvalidTemplate,
					"follow-up %s needs %d roles, %s only has %d", f, next.Arity(), t.Name, t.Arity())
			}
		}
	}
	return r, nil
}

// Lookup returns the template with the given name.
func (r *Registry) Lookup(name string) (*Template, error) {
	t, ok := r.byName[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeTemplateNotFound, "template %s not found", name)
	}
	return t, nil
}

// All returns the templates in load order.
func (r *Registry) All() []*Template {
	out := make([]*Template, len(r.templates))
	copy(out, r.templates)
	return out
}

// Len returns the number of templates.
func (r *Registry) Len() int { return len(r.templates) }
