package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// Several deployments can then share one Redis instance without reading each
// other's entries.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "kindred:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// FamilyKey generates a prefixed key for solved family assignments.
func (k *ScopedKeyer) FamilyKey(opts FamilyKeyOpts) string {
	return k.prefix + k.inner.FamilyKey(opts)
}
