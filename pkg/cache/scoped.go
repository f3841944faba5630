package cache

// ScopedKeyer wraps a Keyer with a prefix so several boards or tenants can
// share one backend without colliding.
//
// Example usage:
//
//	// Keys of one server instance group
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "crossboard:v1:")
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

// LinkageKey generates a prefixed linkage key.
func (k *ScopedKeyer) LinkageKey(dataHash string, opts LinkageKeyOpts) string {
	return k.prefix + k.inner.LinkageKey(dataHash, opts)
}

// RenderKey generates a prefixed render key.
func (k *ScopedKeyer) RenderKey(specHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(specHash, opts)
}
