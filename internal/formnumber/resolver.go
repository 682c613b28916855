package formnumber

// Resolver maps form numbers back to the record that owns their prefix.
// It is an immutable snapshot; build a new one when the catalogue changes.
type Resolver[T any] struct {
	byPrefix map[string]T
	prefixes []string
}

// NewResolver indexes items by prefixOf. Later items win on duplicate prefixes.
func NewResolver[T any](items []T, prefixOf func(T) string) *Resolver[T] {
	r := &Resolver[T]{byPrefix: make(map[string]T, len(items))}
	raw := make([]string, 0, len(items))
	for _, item := range items {
		p := NormalizePrefix(prefixOf(item))
		if p == "" {
			continue
		}
		r.byPrefix[p] = item
		raw = append(raw, p)
	}
	r.prefixes = longestFirst(raw)
	return r
}

// Prefixes returns the known prefixes, longest first.
func (r *Resolver[T]) Prefixes() []string {
	out := make([]string, len(r.prefixes))
	copy(out, r.prefixes)
	return out
}

// Extract applies ExtractPrefix against the known prefixes.
func (r *Resolver[T]) Extract(formNumber string) string {
	return ExtractPrefix(formNumber, r.prefixes)
}

// Lookup returns the item registered under prefix.
func (r *Resolver[T]) Lookup(prefix string) (T, bool) {
	item, ok := r.byPrefix[NormalizePrefix(prefix)]
	return item, ok
}

// Resolve returns the item owning formNumber's prefix.
func (r *Resolver[T]) Resolve(formNumber string) (T, bool) {
	return r.Lookup(r.Extract(formNumber))
}

// Len reports the number of indexed prefixes.
func (r *Resolver[T]) Len() int {
	return len(r.byPrefix)
}
