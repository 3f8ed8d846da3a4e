package navigation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidScreen is returned for malformed registry entries.
var ErrInvalidScreen = errors.New("navigation: invalid screen")

// Registry is an immutable, ordered table of destinations.
type Registry struct {
	entries []Destination
	index   map[string]int
}

// NewRegistry validates ds and builds a registry. Names must be unique and
// every destination needs a reachability rule.
func NewRegistry(ds ...Destination) (*Registry, error) {
	r := &Registry{index: make(map[string]int, len(ds))}
	for _, d := range ds {
		if err := validate(d); err != nil {
			return nil, err
		}
		if _, dup := r.index[d.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidScreen, d.Name)
		}
		r.index[d.Name] = len(r.entries)
		r.entries = append(r.entries, d.clone())
	}
	return r, nil
}

func validate(d Destination) error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidScreen)
	}
	if d.Reach == nil {
		return fmt.Errorf("%w: %s has no reach rule", ErrInvalidScreen, d.Name)
	}
	seen := map[string]bool{}
	for _, t := range d.Tabs {
		if t.Name == "" || seen[t.Name] {
			return fmt.Errorf("%w: %s has an empty or duplicate tab", ErrInvalidScreen, d.Name)
		}
		seen[t.Name] = true
	}
	if d.Initial != "" && !seen[d.Initial] {
		return fmt.Errorf("%w: %s initial tab %q not declared", ErrInvalidScreen, d.Name, d.Initial)
	}
	return nil
}

// With returns a new registry where ds replace same-named entries in place
// and unknown names are appended. r is left untouched.
func (r *Registry) With(ds ...Destination) (*Registry, error) {
	merged := make([]Destination, len(r.entries))
	copy(merged, r.entries)
	for _, d := range ds {
		if i, ok := r.index[d.Name]; ok {
			merged[i] = d
			continue
		}
		merged = append(merged, d)
	}
	return NewRegistry(merged...)
}

// Reachable projects the registry onto v, preserving registry order.
func (r *Registry) Reachable(v Viewer) Graph {
	out := make(Graph, 0, len(r.entries))
	for _, d := range r.entries {
		if d.ReachableBy(v) {
			out = append(out, d.clone())
		}
	}
	return out
}

// Lookup returns the destination called name regardless of reachability.
func (r *Registry) Lookup(name string) (Destination, bool) {
	i, ok := r.index[name]
	if !ok {
		return Destination{}, false
	}
	return r.entries[i].clone(), true
}

// Names lists every registered name in order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.entries))
	for i, d := range r.entries {
		out[i] = d.Name
	}
	return out
}

// Len returns the number of destinations.
func (r *Registry) Len() int { return len(r.entries) }
