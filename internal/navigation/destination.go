// Package navigation holds the screen registry: every named destination the
// client can show, each tagged with a reachability rule over the viewer.
package navigation

import (
	"slices"

	"github.com/jask/wastewise/internal/auth"
)

// Viewer is what reachability rules may look at.
type Viewer struct {
	SignedIn bool
	Role     auth.Role
}

// Reach decides whether a destination is navigable for a viewer.
type Reach func(v Viewer) bool

// Always is reachable signed in or signed out. The router still yields an
// empty graph while the session is initializing.
func Always(Viewer) bool { return true }

// SignedOut is reachable only without an identity.
func SignedOut(v Viewer) bool { return !v.SignedIn }

// SignedIn is reachable for any identity regardless of role.
func SignedIn(v Viewer) bool { return v.SignedIn }

// RoleOnly is reachable for signed-in viewers holding role.
func RoleOnly(role auth.Role) Reach {
	return func(v Viewer) bool { return v.SignedIn && v.Role == role }
}

// Tab is one page of a tab navigator.
type Tab struct {
	Name  string
	Title string
	Body  string
}

// Destination is a registry entry. Destinations with Tabs are navigators;
// Initial names the tab shown first.
type Destination struct {
	Name    string
	Title   string
	Body    string
	Tabs    []Tab
	Initial string
	Reach   Reach
	// Rule is the textual form of Reach, kept for display and logs.
	Rule string
}

// ReachableBy reports whether v may navigate to d. A nil Reach is never reachable.
func (d Destination) ReachableBy(v Viewer) bool {
	return d.Reach != nil && d.Reach(v)
}

// IsNavigator reports whether d hosts tabs.
func (d Destination) IsNavigator() bool { return len(d.Tabs) > 0 }

// InitialTab returns the index of the initial tab, or 0.
func (d Destination) InitialTab() int {
	for i, t := range d.Tabs {
		if t.Name == d.Initial {
			return i
		}
	}
	return 0
}

func (d Destination) clone() Destination {
	d.Tabs = slices.Clone(d.Tabs)
	return d
}

// Graph is an ordered set of reachable destinations.
type Graph []Destination

// Names lists destination names in order.
func (g Graph) Names() []string {
	out := make([]string, len(g))
	for i, d := range g {
		out[i] = d.Name
	}
	return out
}

// Find returns the destination called name.
func (g Graph) Find(name string) (Destination, bool) {
	for _, d := range g {
		if d.Name == name {
			return d, true
		}
	}
	return Destination{}, false
}

// Has reports whether name is in the graph.
func (g Graph) Has(name string) bool {
	_, ok := g.Find(name)
	return ok
}

// Navigator returns the first tab navigator in the graph.
func (g Graph) Navigator() (Destination, bool) {
	for _, d := range g {
		if d.IsNavigator() {
			return d, true
		}
	}
	return Destination{}, false
}
