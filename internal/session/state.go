package session

import (
	"github.com/jask/wastewise/internal/auth"
	"github.com/jask/wastewise/internal/navigation"
)

// Status is the router's state machine position.
type Status int

const (
	StatusInitializing Status = iota
	StatusUnauthenticated
	StatusAuthenticatedAdmin
	StatusAuthenticatedUser
)

func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticatedAdmin:
		return "authenticated-admin"
	case StatusAuthenticatedUser:
		return "authenticated-user"
	default:
		return "unknown"
	}
}

// State is one value of the session state cell.
type State struct {
	Status   Status
	Identity *auth.Identity
	Role     auth.Role
	// RoleErr is set when the role could not be resolved and the user role was assumed.
	RoleErr error
}

// SignedIn reports whether the state carries an identity.
func (s State) SignedIn() bool {
	return s.Status == StatusAuthenticatedAdmin || s.Status == StatusAuthenticatedUser
}

// Viewer projects the state for reachability rules.
func (s State) Viewer() navigation.Viewer {
	if !s.SignedIn() {
		return navigation.Viewer{}
	}
	return navigation.Viewer{SignedIn: true, Role: s.Role}
}

// Next is the total transition function: nil identity signs out, anything
// else signs in with role. A role other than admin is treated as user.
func Next(id *auth.Identity, role auth.Role, roleErr error) State {
	if id == nil {
		return State{Status: StatusUnauthenticated}
	}
	c := *id
	if role == auth.RoleAdmin && roleErr == nil {
		return State{Status: StatusAuthenticatedAdmin, Identity: &c, Role: auth.RoleAdmin}
	}
	return State{Status: StatusAuthenticatedUser, Identity: &c, Role: auth.RoleUser, RoleErr: roleErr}
}

func (s State) clone() State {
	if s.Identity != nil {
		c := *s.Identity
		s.Identity = &c
	}
	return s
}
