package session

import "errors"

var (
	// ErrNotReady is returned by Lookup before both readiness signals fired.
	ErrNotReady = errors.New("session: not ready")
	// ErrUnreachable is returned by Lookup for a destination the current state may not visit.
	ErrUnreachable = errors.New("session: destination unreachable")
	// ErrUnknownDestination is returned by Lookup for a name missing from the registry.
	ErrUnknownDestination = errors.New("session: unknown destination")
	// ErrRouterStopped is returned by Start after Stop.
	ErrRouterStopped = errors.New("session: router stopped")
)
