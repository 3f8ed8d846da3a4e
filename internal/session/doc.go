// Package session owns the sign-in state of the client and decides which
// destinations are reachable at any moment.
//
// The Router is the single writer of State. It moves from StatusInitializing
// to a signed-out or signed-in status on the first auth event and flips between
// them on every later event. Nothing is reachable until both readiness signals
// (assets loaded, auth resolved) have fired; until then CurrentGraph is empty
// and the UI renders nothing.
package session
