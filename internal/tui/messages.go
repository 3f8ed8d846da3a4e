package tui

import "github.com/jask/wastewise/internal/session"

// SnapshotMsg carries a router snapshot into the update loop.
type SnapshotMsg struct {
	Snapshot session.Snapshot
}

type authDoneMsg struct {
	action string
	err    error
}
