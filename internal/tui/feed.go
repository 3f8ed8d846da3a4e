package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/wastewise/internal/session"
)

// Feed hands router snapshots to the program. Only the newest snapshot is
// kept, so Push never blocks the router.
type Feed struct {
	mu sync.Mutex
	ch chan session.Snapshot
}

func NewFeed() *Feed {
	return &Feed{ch: make(chan session.Snapshot, 1)}
}

// Push replaces any undelivered snapshot with s. Use it as a router listener.
func (f *Feed) Push(s session.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	select {
	case <-f.ch:
	default:
	}
	f.ch <- s
}

// Next waits for the next snapshot.
func (f *Feed) Next() tea.Cmd {
	return func() tea.Msg {
		return SnapshotMsg{Snapshot: <-f.ch}
	}
}
