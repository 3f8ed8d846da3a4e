// Package tui is the terminal client. It renders nothing until the session
// router is ready, then shows the root destination of the current graph.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/wastewise/internal/auth"
	"github.com/jask/wastewise/internal/navigation"
	"github.com/jask/wastewise/internal/session"
	"github.com/jask/wastewise/internal/theme"
)

// Accounts performs the sign-in flows. Results reach the UI through router
// snapshots, not through return values.
type Accounts interface {
	SignIn(ctx context.Context, email, password string) (auth.Identity, error)
	SignUp(ctx context.Context, email, password, displayName string) (auth.Identity, error)
	SignOut(ctx context.Context) error
}

// Navigator resolves destination names against the current session.
type Navigator interface {
	Lookup(name string) (navigation.Destination, error)
}

type Options struct {
	Accounts  Accounts
	Navigator Navigator
	Feed      *Feed
	Styles    theme.Styles
	Keys      *Keymap
	Logger    *slog.Logger
}

type Model struct {
	ctx      context.Context
	accounts Accounts
	nav      Navigator
	feed     *Feed
	styles   theme.Styles
	keys     *Keymap
	log      *slog.Logger

	snap    session.Snapshot
	hasSnap bool

	root      string
	activeTab int
	stack     []string
	form      *authForm

	prompt    textinput.Model
	prompting bool

	width     int
	height    int
	status    string
	statusErr bool
	quitting  bool
}

func NewModel(ctx context.Context, opts Options) Model {
	keys := opts.Keys
	if keys == nil {
		keys = DefaultKeymap()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	prompt := textinput.New()
	prompt.Prompt = "go to: "
	prompt.CharLimit = 64
	return Model{
		ctx:      ctx,
		accounts: opts.Accounts,
		nav:      opts.Navigator,
		feed:     opts.Feed,
		styles:   opts.Styles,
		keys:     keys,
		log:      logger.With("component", "tui"),
		prompt:   prompt,
		width:    100,
		height:   32,
	}
}

func (m Model) Init() tea.Cmd {
	if m.feed == nil {
		return nil
	}
	return m.feed.Next()
}

// Ready reports whether the UI has anything to show.
func (m Model) Ready() bool {
	return m.hasSnap && m.snap.Ready && m.snap.State.Status != session.StatusInitializing && len(m.snap.Graph) > 0
}

// Root names the destination at the bottom of the stack.
func (m Model) Root() string { return m.root }

// Stack lists pushed stack screens, bottom first.
func (m Model) Stack() []string { return append([]string(nil), m.stack...) }

// ActiveTab returns the name of the selected tab, or "" outside a navigator.
func (m Model) ActiveTab() string {
	d, ok := m.rootDestination()
	if !ok || !d.IsNavigator() || m.activeTab >= len(d.Tabs) {
		return ""
	}
	return d.Tabs[m.activeTab].Name
}

func (m Model) ActiveScope() string {
	switch {
	case m.prompting:
		return scopePrompt
	case m.form != nil:
		return scopeForm
	case len(m.stack) > 0:
		return scopeScreen
	default:
		return scopeTabs
	}
}

func (m *Model) SetStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) SetError(err error) {
	if err == nil {
		m.status = ""
		m.statusErr = false
		return
	}
	m.status = err.Error()
	m.statusErr = true
}

func (m Model) rootDestination() (navigation.Destination, bool) {
	return m.snap.Graph.Find(m.root)
}

// applySnapshot re-derives the visible route from a new graph. The stack is
// cut at the first destination that is no longer reachable.
func (m *Model) applySnapshot(s session.Snapshot) {
	if m.hasSnap && s.Seq <= m.snap.Seq {
		return
	}
	prevStatus := m.snap.State.Status
	m.snap, m.hasSnap = s, true
	if !m.Ready() {
		m.root, m.stack, m.form, m.prompting = "", nil, nil, false
		return
	}

	g := s.Graph
	for i, name := range m.stack {
		if !g.Has(name) {
			m.stack = m.stack[:i]
			break
		}
	}

	if nav, ok := g.Navigator(); ok {
		m.form = nil
		if m.root != nav.Name || prevStatus != s.State.Status {
			m.root = nav.Name
			m.activeTab = nav.InitialTab()
		}
		return
	}

	m.stack = nil
	m.prompting = false
	if m.root == "" || !g.Has(m.root) {
		m.root = g[0].Name
	}
	if m.form == nil || m.form.destination() != m.root {
		m.form = newAuthForm(m.root)
	}
}

func (m *Model) switchForm() tea.Cmd {
	next := navigation.Signup
	if m.root == navigation.Signup {
		next = navigation.Login
	}
	if !m.snap.Graph.Has(next) {
		return nil
	}
	m.root = next
	m.form = newAuthForm(next)
	return textinput.Blink
}

func (m *Model) submitForm() tea.Cmd {
	if m.form == nil || m.form.busy || m.accounts == nil {
		return nil
	}
	email, password, name := m.form.values()
	m.form.busy = true
	ctx, accounts := m.ctx, m.accounts
	if m.form.signup {
		return func() tea.Msg {
			_, err := accounts.SignUp(ctx, email, password, name)
			return authDoneMsg{action: "sign up", err: err}
		}
	}
	return func() tea.Msg {
		_, err := accounts.SignIn(ctx, email, password)
		return authDoneMsg{action: "sign in", err: err}
	}
}

func (m *Model) signOut() tea.Cmd {
	if m.accounts == nil {
		return nil
	}
	ctx, accounts := m.ctx, m.accounts
	return func() tea.Msg {
		return authDoneMsg{action: "sign out", err: accounts.SignOut(ctx)}
	}
}

// goTo opens name: a tab of the current navigator, the navigator itself, or a
// stack screen.
func (m *Model) goTo(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if root, ok := m.rootDestination(); ok {
		for i, t := range root.Tabs {
			if strings.EqualFold(t.Name, name) || strings.EqualFold(t.Title, name) {
				m.activeTab = i
				m.stack = nil
				return nil
			}
		}
	}
	d, err := m.lookup(name)
	if errors.Is(err, session.ErrUnknownDestination) {
		if guess, ok := navigation.Suggest(name, m.snap.Graph.Names()); ok {
			if !strings.EqualFold(guess, name) {
				return fmt.Errorf("unknown screen %q, did you mean %s?", name, guess)
			}
			d, err = m.lookup(guess)
		}
	}
	if err != nil {
		return err
	}
	switch {
	case d.Name == m.root:
		m.stack = nil
	case d.IsNavigator():
		return fmt.Errorf("%s is not available here", d.Name)
	case len(m.stack) > 0 && m.stack[len(m.stack)-1] == d.Name:
	default:
		m.stack = append(m.stack, d.Name)
	}
	return nil
}

func (m Model) lookup(name string) (navigation.Destination, error) {
	if m.nav != nil {
		return m.nav.Lookup(name)
	}
	if d, ok := m.snap.Graph.Find(name); ok {
		return d, nil
	}
	return navigation.Destination{}, fmt.Errorf("%w: %s", session.ErrUnknownDestination, name)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case SnapshotMsg:
		m.applySnapshot(msg.Snapshot)
		var next tea.Cmd
		if m.feed != nil {
			next = m.feed.Next()
		}
		return m, next
	case authDoneMsg:
		if m.form != nil {
			m.form.busy = false
		}
		if msg.err != nil {
			m.log.Info("auth action failed", "action", msg.action, "err", msg.err)
			if m.form != nil {
				m.form.clearPassword()
			}
			m.SetError(fmt.Errorf("%s: %w", msg.action, msg.err))
			return m, nil
		}
		m.SetStatus(msg.action + " ok")
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if !m.Ready() {
			return m, nil
		}
		return m.handleKey(msg)
	}

	if m.prompting {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	if m.form != nil {
		return m, m.form.update(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	scope := m.ActiveScope()
	switch scope {
	case scopePrompt:
		switch {
		case m.keys.Matches(msg, "close", scope):
			m.prompting = false
			m.prompt.Blur()
			return m, nil
		case m.keys.Matches(msg, "complete", scope):
			if guess, ok := navigation.Suggest(m.prompt.Value(), m.snap.Graph.Names()); ok {
				m.prompt.SetValue(guess)
				m.prompt.CursorEnd()
			}
			return m, nil
		case m.keys.Matches(msg, "select", scope):
			m.prompting = false
			m.prompt.Blur()
			if err := m.goTo(m.prompt.Value()); err != nil {
				m.SetError(err)
				return m, nil
			}
			m.SetStatus("")
			return m, nil
		}
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd

	case scopeForm:
		switch {
		case m.keys.Matches(msg, "toggle-form", scope):
			return m, m.switchForm()
		case m.keys.Matches(msg, "next-field", scope):
			return m, m.form.move(1)
		case m.keys.Matches(msg, "prev-field", scope):
			return m, m.form.move(-1)
		case m.keys.Matches(msg, "submit", scope):
			return m, m.submitForm()
		}
		return m, m.form.update(msg)
	}

	if m.keys.Matches(msg, "quit", scope) {
		m.quitting = true
		return m, tea.Quit
	}
	if m.keys.Matches(msg, "goto", scope) {
		m.prompting = true
		m.prompt.SetValue("")
		return m, m.prompt.Focus()
	}
	if m.keys.Matches(msg, "sign-out", scope) {
		return m, m.signOut()
	}
	if scope == scopeScreen && m.keys.Matches(msg, "back", scope) {
		m.stack = m.stack[:len(m.stack)-1]
		return m, nil
	}
	if scope == scopeTabs {
		root, _ := m.rootDestination()
		if m.keys.Matches(msg, "next-tab", scope) && len(root.Tabs) > 0 {
			m.activeTab = (m.activeTab + 1) % len(root.Tabs)
			return m, nil
		}
		for i := range root.Tabs {
			if m.keys.Matches(msg, fmt.Sprintf("switch-tab-%d", i+1), scope) {
				m.activeTab = i
				return m, nil
			}
		}
	}
	return m, nil
}
