package tui

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/wastewise/internal/auth"
	"github.com/jask/wastewise/internal/logging"
	"github.com/jask/wastewise/internal/navigation"
	"github.com/jask/wastewise/internal/session"
	"github.com/jask/wastewise/internal/theme"
)

type fakeAccounts struct {
	mu      sync.Mutex
	calls   []string
	signErr error
}

func (a *fakeAccounts) record(s string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, s)
}

func (a *fakeAccounts) SignIn(_ context.Context, email, _ string) (auth.Identity, error) {
	a.record("in:" + email)
	return auth.Identity{UID: email}, a.signErr
}

func (a *fakeAccounts) SignUp(_ context.Context, email, _, name string) (auth.Identity, error) {
	a.record("up:" + email + ":" + name)
	return auth.Identity{UID: email}, a.signErr
}

func (a *fakeAccounts) SignOut(context.Context) error {
	a.record("out")
	return nil
}

type harness struct {
	router   *session.Router
	accounts *fakeAccounts
	model    Model
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	r := session.New(navigation.Default(), session.Options{
		Resolver: auth.ResolverFunc(func(_ context.Context, id auth.Identity) (auth.Role, error) {
			if id.UID == "admin" {
				return auth.RoleAdmin, nil
			}
			return auth.RoleUser, nil
		}),
		Logger: logging.Discard(),
	})
	acc := &fakeAccounts{}
	m := NewModel(context.Background(), Options{
		Accounts:  acc,
		Navigator: r,
		Styles:    theme.NewStyles(theme.Default()),
		Logger:    logging.Discard(),
	})
	return &harness{router: r, accounts: acc, model: m}
}

func (h *harness) sync() {
	h.send(SnapshotMsg{Snapshot: h.router.Snapshot()})
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	return cmd
}

func (h *harness) keys(s ...string) {
	for _, k := range s {
		switch k {
		case "enter":
			h.send(tea.KeyMsg{Type: tea.KeyEnter})
		case "esc":
			h.send(tea.KeyMsg{Type: tea.KeyEsc})
		case "tab":
			h.send(tea.KeyMsg{Type: tea.KeyTab})
		case "ctrl+t":
			h.send(tea.KeyMsg{Type: tea.KeyCtrlT})
		default:
			h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		}
	}
}

func (h *harness) signIn(uid string) {
	h.router.OnReadinessChange(true, true)
	h.router.OnAuthEvent(context.Background(), &auth.Identity{UID: uid, Email: uid + "@example.com"})
	h.sync()
}

func TestBlankUntilReady(t *testing.T) {
	h := newHarness(t)
	h.sync()
	require.False(t, h.model.Ready())
	require.Empty(t, h.model.View())

	h.router.OnAuthEvent(context.Background(), nil)
	h.sync()
	require.Empty(t, h.model.View())

	h.router.OnReadinessChange(true, false)
	h.sync()
	require.True(t, h.model.Ready())
	require.Equal(t, navigation.Login, h.model.Root())
	require.Contains(t, h.model.View(), "Sign in")
}

func TestKeysIgnoredWhileBlank(t *testing.T) {
	h := newHarness(t)
	h.keys("q")
	require.False(t, h.model.quitting)
}

func TestStaleSnapshotIgnored(t *testing.T) {
	h := newHarness(t)
	h.router.OnReadinessChange(true, true)
	h.router.OnAuthEvent(context.Background(), nil)
	old := h.router.Snapshot()
	h.signIn("bob")
	require.Equal(t, navigation.UserTabs, h.model.Root())

	h.send(SnapshotMsg{Snapshot: old})
	require.Equal(t, navigation.UserTabs, h.model.Root())
}

func TestUserNavigatesTabsAndScreens(t *testing.T) {
	h := newHarness(t)
	h.signIn("bob")
	require.Equal(t, navigation.UserTabs, h.model.Root())
	require.Equal(t, "HomePage", h.model.ActiveTab())

	h.keys("3")
	require.Equal(t, "ComplainPage", h.model.ActiveTab())
	h.keys("tab")
	require.Equal(t, "StorePage", h.model.ActiveTab())

	h.keys("g", "Invoice", "enter")
	require.Equal(t, []string{"Invoice"}, h.model.Stack())
	require.Equal(t, scopeScreen, h.model.ActiveScope())
	require.Contains(t, h.model.View(), "Invoice Page")

	h.keys("g", "profilepage", "enter")
	require.Equal(t, []string{"Invoice", "ProfilePage"}, h.model.Stack())

	h.keys("esc", "esc")
	require.Empty(t, h.model.Stack())
	require.Equal(t, scopeTabs, h.model.ActiveScope())
}

func TestGotoReportsUnreachableAndSuggestions(t *testing.T) {
	h := newHarness(t)
	h.signIn("bob")

	h.keys("g", "AdminTabs", "enter")
	require.True(t, h.model.statusErr)
	require.Contains(t, h.model.status, "unreachable")
	require.Empty(t, h.model.Stack())

	h.keys("g", "Invoce", "enter")
	require.True(t, h.model.statusErr)
	require.Contains(t, h.model.status, "did you mean Invoice")

	h.keys("g", "Invo", "tab", "enter")
	require.Equal(t, []string{"Invoice"}, h.model.Stack())
}

func TestGotoTabByName(t *testing.T) {
	h := newHarness(t)
	h.signIn("bob")
	h.keys("g", "Invoice", "enter")
	h.keys("g", "BulkPage", "enter")
	require.Empty(t, h.model.Stack())
	require.Equal(t, "BulkPage", h.model.ActiveTab())
}

func TestAdminGetsAdminTabs(t *testing.T) {
	h := newHarness(t)
	h.signIn("admin")
	require.Equal(t, navigation.AdminTabs, h.model.Root())
	require.Equal(t, "HomeDash", h.model.ActiveTab())
	view := h.model.View()
	require.Contains(t, view, "Complaints")
	require.Contains(t, view, "(admin)")
}

func TestSignOutDropsStack(t *testing.T) {
	h := newHarness(t)
	h.signIn("bob")
	h.keys("g", "AddBulkPage", "enter")
	require.Len(t, h.model.Stack(), 1)

	cmd := h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'o'}})
	require.NotNil(t, cmd)
	h.send(cmd())
	require.Equal(t, []string{"out"}, h.accounts.calls)

	h.router.OnAuthEvent(context.Background(), nil)
	h.sync()
	require.Equal(t, navigation.Login, h.model.Root())
	require.Empty(t, h.model.Stack())
	require.Equal(t, scopeForm, h.model.ActiveScope())
}

func TestRoleChangeResetsRoot(t *testing.T) {
	h := newHarness(t)
	h.signIn("bob")
	h.keys("2", "g", "Invoice", "enter")

	h.router.OnAuthEvent(context.Background(), &auth.Identity{UID: "admin"})
	h.sync()
	require.Equal(t, navigation.AdminTabs, h.model.Root())
	require.Equal(t, "HomeDash", h.model.ActiveTab())
	require.Equal(t, []string{"Invoice"}, h.model.Stack())
}

func TestLoginFormSubmits(t *testing.T) {
	h := newHarness(t)
	h.router.OnReadinessChange(true, true)
	h.router.OnAuthEvent(context.Background(), nil)
	h.sync()

	h.keys("a@example.com", "tab", "secret1")
	cmd := h.send(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	h.send(cmd())
	require.Equal(t, []string{"in:a@example.com"}, h.accounts.calls)
	require.False(t, h.model.statusErr)
}

func TestSignupFormAndFailure(t *testing.T) {
	h := newHarness(t)
	h.accounts.signErr = auth.ErrEmailTaken
	h.router.OnReadinessChange(true, true)
	h.router.OnAuthEvent(context.Background(), nil)
	h.sync()

	h.keys("ctrl+t")
	require.Equal(t, navigation.Signup, h.model.Root())
	require.Contains(t, h.model.View(), "Create account")

	h.keys("b@example.com", "tab", "secret1", "tab", "Bea")
	cmd := h.send(tea.KeyMsg{Type: tea.KeyEnter})
	h.send(cmd())
	require.Equal(t, []string{"up:b@example.com:Bea"}, h.accounts.calls)
	require.True(t, h.model.statusErr)
	require.Contains(t, h.model.status, "already registered")
	require.Empty(t, h.model.form.inputs[1].Value())

	h.keys("ctrl+t")
	require.Equal(t, navigation.Login, h.model.Root())
}

func TestFeedKeepsNewest(t *testing.T) {
	f := NewFeed()
	f.Push(session.Snapshot{Seq: 1})
	f.Push(session.Snapshot{Seq: 2})
	msg := f.Next()()
	require.Equal(t, uint64(2), msg.(SnapshotMsg).Snapshot.Seq)
}

func TestFooterShowsScopeBindings(t *testing.T) {
	h := newHarness(t)
	h.signIn("bob")
	footer := h.model.renderFooter()
	require.Contains(t, footer, "go to")
	require.True(t, strings.Contains(footer, "sign out"))
}
