package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Input scopes. Exactly one is active at a time; see Model.ActiveScope.
const (
	scopeForm   = "form"
	scopeTabs   = "tabs"
	scopeScreen = "screen"
	scopePrompt = "prompt"
)

// anyScope marks a binding that applies in every scope.
const anyScope = "*"

// Binding attaches an action name to a key.Binding for a set of scopes.
type Binding struct {
	key.Binding
	Action string
	Scopes []string
}

// Bind builds a Binding; help is the footer label and the first key is shown.
func Bind(action, help string, scopes []string, keys ...string) Binding {
	label := ""
	if len(keys) > 0 {
		label = keys[0]
	}
	return Binding{
		Binding: key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, help)),
		Action:  action,
		Scopes:  scopes,
	}
}

// Keymap indexes bindings by scope, keeping declaration order within each.
type Keymap struct {
	byScope map[string][]Binding
	global  []Binding
}

func NewKeymap(bindings ...Binding) *Keymap {
	km := &Keymap{byScope: map[string][]Binding{}}
	for _, b := range bindings {
		if len(b.Scopes) == 0 {
			b.Scopes = []string{anyScope}
		}
		for _, s := range b.Scopes {
			if s == anyScope {
				km.global = append(km.global, b)
				continue
			}
			km.byScope[s] = append(km.byScope[s], b)
		}
	}
	return km
}

// Help lists the bindings active in scope, scoped ones first.
func (km *Keymap) Help(scope string) []key.Binding {
	active := km.active(scope)
	out := make([]key.Binding, 0, len(active))
	for _, b := range active {
		if b.Enabled() {
			out = append(out, b.Binding)
		}
	}
	return out
}

// Matches reports whether msg triggers action in scope.
func (km *Keymap) Matches(msg tea.KeyMsg, action, scope string) bool {
	for _, b := range km.active(scope) {
		if b.Action == action && key.Matches(msg, b.Binding) {
			return true
		}
	}
	return false
}

func (km *Keymap) active(scope string) []Binding {
	scoped := km.byScope[scope]
	if len(km.global) == 0 {
		return scoped
	}
	out := make([]Binding, 0, len(scoped)+len(km.global))
	out = append(out, scoped...)
	return append(out, km.global...)
}

func DefaultKeymap() *Keymap {
	signedIn := []string{scopeTabs, scopeScreen}
	tabs := []string{scopeTabs}
	form := []string{scopeForm}
	prompt := []string{scopePrompt}
	return NewKeymap(
		Bind("quit", "quit", signedIn, "q"),
		Bind("switch-tab-1", "tab 1", tabs, "1"),
		Bind("switch-tab-2", "tab 2", tabs, "2"),
		Bind("switch-tab-3", "tab 3", tabs, "3"),
		Bind("switch-tab-4", "tab 4", tabs, "4"),
		Bind("next-tab", "next tab", tabs, "tab"),
		Bind("goto", "go to", signedIn, "g", ":"),
		Bind("sign-out", "sign out", signedIn, "o"),
		Bind("back", "back", []string{scopeScreen}, "esc"),
		Bind("next-field", "next field", form, "tab", "down"),
		Bind("prev-field", "prev field", form, "shift+tab", "up"),
		Bind("submit", "submit", form, "enter"),
		Bind("toggle-form", "sign in / sign up", form, "ctrl+t"),
		Bind("select", "go", prompt, "enter"),
		Bind("complete", "complete", prompt, "tab"),
		Bind("close", "cancel", prompt, "esc"),
	)
}
