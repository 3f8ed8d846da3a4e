package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/wastewise/internal/navigation"
	"github.com/jask/wastewise/internal/theme"
)

// authForm is the sign-in or sign-up form shown while signed out.
type authForm struct {
	signup bool
	inputs []textinput.Model
	labels []string
	focus  int
	busy   bool
}

func newAuthForm(dest string) *authForm {
	f := &authForm{signup: dest == navigation.Signup}
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	password := textinput.New()
	password.Placeholder = "at least 6 characters"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	f.inputs = []textinput.Model{email, password}
	f.labels = []string{"Email", "Password"}
	if f.signup {
		name := textinput.New()
		name.Placeholder = "optional"
		name.CharLimit = 64
		f.inputs = append(f.inputs, name)
		f.labels = append(f.labels, "Name")
	}
	f.inputs[0].Focus()
	return f
}

func (f *authForm) destination() string {
	if f.signup {
		return navigation.Signup
	}
	return navigation.Login
}

func (f *authForm) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (f *authForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *authForm) values() (email, password, name string) {
	email = strings.TrimSpace(f.inputs[0].Value())
	password = f.inputs[1].Value()
	if f.signup {
		name = strings.TrimSpace(f.inputs[2].Value())
	}
	return email, password, name
}

func (f *authForm) clearPassword() {
	f.inputs[1].SetValue("")
}

func (f *authForm) view(s theme.Styles, width int) string {
	title := "Sign in"
	hint := "ctrl+t to create an account"
	if f.signup {
		title = "Create account"
		hint = "ctrl+t to sign in instead"
	}
	lines := []string{s.Title.Render(title), ""}
	for i, in := range f.inputs {
		label := s.Label.Render(f.labels[i])
		if i == f.focus {
			label = s.Focused.Render(f.labels[i])
		}
		lines = append(lines, label, in.View(), "")
	}
	if f.busy {
		lines = append(lines, s.Label.Render("working..."))
	} else {
		lines = append(lines, s.Label.Render(hint))
	}
	return s.Box.Width(max(20, min(width-4, 48))).Render(strings.Join(lines, "\n"))
}
