// Package theme loads the colour palette and builds the terminal styles.
// Loading the palette is the client's asset load; the router treats its
// completion as one of the two readiness signals.
package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
)

var ErrInvalidPalette = errors.New("theme: invalid palette")

// Palette holds hex colours by role.
type Palette struct {
	Text        string `toml:"text"`
	Muted       string `toml:"muted"`
	Border      string `toml:"border"`
	Surface     string `toml:"surface"`
	Mantle      string `toml:"mantle"`
	Accent      string `toml:"accent"`
	Success     string `toml:"success"`
	Error       string `toml:"error"`
	TabActive   string `toml:"tab_active"`
	TabInactive string `toml:"tab_inactive"`
}

type paletteFile struct {
	Palette Palette `toml:"palette"`
}

// Default is the built-in palette. Tab tints follow the mobile tab bar.
func Default() Palette {
	return Palette{
		Text:        "#cdd6f4",
		Muted:       "#a6adc8",
		Border:      "#585b70",
		Surface:     "#313244",
		Mantle:      "#181825",
		Accent:      "#3d9c56",
		Success:     "#a6e3a1",
		Error:       "#f38ba8",
		TabActive:   "#3d9c56",
		TabInactive: "#737373",
	}
}

// Load reads a palette file. Missing keys keep their default colour. An empty
// path or a missing file yields the default palette.
func Load(path string) (Palette, error) {
	p := Default()
	if strings.TrimSpace(path) == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("read palette: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes palette TOML over the defaults.
func Parse(data string) (Palette, error) {
	file := paletteFile{Palette: Default()}
	md, err := toml.Decode(data, &file)
	if err != nil {
		return Default(), fmt.Errorf("decode palette: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Default(), fmt.Errorf("%w: unknown key %s", ErrInvalidPalette, undecoded[0])
	}
	if err := file.Palette.validate(); err != nil {
		return Default(), err
	}
	return file.Palette, nil
}

func (p Palette) validate() error {
	for name, v := range map[string]string{
		"text": p.Text, "muted": p.Muted, "border": p.Border, "surface": p.Surface,
		"mantle": p.Mantle, "accent": p.Accent, "success": p.Success, "error": p.Error,
		"tab_active": p.TabActive, "tab_inactive": p.TabInactive,
	} {
		if !isHex(v) {
			return fmt.Errorf("%w: %s = %q", ErrInvalidPalette, name, v)
		}
	}
	return nil
}

func isHex(s string) bool {
	if len(s) != 7 && len(s) != 4 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// Styles are the lipgloss styles the UI renders with.
type Styles struct {
	Palette Palette

	App         lipgloss.Style
	Header      lipgloss.Style
	HeaderBar   lipgloss.Style
	TabSep      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	Title       lipgloss.Style
	Body        lipgloss.Style
	Status      lipgloss.Style
	StatusErr   lipgloss.Style
	Footer      lipgloss.Style
	Key         lipgloss.Style
	HelpDesc    lipgloss.Style
	Label       lipgloss.Style
	Focused     lipgloss.Style
	Box         lipgloss.Style
}

func NewStyles(p Palette) Styles {
	c := func(s string) lipgloss.Color { return lipgloss.Color(s) }
	return Styles{
		Palette:   p,
		App:       lipgloss.NewStyle().Foreground(c(p.Text)),
		Header:    lipgloss.NewStyle().Foreground(c(p.Accent)).Bold(true),
		HeaderBar: lipgloss.NewStyle().Background(c(p.Mantle)).Foreground(c(p.Text)),
		TabSep:    lipgloss.NewStyle().Foreground(c(p.Border)).Background(c(p.Mantle)),
		ActiveTab: lipgloss.NewStyle().
			Background(c(p.Surface)).
			Foreground(c(p.TabActive)).
			Bold(true).
			Padding(0, 1),
		InactiveTab: lipgloss.NewStyle().
			Background(c(p.Mantle)).
			Foreground(c(p.TabInactive)).
			Padding(0, 1),
		Title:     lipgloss.NewStyle().Foreground(c(p.Accent)).Bold(true),
		Body:      lipgloss.NewStyle().Foreground(c(p.Text)),
		Status:    lipgloss.NewStyle().Foreground(c(p.Success)).Background(c(p.Surface)),
		StatusErr: lipgloss.NewStyle().Foreground(c(p.Error)).Background(c(p.Surface)),
		Footer:    lipgloss.NewStyle().Background(c(p.Mantle)),
		Key:       lipgloss.NewStyle().Foreground(c(p.Accent)).Bold(true).Background(c(p.Mantle)),
		HelpDesc:  lipgloss.NewStyle().Foreground(c(p.Muted)).Background(c(p.Mantle)),
		Label:     lipgloss.NewStyle().Foreground(c(p.Muted)),
		Focused:   lipgloss.NewStyle().Foreground(c(p.Accent)),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(p.Border)).
			Padding(0, 1),
	}
}
