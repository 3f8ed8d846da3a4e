package navigation

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

type tabEntry struct {
	Name  string `toml:"name"`
	Title string `toml:"title"`
	Body  string `toml:"body"`
}

type screenEntry struct {
	Name    string     `toml:"name"`
	Title   string     `toml:"title"`
	Body    string     `toml:"body"`
	Reach   string     `toml:"reach"`
	Initial string     `toml:"initial"`
	Tabs    []tabEntry `toml:"tab"`
}

// ScreensFile is the on-disk shape of a screen table:
//
//	version = 1
//
//	[[screen]]
//	name  = "NumOfSmartDustbin"
//	title = "Smart Dustbins"
//	reach = "signed_in && role == 'admin'"
type ScreensFile struct {
	Version int           `toml:"version"`
	Screen  []screenEntry `toml:"screen"`
}

// LoadFile reads destinations from a TOML screen table.
func LoadFile(path string) ([]Destination, error) {
	var f ScreensFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("decode screens %s: %w", path, err)
	}
	return f.destinations()
}

// Parse reads destinations from TOML text.
func Parse(data string) ([]Destination, error) {
	var f ScreensFile
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, fmt.Errorf("decode screens: %w", err)
	}
	return f.destinations()
}

func (f ScreensFile) destinations() ([]Destination, error) {
	if f.Version > 1 {
		return nil, fmt.Errorf("%w: unsupported screens file version %d", ErrInvalidScreen, f.Version)
	}
	out := make([]Destination, 0, len(f.Screen))
	for _, s := range f.Screen {
		reach, err := CompileRule(s.Reach)
		if err != nil {
			return nil, fmt.Errorf("screen %q: %w", s.Name, err)
		}
		d := Destination{Name: s.Name, Title: s.Title, Body: s.Body, Initial: s.Initial, Reach: reach, Rule: s.Reach}
		if d.Title == "" {
			d.Title = d.Name
		}
		for _, t := range s.Tabs {
			if t.Title == "" {
				t.Title = t.Name
			}
			d.Tabs = append(d.Tabs, Tab(t))
		}
		if err := validate(d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
