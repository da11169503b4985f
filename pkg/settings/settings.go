// Package settings loads the user configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/opgraph/config.toml, or
// ~/.config/opgraph/config.toml when XDG_CONFIG_HOME is unset. Every field
// is optional; a missing file yields [Default].
//
//	[layout]
//	box_width = 140
//	site_spacing = 150
//
//	[styles]
//	site = "#E0E7FF"
//	function = "#D1FAE5"
//
//	[view]
//	columns = ["Name", "Parents", "Input Bytes"]
//
//	[watch]
//	debounce = "500ms"
package settings

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/opgraph/opgraph/pkg/errors"
	"github.com/opgraph/opgraph/pkg/item"
	"github.com/opgraph/opgraph/pkg/model"
)

const (
	appName  = "opgraph"
	fileName = "config.toml"
)

// Settings is the decoded configuration file.
type Settings struct {
	Layout Layout `toml:"layout"`
	Styles Styles `toml:"styles"`
	View   View   `toml:"view"`
	Render Render `toml:"render"`
	Watch  Watch  `toml:"watch"`
}

// Layout overrides item.DefaultLayout. Zero fields keep the default.
type Layout struct {
	BoxWidth        float64 `toml:"box_width"`
	BoxHeight       float64 `toml:"box_height"`
	SiteSpacing     float64 `toml:"site_spacing"`
	ProgramIndent   float64 `toml:"program_indent"`
	ProgramSpacing  float64 `toml:"program_spacing"`
	FunctionIndent  float64 `toml:"function_indent"`
	FunctionSpacing float64 `toml:"function_spacing"`
}

// Styles overrides the fill of each item kind. Empty fields keep the
// default palette.
type Styles struct {
	Site     string `toml:"site"`
	Program  string `toml:"program"`
	Function string `toml:"function"`
}

// View selects the columns shown by the tree, table and export views.
type View struct {
	Columns []string `toml:"columns"`
}

// Render holds defaults for the render command.
type Render struct {
	Format  string `toml:"format"`
	NoCache bool   `toml:"no_cache"`
}

// Watch holds defaults for the watch command.
type Watch struct {
	Debounce string `toml:"debounce"`
}

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{
		Render: Render{Format: "svg"},
		Watch:  Watch{Debounce: "200ms"},
	}
}

// Dir returns the configuration directory.
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns the path of the configuration file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load decodes the file at path on top of [Default]. A missing file is not
// an error. Unknown keys are rejected so typos surface.
func Load(path string) (Settings, error) {
	s := Default()
	md, err := toml.DecodeFile(path, &s)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Default(), apperrors.New(apperrors.ErrCodeInvalidFormat,
			"config %s: unknown key %q", path, undecoded[0].String())
	}
	if _, err := s.Columns(); err != nil {
		return Default(), err
	}
	if _, err := s.Debounce(); err != nil {
		return Default(), err
	}
	return s, nil
}

// ItemLayout merges the layout overrides into item.DefaultLayout.
func (s Settings) ItemLayout() item.Layout {
	l := item.DefaultLayout()
	set := func(dst *float64, v float64) {
		if v > 0 {
			*dst = v
		}
	}
	set(&l.BoxWidth, s.Layout.BoxWidth)
	set(&l.BoxHeight, s.Layout.BoxHeight)
	set(&l.SiteSpacing, s.Layout.SiteSpacing)
	set(&l.ProgramIndent, s.Layout.ProgramIndent)
	set(&l.ProgramSpacing, s.Layout.ProgramSpacing)
	set(&l.FunctionIndent, s.Layout.FunctionIndent)
	set(&l.FunctionSpacing, s.Layout.FunctionSpacing)
	return l
}

// ItemStyles merges the fill overrides into model.DefaultStyles.
func (s Settings) ItemStyles() model.Styles {
	st := model.DefaultStyles()
	if s.Styles.Site != "" {
		st.Site.Fill = s.Styles.Site
	}
	if s.Styles.Program != "" {
		st.Program.Fill = s.Styles.Program
	}
	if s.Styles.Function != "" {
		st.Function.Fill = s.Styles.Function
	}
	return st
}

// ModelOptions returns model options carrying the layout and styles.
func (s Settings) ModelOptions() model.Options {
	st := s.ItemStyles()
	return model.Options{Layout: s.ItemLayout(), Styles: &st}
}

// Columns resolves the configured column headers. An empty list selects
// the important columns.
func (s Settings) Columns() ([]item.Column, error) {
	if len(s.View.Columns) == 0 {
		return ImportantColumns(), nil
	}
	return ParseColumns(s.View.Columns)
}

// Debounce parses the watch debounce delay. Empty means zero, which lets
// the watcher pick its default.
func (s Settings) Debounce() (time.Duration, error) {
	if s.Watch.Debounce == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.Watch.Debounce)
	if err != nil || d < 0 {
		return 0, apperrors.New(apperrors.ErrCodeInvalidValue,
			"watch.debounce: invalid duration %q", s.Watch.Debounce)
	}
	return d, nil
}

// ParseColumns resolves column headers, ignoring case.
func ParseColumns(names []string) ([]item.Column, error) {
	cols := make([]item.Column, 0, len(names))
	for _, n := range names {
		c, ok := item.ParseColumn(n)
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeInvalidColumn, "unknown column %q", n)
		}
		cols = append(cols, c)
	}
	return cols, nil
}

// ImportantColumns returns the columns shown by default.
func ImportantColumns() []item.Column {
	var cols []item.Column
	for _, c := range item.Columns() {
		if c.Important() {
			cols = append(cols, c)
		}
	}
	return cols
}
