// Package config resolves the lint configuration of a module root and the process
// settings read from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/termfx/gold/internal/imports"
)

// Configuration file names, in lookup order.
var (
	NativeFiles  = []string{".gold.yml", ".gold.yaml"}
	ForeignFiles = []string{".golangci.yml", ".golangci.yaml"}
)

// Origin tells where a configuration came from.
type Origin uint8

const (
	OriginDefault Origin = iota
	OriginNative
	OriginForeign
)

// MarshalText encodes o by name.
func (o Origin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o Origin) String() string {
	switch o {
	case OriginNative:
		return "native"
	case OriginForeign:
		return "foreign"
	default:
		return "default"
	}
}

// Settings holds per-rule options.
type Settings struct {
	F002 []string `yaml:"F002" json:"F002"` // import sections, in order
}

// Configuration is the lint configuration shared by every file of a module root.
type Configuration struct {
	// Enable lists the rules to run. Nil runs every rule; an empty list runs none.
	Enable   []string `yaml:"enable" json:"enable,omitempty"`
	Settings Settings `yaml:"settings" json:"settings"`
	Ignore   []string `yaml:"ignore" json:"ignore,omitempty"`

	Origin Origin `yaml:"-" json:"origin"`
	File   string `yaml:"-" json:"file,omitempty"` // path of the file it was read from
}

// DefaultSections are the import sections used when none are configured.
func DefaultSections() []string {
	return []string{imports.Standard, imports.Default}
}

// Default returns the built-in configuration: every rule enabled, standard imports
// before everything else.
func Default() *Configuration {
	return &Configuration{
		Settings: Settings{F002: DefaultSections()},
		Origin:   OriginDefault,
	}
}

// IsEnabled reports whether rule runs under c.
func (c *Configuration) IsEnabled(rule string) bool {
	if c.Enable == nil {
		return true
	}
	return slices.Contains(c.Enable, rule)
}

// Sections parses the import sections, resolving localmodule to modulePath.
func (c *Configuration) Sections(modulePath string) (imports.Sections, error) {
	return imports.ParseSections(c.Settings.F002, modulePath)
}

// Notice is the line announcing a configuration fallback, empty unless c was
// translated from another linter's file.
func (c *Configuration) Notice() string {
	if c.Origin != OriginForeign {
		return ""
	}
	return "Configuration: " + filepath.Base(c.File)
}

// Load resolves the configuration of dir: a native file wins over a foreign one, and
// the default applies when neither exists. A file that exists but does not parse is
// an error.
func Load(dir string) (*Configuration, error) {
	if path, ok := firstExisting(dir, NativeFiles); ok {
		return loadNative(path)
	}
	if path, ok := firstExisting(dir, ForeignFiles); ok {
		return loadForeign(path)
	}
	return Default(), nil
}

func firstExisting(dir string, names []string) (string, bool) {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

func loadNative(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := &Configuration{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Settings.F002 == nil {
		cfg.Settings.F002 = DefaultSections()
	}
	cfg.Origin = OriginNative
	cfg.File = path

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Configuration) validate() error {
	if _, err := c.Sections(""); err != nil {
		return err
	}
	for _, rule := range c.Enable {
		if rule == "" {
			return errors.New("empty rule identifier in enable")
		}
	}
	return nil
}
