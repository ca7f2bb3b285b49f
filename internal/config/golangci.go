package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type gciSettings struct {
	Sections []string `yaml:"sections"`
}

type settingsBlock struct {
	Gci *gciSettings `yaml:"gci"`
}

// golangciFile is the subset of a golangci-lint configuration gold understands. Both
// the v1 layout (linters-settings) and the v2 layout (linters.settings and
// formatters.settings) are read.
type golangciFile struct {
	LintersSettings *settingsBlock `yaml:"linters-settings"`
	Linters         *struct {
		Settings *settingsBlock `yaml:"settings"`
	} `yaml:"linters"`
	Formatters *struct {
		Settings *settingsBlock `yaml:"settings"`
	} `yaml:"formatters"`
	Run *struct {
		SkipDirs []string `yaml:"skip-dirs"`
	} `yaml:"run"`
	Issues *struct {
		ExcludeDirs []string `yaml:"exclude-dirs"`
	} `yaml:"issues"`
}

// gci sections gold has no equivalent for.
var unsupportedGciSections = map[string]bool{
	"blank":  true,
	"dot":    true,
	"alias":  true,
	"cgo":    true,
	"module": true,
}

func loadForeign(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var foreign golangciFile
	if err := yaml.Unmarshal(data, &foreign); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg := Default()
	cfg.Origin = OriginForeign
	cfg.File = path

	if sections := foreign.sections(); sections != nil {
		cfg.Settings.F002 = translateSections(sections)
	}
	if foreign.Run != nil {
		cfg.Ignore = append(cfg.Ignore, foreign.Run.SkipDirs...)
	}
	if foreign.Issues != nil {
		cfg.Ignore = append(cfg.Ignore, foreign.Issues.ExcludeDirs...)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (f *golangciFile) sections() []string {
	for _, block := range []*settingsBlock{f.LintersSettings, f.lintersV2(), f.formattersV2()} {
		if block != nil && block.Gci != nil && block.Gci.Sections != nil {
			return block.Gci.Sections
		}
	}
	return nil
}

func (f *golangciFile) lintersV2() *settingsBlock {
	if f.Linters == nil {
		return nil
	}
	return f.Linters.Settings
}

func (f *golangciFile) formattersV2() *settingsBlock {
	if f.Formatters == nil {
		return nil
	}
	return f.Formatters.Settings
}

// translateSections drops the gci sections gold cannot express. gci matches section
// names case-insensitively.
func translateSections(sections []string) []string {
	translated := make([]string, 0, len(sections))
	for _, section := range sections {
		name := strings.TrimSpace(section)
		lower := strings.ToLower(name)
		if unsupportedGciSections[lower] {
			slog.Debug("ignoring gci section", "section", name)
			continue
		}
		if strings.HasPrefix(lower, "prefix(") {
			name = "prefix(" + name[len("prefix("):]
		} else {
			name = lower
		}
		translated = append(translated, name)
	}
	return translated
}
