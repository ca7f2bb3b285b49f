// Package imports classifies import paths into configured sections and checks that
// an import block lists its sections in order.
package imports

import (
	"errors"
	"fmt"
	"strings"
)

// Section names accepted in configuration.
const (
	Standard    = "standard"
	Default     = "default"
	LocalModule = "localmodule"
)

// ErrInvalidSection is returned for a section name that is not recognised.
var ErrInvalidSection = errors.New("invalid import section")

// SectionKind tells how a section matches import paths.
type SectionKind uint8

const (
	SectionStandard SectionKind = iota
	SectionDefault
	SectionPrefix
)

// Section is one group of the configured ordering.
type Section struct {
	Name   string // as written in configuration
	Kind   SectionKind
	Prefix string // SectionPrefix only
}

// ParseSection parses "standard", "default", "prefix(P)" or "localmodule". The local
// module section is a prefix section on modulePath; without a module path it matches
// nothing.
func ParseSection(name, modulePath string) (Section, error) {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == Standard:
		return Section{Name: name, Kind: SectionStandard}, nil
	case trimmed == Default:
		return Section{Name: name, Kind: SectionDefault}, nil
	case trimmed == LocalModule:
		return Section{Name: name, Kind: SectionPrefix, Prefix: modulePath}, nil
	case strings.HasPrefix(trimmed, "prefix(") && strings.HasSuffix(trimmed, ")"):
		prefix := strings.TrimSuffix(strings.TrimPrefix(trimmed, "prefix("), ")")
		if prefix == "" {
			return Section{}, fmt.Errorf("%w: %q has an empty prefix", ErrInvalidSection, name)
		}
		return Section{Name: name, Kind: SectionPrefix, Prefix: prefix}, nil
	default:
		return Section{}, fmt.Errorf("%w: %q", ErrInvalidSection, name)
	}
}

// Sections is the ordered section list of one configuration.
type Sections []Section

// ParseSections parses every name in order.
func ParseSections(names []string, modulePath string) (Sections, error) {
	sections := make(Sections, 0, len(names))
	for _, name := range names {
		s, err := ParseSection(name, modulePath)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, nil
}

// Classify returns the index of the section path belongs to. A standard section
// claims standard library packages outright; otherwise the prefix section with the
// longest matching prefix wins, then the default section. ok is false when no section
// applies.
func (s Sections) Classify(path string) (index int, ok bool) {
	defaultIndex, prefixIndex := -1, -1
	longest := 0

	for i, section := range s {
		switch section.Kind {
		case SectionStandard:
			if IsStandard(path) {
				return i, true
			}
		case SectionDefault:
			defaultIndex = i
		case SectionPrefix:
			if section.Prefix != "" && strings.HasPrefix(path, section.Prefix) && len(section.Prefix) > longest {
				prefixIndex, longest = i, len(section.Prefix)
			}
		}
	}

	switch {
	case prefixIndex >= 0:
		return prefixIndex, true
	case defaultIndex >= 0:
		return defaultIndex, true
	default:
		return -1, false
	}
}
