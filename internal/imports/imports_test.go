package imports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSections(t *testing.T, names ...string) Sections {
	t.Helper()
	s, err := ParseSections(names, "example.com/me")
	require.NoError(t, err)
	return s
}

func imp(path string) Import {
	return Import{Path: path, Lines: []string{`"` + path + `"`}}
}

func TestParseSection(t *testing.T) {
	tests := []struct {
		name   string
		kind   SectionKind
		prefix string
	}{
		{"standard", SectionStandard, ""},
		{"default", SectionDefault, ""},
		{"prefix(github.com/termfx)", SectionPrefix, "github.com/termfx"},
		{"localmodule", SectionPrefix, "example.com/me"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseSection(tt.name, "example.com/me")
			require.NoError(t, err)
			assert.Equal(t, tt.kind, s.Kind)
			assert.Equal(t, tt.prefix, s.Prefix)
		})
	}
}

func TestParseSectionInvalid(t *testing.T) {
	for _, name := range []string{"std", "prefix()", "prefix(x", ""} {
		_, err := ParseSection(name, "")
		assert.ErrorIs(t, err, ErrInvalidSection, name)
	}
}

func TestClassify(t *testing.T) {
	sections := mustSections(t, "standard", "default", "prefix(github.com/termfx)")

	tests := []struct {
		path  string
		index int
	}{
		{"fmt", 0},
		{"net/http", 0},
		{"log/slog", 0},
		{"github.com/stretchr/testify", 1},
		{"github.com/termfx/gold/core", 2},
	}

	for _, tt := range tests {
		index, ok := sections.Classify(tt.path)
		assert.True(t, ok, tt.path)
		assert.Equal(t, tt.index, index, tt.path)
	}
}

func TestClassifyLongestPrefixWins(t *testing.T) {
	sections := mustSections(t, "prefix(a)", "prefix(ab)")

	index, ok := sections.Classify("abc")
	require.True(t, ok)
	assert.Equal(t, 1, index)

	index, ok = sections.Classify("axe")
	require.True(t, ok)
	assert.Equal(t, 0, index)
}

func TestClassifyIsDeterministic(t *testing.T) {
	sections := mustSections(t, "standard", "prefix(github.com)", "default")

	first, _ := sections.Classify("github.com/x/y")
	for range 10 {
		index, ok := sections.Classify("github.com/x/y")
		assert.True(t, ok)
		assert.Equal(t, first, index)
	}
}

func TestClassifyUnclassified(t *testing.T) {
	sections := mustSections(t, "standard")

	_, ok := sections.Classify("github.com/x/y")
	assert.False(t, ok)
}

func TestClassifyLocalModuleWithoutModule(t *testing.T) {
	sections, err := ParseSections([]string{"standard", "localmodule"}, "")
	require.NoError(t, err)

	_, ok := sections.Classify("anything/at/all")
	assert.False(t, ok)
}

func TestAnalyzeSorted(t *testing.T) {
	sections := mustSections(t, "standard", "default")

	a := Analyze(sections, []Import{imp("fmt"), imp("os"), imp("github.com/x/y")})
	assert.Nil(t, a.Problem)
	assert.False(t, a.Fixable())
}

func TestAnalyzeUnsorted(t *testing.T) {
	sections := mustSections(t, "standard", "default")

	a := Analyze(sections, []Import{imp("github.com/x/y"), imp("fmt"), imp("os")})
	require.NotNil(t, a.Problem)
	assert.Equal(t, Unsorted, a.Problem.Kind)
	assert.Equal(t, 1, a.Problem.Index)
	assert.Equal(t, `unsorted import "fmt"`, a.Problem.Message())
	assert.True(t, a.Fixable())

	assert.Equal(t, "(\n\t\"fmt\"\n\t\"os\"\n\n\t\"github.com/x/y\"\n)", Render(a.Groups))
}

func TestAnalyzeReportsFirstProblemOnly(t *testing.T) {
	sections := mustSections(t, "standard", "prefix(b)", "prefix(c)")

	a := Analyze(sections, []Import{imp("c/1"), imp("b/1"), imp("x/1"), imp("fmt")})
	require.NotNil(t, a.Problem)
	assert.Equal(t, Unsorted, a.Problem.Kind)
	assert.Equal(t, "b/1", a.Problem.Path)
	assert.Equal(t, 1, a.Unclassified)
	assert.False(t, a.Fixable())
}

func TestAnalyzeUnclassified(t *testing.T) {
	sections := mustSections(t, "standard")

	a := Analyze(sections, []Import{imp("fmt"), imp("github.com/x/y")})
	require.NotNil(t, a.Problem)
	assert.Equal(t, Unclassified, a.Problem.Kind)
	assert.Equal(t, `unclassified import "github.com/x/y"`, a.Problem.Message())
}

func TestRenderKeepsCommentsAndAliases(t *testing.T) {
	groups := [][]Import{
		{{Path: "fmt", Lines: []string{"// printing", `"fmt"`}}},
		nil,
		{{Path: "github.com/x/y", Lines: []string{`y "github.com/x/y" // aliased`}}},
	}

	want := "(\n\t// printing\n\t\"fmt\"\n\n\ty \"github.com/x/y\" // aliased\n)"
	assert.Equal(t, want, Render(groups))
}
