// Package oracle validates strings written in Go's embedded mini-languages with the
// standard library's own parsers. An empty result means the input is valid; otherwise
// the parser's error text is returned verbatim.
package oracle

import (
	htmltemplate "html/template"
	"regexp"
	"strings"
	texttemplate "text/template"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of memoised verdicts.
const DefaultCacheSize = 4096

type language uint8

const (
	langRegexp language = iota
	langTextTemplate
	langHTMLTemplate
	langTimeLayout
)

type key struct {
	lang  language
	input string
}

// Oracle memoises verdicts, so a literal repeated across a module is parsed once.
type Oracle struct {
	cache *lru.Cache[key, string]
}

// New creates an oracle remembering up to size verdicts; size <= 0 uses DefaultCacheSize.
func New(size int) *Oracle {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[key, string](size)
	if err != nil {
		panic(err) // only fails for non-positive sizes
	}
	return &Oracle{cache: cache}
}

// Regexp validates a regular expression as regexp.Compile does.
func (o *Oracle) Regexp(expr string) (string, bool) {
	return o.check(langRegexp, expr, func(s string) error {
		_, err := regexp.Compile(s)
		return err
	})
}

// TextTemplate validates text/template syntax.
func (o *Oracle) TextTemplate(text string) (string, bool) {
	return o.check(langTextTemplate, text, func(s string) error {
		_, err := texttemplate.New("").Parse(s)
		return err
	})
}

// HTMLTemplate validates html/template syntax.
func (o *Oracle) HTMLTemplate(text string) (string, bool) {
	return o.check(langHTMLTemplate, text, func(s string) error {
		_, err := htmltemplate.New("").Parse(s)
		return err
	})
}

// TimeLayout validates a time.Parse layout by parsing it against itself. Underscores
// (space padding) become spaces and Z (ISO 8601 zone) becomes a minus sign first, so
// the layout is a value its own directives accept.
func (o *Oracle) TimeLayout(layout string) (string, bool) {
	value := strings.NewReplacer("_", " ", "Z", "-").Replace(layout)
	return o.check(langTimeLayout, value, func(s string) error {
		_, err := time.Parse(s, s)
		return err
	})
}

// check returns the error message for input and true when it is invalid.
func (o *Oracle) check(lang language, input string, validate func(string) error) (string, bool) {
	k := key{lang: lang, input: input}
	if msg, ok := o.cache.Get(k); ok {
		return msg, msg != ""
	}

	var msg string
	if err := validate(input); err != nil {
		msg = err.Error()
	}
	o.cache.Add(k, msg)

	return msg, msg != ""
}
