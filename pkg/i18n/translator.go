package i18n

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrymomot/bootstrap/pkg/logger"
)

// DefaultLanguage is used when neither the request nor the config selects one.
const DefaultLanguage = "en"

// Translator resolves dot separated keys in nested translation maps.
// It is immutable; reloading builds a new Translator.
type Translator struct {
	translations map[string]map[string]any
	defaultLang  string
	log          *slog.Logger
}

type Option func(*Translator)

// WithDefaultLanguage sets the language used for unknown languages and
// missing keys.
func WithDefaultLanguage(lang string) Option {
	return func(t *Translator) {
		if lang != "" {
			t.defaultLang = strings.ToLower(lang)
		}
	}
}

// WithLogger logs missing keys at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(t *Translator) {
		if l != nil {
			t.log = l
		}
	}
}

func NewTranslator(translations map[string]map[string]any, opts ...Option) *Translator {
	t := &Translator{
		translations: translations,
		defaultLang:  DefaultLanguage,
		log:          logger.Noop(),
	}
	if t.translations == nil {
		t.translations = map[string]map[string]any{}
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Translator) DefaultLanguage() string { return t.defaultLang }

// SupportedLanguages returns the loaded languages sorted.
func (t *Translator) SupportedLanguages() []string {
	langs := make([]string, 0, len(t.translations))
	for lang := range t.translations {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

func (t *Translator) HasTranslation(lang, key string) bool {
	_, ok := t.lookup(lang, key)
	return ok
}

// T translates key for lang, falling back to the default language and then to
// the key itself. Args are name/value pairs substituted into %{name}.
func (t *Translator) T(lang, key string, args ...string) string {
	if v, ok := t.lookup(lang, key); ok {
		return sprintf(v, args)
	}
	if lang != t.defaultLang {
		if v, ok := t.lookup(t.defaultLang, key); ok {
			return sprintf(v, args)
		}
	}
	t.log.Debug("translation not found", slog.String("lang", lang), slog.String("key", key))
	return sprintf(key, args)
}

// Td is T with an explicit fallback instead of the key.
func (t *Translator) Td(lang, key, defaultValue string, args ...string) string {
	if v, ok := t.lookup(lang, key); ok {
		return sprintf(v, args)
	}
	return sprintf(defaultValue, args)
}

// N selects key.zero, key.one or key.other by n and adds a "count" argument.
func (t *Translator) N(lang, key string, n int, args ...string) string {
	args = append(args[:len(args):len(args)], "count", strconv.Itoa(n))
	forms := []string{key + ".other"}
	switch n {
	case 0:
		forms = []string{key + ".zero", key + ".other"}
	case 1:
		forms = []string{key + ".one"}
	}
	for _, l := range []string{lang, t.defaultLang} {
		for _, f := range forms {
			if v, ok := t.lookup(l, f); ok {
				return sprintf(v, args)
			}
		}
	}
	return t.T(lang, key, args...)
}

// Tc translates with the language stored in ctx.
func (t *Translator) Tc(ctx context.Context, key string, args ...string) string {
	return t.T(GetLocale(ctx), key, args...)
}

func (t *Translator) Nc(ctx context.Context, key string, n int, args ...string) string {
	return t.N(GetLocale(ctx), key, n, args...)
}

func (t *Translator) lookup(lang, key string) (string, bool) {
	m, ok := t.translations[strings.ToLower(lang)]
	if !ok {
		return "", false
	}
	var cur any = m
	for part := range strings.SplitSeq(key, ".") {
		node, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		if cur, ok = node[part]; !ok {
			return "", false
		}
	}
	switch v := cur.(type) {
	case string:
		return v, true
	case fmt.Stringer:
		return v.String(), true
	case int, int64, float64, bool:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}

var paramRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// sprintf replaces %{name} placeholders; unknown names are kept verbatim.
func sprintf(tmpl string, args []string) string {
	if len(args) < 2 || !strings.Contains(tmpl, "%{") {
		return tmpl
	}
	params := make(map[string]string, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		if _, exists := params[args[i]]; !exists {
			params[args[i]] = args[i+1]
		}
	}
	return paramRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		if v, ok := params[match[2:len(match)-1]]; ok {
			return v
		}
		return match
	})
}
