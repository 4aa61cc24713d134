package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// Matcher negotiates the response language among the supported ones.
type Matcher struct {
	tags     []language.Tag
	names    []string
	fallback string
	matcher  language.Matcher
}

// NewMatcher builds a matcher; the default language is preferred on ties and
// returned when nothing matches.
func NewMatcher(supported []string, defaultLang string) *Matcher {
	m := &Matcher{fallback: strings.ToLower(defaultLang)}
	if m.fallback == "" {
		m.fallback = DefaultLanguage
	}
	// The first tag is the matcher's fallback.
	ordered := append([]string{m.fallback}, supported...)
	seen := make(map[string]bool, len(ordered))
	for _, s := range ordered {
		s = strings.ToLower(s)
		if seen[s] {
			continue
		}
		tag, err := language.Parse(s)
		if err != nil {
			continue
		}
		seen[s] = true
		m.tags = append(m.tags, tag)
		m.names = append(m.names, s)
	}
	m.matcher = language.NewMatcher(m.tags)
	return m
}

// Supports reports whether lang is one of the supported names.
func (m *Matcher) Supports(lang string) bool {
	lang = strings.ToLower(strings.TrimSpace(lang))
	for _, n := range m.names {
		if n == lang {
			return true
		}
	}
	return false
}

// Match returns the best supported language for the given preferences,
// each being a tag or an Accept-Language header value.
func (m *Matcher) Match(prefs ...string) string {
	var tags []language.Tag
	for _, p := range prefs {
		if p == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return m.fallback
	}
	_, idx, conf := m.matcher.Match(tags...)
	if conf == language.No {
		return m.fallback
	}
	return m.names[idx]
}

// Extractor picks the request language from the "lang" query parameter, the
// "lang" cookie and the Accept-Language header, in that order.
func (m *Matcher) Extractor() func(r *http.Request) string {
	return func(r *http.Request) string {
		if q := r.URL.Query().Get("lang"); m.Supports(q) {
			return strings.ToLower(q)
		}
		if c, err := r.Cookie("lang"); err == nil && m.Supports(c.Value) {
			return strings.ToLower(c.Value)
		}
		return m.Match(r.Header.Get("Accept-Language"))
	}
}
