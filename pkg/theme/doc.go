// Package theme resolves the configured theme of an application.
//
// A Theme supplies the page Layout, static assets served under /public and
// fallback step views. Themes are registered by name in a Registry; the
// built-in "basic" theme is always available and used when none is set.
package theme
