// Package pages serves the built-in cookie policy and terms pages.
//
// Both pages are translated, so they wait for the translation loader when a
// Waiter is configured; a loader that is not ready within the timeout turns
// into a 503 error page.
package pages
