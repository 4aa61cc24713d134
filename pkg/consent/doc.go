// Package consent records a visitor's cookie preferences.
//
// The choice lives in a signed JSON cookie written through pkg/cookie. The
// middleware puts it in the request context and sets the "cookieBanner"
// view local while no choice has been made, which layouts use to show the
// banner. The banner form posts "analytics=yes" or "analytics=no" to
// /cookies, handled by Submit.
package consent
