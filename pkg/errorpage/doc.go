// Package errorpage is the terminal error handling layer of an application.
//
// Handler.Middleware wraps the whole router: it recovers panics and installs
// the Handler in the request context so that HandlerFunc values can simply
// return an error. HTTPError values select the status code; anything else is
// rendered as 500. Titles come from the "errors.<key>.title" translation when
// one exists. Error details are included only when debug is enabled.
package errorpage
