// Package requestid attaches a correlation id to every request.
//
// A client supplied X-Request-ID is reused when it is at most 128 characters of
// [a-zA-Z0-9_-]; otherwise a new UUID is generated. The id is available through
// FromContext and can be injected into logs with LoggerExtractor.
package requestid
