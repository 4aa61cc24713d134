// Package clientip resolves the originating client address of a request.
//
// By default only the TCP peer address is used. When the application runs
// behind a reverse proxy, WithTrustedProxy enables the forwarding headers,
// checked in order until one holds a valid address:
//
//  1. CF-Connecting-IP
//  2. X-Forwarded-For (first valid entry)
//  3. X-Real-IP
//
// Resolver.Middleware stores the address in the request context, where
// FromContext and LoggerExtractor pick it up.
package clientip
