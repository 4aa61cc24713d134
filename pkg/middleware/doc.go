// Package middleware holds the HTTP middleware the bootstrap pipeline
// installs: security headers, request logging and the user middleware
// registry.
//
//	reg := middleware.NewRegistry()
//	r.Use(middleware.SecurityHeaders(middleware.SecurityPreset("balanced")))
//	r.Use(middleware.Logging(log))
//	r.Use(reg.Middleware)
//
//	reg.Use(auditTrail) // applies to the next request
package middleware
