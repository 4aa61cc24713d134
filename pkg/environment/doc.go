// Package environment names the runtime environments an application can run in
// and carries the current one through request contexts.
//
// Two predicates drive the bootstrap behaviour: Quiet (test and ci skip request
// logging) and Debug (only "development" exposes error details).
package environment
