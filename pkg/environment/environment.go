package environment

import (
	"context"
	"strings"
)

// Environment represents application environment.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
	Staging     Environment = "staging"
	// Test is used by automated test runs; request logging is disabled.
	Test Environment = "test"
	// CI behaves like Test on build servers.
	CI Environment = "ci"
)

// Parse normalizes common spellings ("dev", "prod", "stage") to an Environment.
// Unknown values are returned lowercased as-is.
func Parse(s string) Environment {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "dev":
		return Development
	case "prod":
		return Production
	case "stage":
		return Staging
	default:
		return Environment(v)
	}
}

// Quiet reports whether request logging must be skipped.
func (e Environment) Quiet() bool {
	return e == Test || e == CI
}

// Debug reports whether error details may be shown to clients.
// Only the exact value "development" enables it; aliases do not.
func (e Environment) Debug() bool {
	return e == Development
}

func (e Environment) String() string { return string(e) }

type contextKey struct{}

// WithContext adds environment to context.
func WithContext(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, contextKey{}, env)
}

// FromContext retrieves environment from context.
func FromContext(ctx context.Context) Environment {
	if ctx == nil {
		return ""
	}
	env, _ := ctx.Value(contextKey{}).(Environment)
	return env
}

// IsProduction checks if the environment from context is production.
func IsProduction(ctx context.Context) bool {
	return Parse(string(FromContext(ctx))) == Production
}

// IsDevelopment checks if the environment from context is development.
func IsDevelopment(ctx context.Context) bool {
	return Parse(string(FromContext(ctx))) == Development
}
