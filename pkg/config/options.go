package config

import "maps"

// Options is a flat set of named configuration values.
// Nested values are opaque: merging never looks inside them.
type Options map[string]any

// Merge overlays partials from left to right onto an empty Options value.
// Later keys replace earlier ones at the top level only. Nil partials are skipped.
func Merge(partials ...Options) Options {
	out := make(Options)
	for _, p := range partials {
		maps.Copy(out, p)
	}
	return out
}

// Clone returns a shallow copy of o.
func (o Options) Clone() Options {
	return Merge(o)
}

// Has reports whether key is set, even to a nil value.
func (o Options) Has(key string) bool {
	_, ok := o[key]
	return ok
}
