// Package config composes the effective configuration of an application.
//
// Three sources are layered with a shallow, top-level merge:
//
//  1. built-in defaults (Defaults, seeded from the process environment),
//  2. overrides registered on a Provider through Configure or ConfigureAll,
//  3. options passed to a single call.
//
// Later sources win key by key. Nested values are replaced wholesale and are
// never merged, so overriding "session" replaces every session setting.
//
// # Usage
//
//	provider, err := config.DefaultProvider()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	provider.Configure("port", 8080)
//	provider.ConfigureAll(config.Options{"env": "production"})
//
//	opts := provider.Effective(config.Options{"routes": routes})
//	cfg, err := config.Decode(opts)
//
// # Environment
//
// Defaults reads EnvConfig with github.com/caarlos0/env/v11 after loading an
// optional .env file through github.com/joho/godotenv. Load and LoadEnv can
// be used for any other env-tagged struct; parsed structs are cached per type
// and ResetCache clears them in tests.
//
// # Decoding
//
// Decode uses github.com/go-viper/mapstructure/v2 with weak typing, so values
// read from YAML or flags ("8080", "30s", "a,b") decode into their typed
// fields. Routes, middleware and theme are decoded explicitly because they
// carry Go values such as handler functions.
package config
