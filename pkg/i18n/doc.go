// Package i18n loads translation files and translates dot separated keys.
//
// Translations are YAML or JSON files in a directory. Root level files map
// languages to keys; files under a language directory hold keys of that
// language only:
//
//	locales/
//	  common.yaml        # en: {...}, cy: {...}
//	  en/errors.json     # {"errors": {...}}
//
// A Loader reads the directory in the background so the server can start
// accepting requests immediately. Handlers that need translations call Wait
// with a timeout:
//
//	loader := i18n.NewLoader("locales", i18n.WithLoaderLogger(log))
//	loader.Start(ctx)
//	defer loader.Close()
//
//	tr, err := loader.Wait(r.Context(), 30*time.Second)
//	if errors.Is(err, i18n.ErrNotReady) {
//	    // respond 503
//	}
//
// Placeholders use %{name} and are filled from name/value argument pairs:
//
//	tr.T("en", "greeting", "name", "Ada") // "Hello, Ada"
//
// Plurals are looked up under key.zero, key.one and key.other with N.
// Watch reloads translations on file changes and is meant for development.
package i18n
