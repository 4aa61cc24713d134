package i18n

import "context"

type localeContextKey struct{}

func SetLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeContextKey{}, locale)
}

// GetLocale returns the request language or DefaultLanguage.
func GetLocale(ctx context.Context) string {
	if ctx != nil {
		if locale, _ := ctx.Value(localeContextKey{}).(string); locale != "" {
			return locale
		}
	}
	return DefaultLanguage
}
