package internal

import (
	"context"
)

type contextKey string

const (
	UserContextKey     contextKey = "user"
	LanguageContextKey contextKey = "language"
)

type Identity interface {
	GetSubject() string
}

// GetSubjectFromContext extracts the authenticated subject from request context
func GetSubjectFromContext(ctx context.Context) (string, bool) {
	userData := ctx.Value(UserContextKey)
	if userData == nil {
		return "", false
	}

	identity, ok := userData.(Identity)
	if !ok {
		return "", false
	}

	return identity.GetSubject(), true
}

func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, LanguageContextKey, lang)
}

// GetLanguageFromContext returns the request language negotiated by the locale middleware
func GetLanguageFromContext(ctx context.Context) (string, bool) {
	lang, ok := ctx.Value(LanguageContextKey).(string)
	if !ok || lang == "" {
		return "", false
	}
	return lang, true
}
