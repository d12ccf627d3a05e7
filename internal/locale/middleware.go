// Package locale negotiates the request language and exposes it through the
// request context.
package locale

import (
	"NYCU-SDC/survey-analytics-backend/internal"
	"NYCU-SDC/survey-analytics-backend/internal/questionnaire/schema"
	"context"
	"fmt"
	"net/http"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const QueryParam = "lang"

type Middleware struct {
	logger    *zap.Logger
	tracer    trace.Tracer
	matcher   language.Matcher
	supported []string
}

func NewMiddleware(logger *zap.Logger, supported []string) (*Middleware, error) {
	if len(supported) == 0 {
		return nil, fmt.Errorf("%w: no supported languages configured", internal.ErrInvalidLanguage)
	}

	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		tag, err := language.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", internal.ErrInvalidLanguage, s, err)
		}
		tags = append(tags, tag)
	}

	return &Middleware{
		logger:    logger,
		tracer:    otel.Tracer("locale/middleware"),
		matcher:   language.NewMatcher(tags),
		supported: supported,
	}, nil
}

// Middleware stores the negotiated language in the request context. The
// lang query parameter takes precedence over Accept-Language.
func (m *Middleware) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		traceCtx, span := m.tracer.Start(r.Context(), "LocaleMiddleware")
		defer span.End()
		logger := logutil.WithContext(traceCtx, m.logger)

		lang, ok := m.Negotiate(r.URL.Query().Get(QueryParam), r.Header.Get("Accept-Language"))
		if !ok {
			next(w, r)
			return
		}

		logger.Debug("Negotiated request language", zap.String("language", lang))
		next(w, r.WithContext(internal.WithLanguage(r.Context(), lang)))
	}
}

// Negotiate returns the configured language that best matches the query
// value or, failing that, the Accept-Language header.
func (m *Middleware) Negotiate(query, acceptLanguage string) (string, bool) {
	if query != "" {
		tag, err := language.Parse(query)
		if err == nil {
			lang, ok := m.match(tag)
			if ok {
				return lang, true
			}
		}
	}

	if acceptLanguage == "" {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	return m.match(tags...)
}

func (m *Middleware) match(tags ...language.Tag) (string, bool) {
	_, index, confidence := m.matcher.Match(tags...)
	if confidence == language.No {
		return "", false
	}
	return m.supported[index], true
}

// Pick chooses the language a questionnaire is resolved into: the explicitly
// requested one, then the negotiated request language when the schema offers
// it, then the schema's primary language.
func Pick(ctx context.Context, requested string, s schema.Schema) string {
	if requested != "" {
		return requested
	}

	lang, ok := internal.GetLanguageFromContext(ctx)
	if ok && s.HasLanguage(lang) {
		return lang
	}

	if s.PrimaryLanguage != "" {
		return s.PrimaryLanguage
	}
	return schema.DefaultLanguage
}
