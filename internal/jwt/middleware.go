package jwt

import (
	"NYCU-SDC/survey-analytics-backend/internal"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
)

const AccessTokenCookieName = "accessToken"

type Verifier interface {
	Parse(ctx context.Context, tokenString string) (User, error)
}

type Middleware struct {
	logger        *zap.Logger
	tracer        trace.Tracer
	validator     *validator.Validate
	problemWriter *problem.HttpWriter
	verifier      Verifier
}

func NewMiddleware(
	logger *zap.Logger,
	validator *validator.Validate,
	problemWriter *problem.HttpWriter,
	verifier Verifier,
) Middleware {
	return Middleware{
		logger:        logger,
		tracer:        otel.Tracer("jwt/middleware"),
		validator:     validator,
		problemWriter: problemWriter,
		verifier:      verifier,
	}
}

// AuthenticateMiddleware accepts a bearer token from the Authorization
// header, falling back to the access token cookie.
func (m Middleware) AuthenticateMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		traceCtx, span := m.tracer.Start(r.Context(), "AuthenticateMiddleware")
		defer span.End()
		logger := logutil.WithContext(traceCtx, m.logger)

		token, err := extractToken(r)
		if err != nil {
			logger.Debug("Rejected request without a usable access token", zap.String("path", r.URL.Path), zap.Error(err))
			m.problemWriter.WriteError(traceCtx, w, err, logger)
			return
		}

		u, err := m.verifier.Parse(traceCtx, token)
		if err != nil {
			span.RecordError(err)
			m.problemWriter.WriteError(traceCtx, w, fmt.Errorf("%w: %w", internal.ErrInvalidJWTToken, err), logger)
			return
		}

		err = m.validator.Var(u.GetSubject(), "required,uuid")
		if err != nil {
			m.problemWriter.WriteError(traceCtx, w, internal.ErrInvalidAuthUser, logger)
			return
		}

		ctx := context.WithValue(r.Context(), internal.UserContextKey, u)
		next(w, r.WithContext(ctx))
	}
}

func extractToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return "", internal.ErrInvalidAuthHeaderFormat
		}
		return strings.TrimSpace(token), nil
	}

	cookie, err := r.Cookie(AccessTokenCookieName)
	if err != nil || cookie.Value == "" {
		return "", internal.ErrMissingAuthHeader
	}
	return cookie.Value, nil
}

// GetUserFromContext returns the user stored by AuthenticateMiddleware.
func GetUserFromContext(ctx context.Context) (User, error) {
	u, ok := ctx.Value(internal.UserContextKey).(User)
	if !ok {
		return User{}, internal.ErrNoUserInContext
	}
	return u, nil
}
