package jwt

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/golang-jwt/jwt/v5"
)

const (
	Issuer            = "core-system"
	DefaultExpiration = 15 * time.Minute
)

// User is the identity carried by an access token. Tokens are issued by the
// organization's core system and only verified here.
type User struct {
	ID       uuid.UUID
	Username string
	Name     string
	Role     []string
}

func (u User) GetSubject() string {
	return u.ID.String()
}

type Service struct {
	logger     *zap.Logger
	secret     string
	expiration time.Duration
	tracer     trace.Tracer
}

func NewService(logger *zap.Logger, secret string) *Service {
	return &Service{
		logger:     logger,
		secret:     secret,
		expiration: DefaultExpiration,
		tracer:     otel.Tracer("jwt/service"),
	}
}

type claims struct {
	ID       uuid.UUID
	Username string
	Name     string
	Role     []string
	jwt.RegisteredClaims
}

// New signs an access token for u with the shared secret.
func (s Service) New(ctx context.Context, u User) (string, error) {
	traceCtx, span := s.tracer.Start(ctx, "New")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	jwtID := uuid.New()
	now := time.Now()

	claims := &claims{
		ID:       jwtID,
		Username: u.Username,
		Name:     u.Name,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   u.ID.String(), // user id
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jwtID.String(), // jwt id
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.secret))
	if err != nil {
		logger.Error("failed to sign token", zap.Error(err), zap.String("user_id", u.ID.String()), zap.String("username", u.Username))
		span.RecordError(err)
		return "", err
	}

	logger.Debug("Generated JWT token", zap.String("id", u.ID.String()), zap.String("username", u.Username), zap.String("role", strings.Join(u.Role, ",")))
	return tokenString, nil
}

func (s Service) Parse(ctx context.Context, tokenString string) (User, error) {
	traceCtx, span := s.tracer.Start(ctx, "Parse")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	secret := func(token *jwt.Token) (interface{}, error) {
		return []byte(s.secret), nil
	}

	tokenClaims := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, tokenClaims, secret, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			logger.Warn("Failed to parse JWT token due to malformed structure, this is not a JWT token", zap.String("error", err.Error()))
			return User{}, err
		case errors.Is(err, jwt.ErrSignatureInvalid):
			logger.Warn("Failed to parse JWT token due to invalid signature", zap.String("error", err.Error()))
			return User{}, err
		case errors.Is(err, jwt.ErrTokenExpired):
			expiredTime, getErr := token.Claims.GetExpirationTime()
			if getErr != nil || expiredTime == nil {
				logger.Error("Failed to parse JWT token due to expired timestamp", zap.String("error", err.Error()))
				return User{}, err
			}
			logger.Warn("Failed to parse JWT token due to expired timestamp", zap.String("error", err.Error()), zap.Time("expired_at", expiredTime.Time))
			return User{}, err
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			notBeforeTime, getErr := token.Claims.GetNotBefore()
			if getErr != nil || notBeforeTime == nil {
				logger.Error("Failed to parse JWT token due to not valid yet timestamp", zap.String("error", err.Error()))
				return User{}, err
			}
			logger.Warn("Failed to parse JWT token due to not valid yet timestamp", zap.String("error", err.Error()), zap.Time("not_before", notBeforeTime.Time))
			return User{}, err
		default:
			logger.Error("Failed to parse JWT token", zap.Error(err))
			return User{}, err
		}
	}

	// Parse user ID from subject
	userID, err := uuid.Parse(tokenClaims.Subject)
	if err != nil {
		logger.Error("Failed to parse user ID from JWT subject", zap.Error(err))
		span.RecordError(err)
		return User{}, err
	}

	return User{
		ID:       userID,
		Username: tokenClaims.Username,
		Name:     tokenClaims.Name,
		Role:     tokenClaims.Role,
	}, nil
}
