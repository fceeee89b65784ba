package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/cityhunt-backend/internal/platform/ctxutil"
	"github.com/yungbote/cityhunt-backend/internal/platform/logger"
)

// SessionService issues anonymous device sessions and turns a bearer
// token back into request data. There is no account model: a session
// is just an opaque identity that authorize() later binds to a group.
type SessionService interface {
	IssueSession(ctx context.Context) (string, uuid.UUID, error)
	ContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type sessionService struct {
	log          *logger.Logger
	jwtSecretKey string
	sessionTTL   time.Duration
}

func NewSessionService(log *logger.Logger, jwtSecretKey string, sessionTTL time.Duration) SessionService {
	serviceLog := log.With("service", "SessionService")
	return &sessionService{
		log:          serviceLog,
		jwtSecretKey: jwtSecretKey,
		sessionTTL:   sessionTTL,
	}
}

func (s *sessionService) IssueSession(ctx context.Context) (string, uuid.UUID, error) {
	sessionID := uuid.New()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.sessionTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecretKey))
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("sign session token: %w", err)
	}
	s.log.Debug("Issued session", "session_id", sessionID.String())
	return signed, sessionID, nil
}

func (s *sessionService) ContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, fmt.Errorf("empty token")
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("parse session token: %w", err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return ctx, fmt.Errorf("invalid or expired session token")
	}
	sessionID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid session id in token: %w", err)
	}
	rd := &ctxutil.RequestData{
		TokenString: tokenString,
		SessionID:   sessionID,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}
