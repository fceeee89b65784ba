package app

import (
	"time"

	"github.com/yungbote/cityhunt-backend/internal/platform/envutil"
	"github.com/yungbote/cityhunt-backend/internal/platform/logger"
)

type Config struct {
	Port             string
	ServiceName      string
	Environment      string
	Version          string
	JWTSecretKey     string
	SessionTokenTTL  time.Duration
	RedisAddr        string
	PinAttemptLimit  int
	PinAttemptWindow time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:             envutil.String("PORT", "8080", log),
		ServiceName:      envutil.String("SERVICE_NAME", "cityhunt-backend", log),
		Environment:      envutil.String("ENVIRONMENT", "development", log),
		Version:          envutil.String("SERVICE_VERSION", "dev", log),
		JWTSecretKey:     envutil.String("JWT_SECRET_KEY", "defaultsecret", log),
		SessionTokenTTL:  time.Duration(envutil.Int("SESSION_TOKEN_TTL", 86400, log)) * time.Second,
		RedisAddr:        envutil.String("REDIS_ADDR", "", log),
		PinAttemptLimit:  envutil.Int("PIN_ATTEMPT_LIMIT", 20, log),
		PinAttemptWindow: time.Duration(envutil.Int("PIN_ATTEMPT_WINDOW", 60, log)) * time.Second,
	}
}
