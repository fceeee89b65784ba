package app

import (
	"github.com/redis/go-redis/v9"

	"github.com/yungbote/cityhunt-backend/internal/http/middleware"
	"github.com/yungbote/cityhunt-backend/internal/platform/logger"
)

type Middleware struct {
	Session  *middleware.SessionMiddleware
	PinLimit *middleware.PinRateLimiter
}

func wireMiddleware(log *logger.Logger, cfg Config, serviceset Services, rdb *redis.Client) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Session:  middleware.NewSessionMiddleware(log, serviceset.Session),
		PinLimit: middleware.NewPinRateLimiter(log, rdb, cfg.PinAttemptLimit, cfg.PinAttemptWindow),
	}
}
