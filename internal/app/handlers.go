package app

import (
	"github.com/yungbote/cityhunt-backend/internal/http/handlers"
	"github.com/yungbote/cityhunt-backend/internal/platform/logger"
)

type Handlers struct {
	Health  *handlers.HealthHandler
	Session *handlers.SessionHandler
	Hunt    *handlers.HuntHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  handlers.NewHealthHandler(),
		Session: handlers.NewSessionHandler(serviceset.Session),
		Hunt:    handlers.NewHuntHandler(log, serviceset.Hunt),
	}
}
