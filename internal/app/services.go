package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/cityhunt-backend/internal/platform/logger"
	"github.com/yungbote/cityhunt-backend/internal/services"
)

type Services struct {
	Session services.SessionService
	Hunt    services.HuntService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) Services {
	log.Info("Wiring services...")
	return Services{
		Session: services.NewSessionService(log, cfg.JWTSecretKey, cfg.SessionTokenTTL),
		Hunt: services.NewHuntService(
			db,
			log,
			reposet.Group,
			reposet.Stage,
			reposet.Progress,
			reposet.Authorization,
		),
	}
}
