package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/cityhunt-backend/internal/platform/logger"
	"github.com/yungbote/cityhunt-backend/internal/repos"
)

type Repos struct {
	Group         repos.GroupRepo
	Stage         repos.StageRepo
	Progress      repos.ProgressRepo
	Authorization repos.AuthorizationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Group:         repos.NewGroupRepo(db, log),
		Stage:         repos.NewStageRepo(db, log),
		Progress:      repos.NewProgressRepo(db, log),
		Authorization: repos.NewAuthorizationRepo(db, log),
	}
}
