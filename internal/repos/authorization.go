package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/cityhunt-backend/internal/platform/logger"
	"github.com/yungbote/cityhunt-backend/internal/types"
)

// AuthorizationRepo is write-only: grants are an audit trail, not a
// gate, so there is deliberately no read path.
type AuthorizationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Authorization) error
}

type authorizationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuthorizationRepo(db *gorm.DB, baseLog *logger.Logger) AuthorizationRepo {
	repoLog := baseLog.With("repo", "AuthorizationRepo")
	return &authorizationRepo{db: db, log: repoLog}
}

func (r *authorizationRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Authorization) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return err
	}
	return nil
}
