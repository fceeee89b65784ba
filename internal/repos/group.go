package repos

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/cityhunt-backend/internal/platform/logger"
	"github.com/yungbote/cityhunt-backend/internal/types"
)

// GroupRepo reads the credential store. The engine never writes
// groups; rows are provisioned externally.
type GroupRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Group, error)
}

type groupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGroupRepo(db *gorm.DB, baseLog *logger.Logger) GroupRepo {
	repoLog := baseLog.With("repo", "GroupRepo")
	return &groupRepo{db: db, log: repoLog}
}

// GetByID returns (nil, nil) for an unknown group.
func (r *groupRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Group, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if strings.TrimSpace(id) == "" {
		return nil, nil
	}

	var rows []*types.Group
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
