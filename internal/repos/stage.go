package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/cityhunt-backend/internal/platform/logger"
	"github.com/yungbote/cityhunt-backend/internal/types"
)

// StageRepo reads the stage content store. The engine treats stages
// as immutable; Upsert exists for cmd/upload-stages only.
type StageRepo interface {
	GetByStageID(ctx context.Context, tx *gorm.DB, stageID int) (*types.Stage, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	Upsert(ctx context.Context, tx *gorm.DB, rows []*types.Stage) error
}

type stageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStageRepo(db *gorm.DB, baseLog *logger.Logger) StageRepo {
	repoLog := baseLog.With("repo", "StageRepo")
	return &stageRepo{db: db, log: repoLog}
}

// GetByStageID returns (nil, nil) for an unknown stage number.
func (r *stageRepo) GetByStageID(ctx context.Context, tx *gorm.DB, stageID int) (*types.Stage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if stageID <= 0 {
		return nil, nil
	}

	var rows []*types.Stage
	if err := transaction.WithContext(ctx).
		Where("stage_id = ?", stageID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Count is recomputed per call on purpose: newly uploaded stages must
// be visible to progress math immediately.
func (r *stageRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.Stage{}).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *stageRepo) Upsert(ctx context.Context, tx *gorm.DB, rows []*types.Stage) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stage_id"}},
			UpdateAll: true,
		}).
		Create(&rows).Error; err != nil {
		return err
	}
	return nil
}
