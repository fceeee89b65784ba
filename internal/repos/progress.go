package repos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/cityhunt-backend/internal/platform/logger"
	"github.com/yungbote/cityhunt-backend/internal/progression"
	"github.com/yungbote/cityhunt-backend/internal/types"
)

// ProgressRepo owns the only mutable state in the system: one
// progress record per group.
type ProgressRepo interface {
	Get(ctx context.Context, tx *gorm.DB, groupID string) (*types.GroupProgress, error)
	ApplyCompletion(ctx context.Context, groupID string, stageID int) (*types.GroupProgress, error)
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	repoLog := baseLog.With("repo", "ProgressRepo")
	return &progressRepo{db: db, log: repoLog}
}

// Get returns (nil, nil) when the group has no progress row yet;
// callers substitute the zero value (stage 0, empty set).
func (r *progressRepo) Get(ctx context.Context, tx *gorm.DB, groupID string) (*types.GroupProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if strings.TrimSpace(groupID) == "" {
		return nil, nil
	}

	var rows []*types.GroupProgress
	if err := transaction.WithContext(ctx).
		Where("group_id = ?", groupID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ApplyCompletion adds stageID to the group's completed set and
// raises current_stage to at least stageID, creating the row on first
// completion. The read-modify-write runs inside one transaction with
// the row locked FOR UPDATE, so two devices submitting at the same
// time cannot drop each other's stage from the set. Re-completing a
// stage is a no-op on both fields.
func (r *progressRepo) ApplyCompletion(ctx context.Context, groupID string, stageID int) (*types.GroupProgress, error) {
	var updated *types.GroupProgress

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := r.lockRow(ctx, tx, groupID)
		if err != nil {
			return err
		}
		if row == nil {
			fresh := &types.GroupProgress{
				ID:              uuid.New(),
				GroupID:         groupID,
				CurrentStage:    0,
				CompletedStages: datatypes.JSON(progression.Encode(nil)),
			}
			// A concurrent first completion may have inserted the row
			// between our lock attempt and this create; the unique
			// index on group_id absorbs the race and we re-lock.
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "group_id"}},
				DoNothing: true,
			}).Create(&fresh).Error; err != nil {
				return err
			}
			if row, err = r.lockRow(ctx, tx, groupID); err != nil {
				return err
			}
			if row == nil {
				return gorm.ErrRecordNotFound
			}
		}

		completed := progression.AddStage(progression.Decode(row.CompletedStages), stageID)
		row.CompletedStages = datatypes.JSON(progression.Encode(completed))
		if stageID > row.CurrentStage {
			row.CurrentStage = stageID
		}
		row.LastUpdated = time.Now().UTC()
		if err := tx.Save(row).Error; err != nil {
			return err
		}
		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *progressRepo) lockRow(ctx context.Context, tx *gorm.DB, groupID string) (*types.GroupProgress, error) {
	query := tx.WithContext(ctx)
	// sqlite has no SELECT ... FOR UPDATE; it serializes writers at
	// the database level instead.
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var rows []*types.GroupProgress
	if err := query.
		Where("group_id = ?", groupID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
