package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/cityhunt-backend/internal/platform/apierr"
	"github.com/yungbote/cityhunt-backend/internal/platform/ctxutil"
	"github.com/yungbote/cityhunt-backend/internal/platform/logger"
	"github.com/yungbote/cityhunt-backend/internal/policy"
	"github.com/yungbote/cityhunt-backend/internal/progression"
	"github.com/yungbote/cityhunt-backend/internal/repos"
	"github.com/yungbote/cityhunt-backend/internal/types"
)

// HuntService is the progression engine: the single source of truth
// for which stages a group may see, which it has completed, and
// whether a submitted answer is correct. Every operation requires an
// established session in context and fails with one of the apierr
// kinds, never a raw storage error.
type HuntService interface {
	Authorize(ctx context.Context, groupID, pin string) (*AuthorizeResult, error)
	GetStageContent(ctx context.Context, groupID string, stageID int) (*StageView, error)
	ValidateAnswer(ctx context.Context, groupID string, stageID int, answer string) (*ValidateResult, error)
	GetGroupProgress(ctx context.Context, groupID string) (*ProgressView, error)
}

type AuthorizeResult struct {
	GroupID string
}

// StageView is what a client may see of a stage. The stored answer
// spec never crosses this boundary.
type StageView struct {
	StageID     int
	StageName   string
	Title       string
	Description string
	Media       []types.StageMedia
	MediaType   string
	IsCompleted bool
	IsUnlocked  bool
	HasAnswer   bool
}

type ValidateResult struct {
	Correct bool
	Hint    string
}

type ProgressView struct {
	CurrentStage    int
	CompletedStages []int
	TotalStages     int
}

type huntService struct {
	db            *gorm.DB
	log           *logger.Logger
	groupRepo     repos.GroupRepo
	stageRepo     repos.StageRepo
	progressRepo  repos.ProgressRepo
	authorizeRepo repos.AuthorizationRepo
}

func NewHuntService(
	db *gorm.DB,
	log *logger.Logger,
	groupRepo repos.GroupRepo,
	stageRepo repos.StageRepo,
	progressRepo repos.ProgressRepo,
	authorizeRepo repos.AuthorizationRepo,
) HuntService {
	serviceLog := log.With("service", "HuntService")
	return &huntService{
		db:            db,
		log:           serviceLog,
		groupRepo:     groupRepo,
		stageRepo:     stageRepo,
		progressRepo:  progressRepo,
		authorizeRepo: authorizeRepo,
	}
}

var pinPattern = regexp.MustCompile(`^\d+$`)

func (s *huntService) Authorize(ctx context.Context, groupID, pin string) (*AuthorizeResult, error) {
	rd, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return nil, apierr.InvalidArgument("missing_group_id", fmt.Errorf("group id is required"))
	}
	if !pinPattern.MatchString(pin) {
		return nil, apierr.InvalidArgument("invalid_pin_format", fmt.Errorf("pin must be numeric"))
	}

	group, err := s.groupRepo.GetByID(ctx, nil, groupID)
	if err != nil {
		return nil, apierr.Internal("group_lookup_failed", fmt.Errorf("group lookup failed: %w", err))
	}
	if group == nil {
		return nil, apierr.NotFound("group_not_found", fmt.Errorf("unknown group"))
	}

	// Exact string comparison on purpose: the PIN is a shared secret
	// in an externally-owned store, not a password.
	if group.Pin != pin {
		s.log.Warn("PIN rejected", "group_id", groupID, "session_id", rd.SessionID.String())
		return nil, apierr.PermissionDenied("invalid_pin", fmt.Errorf("Invalid PIN"))
	}

	grant := &types.Authorization{
		ID:        uuid.New(),
		GroupID:   groupID,
		SessionID: rd.SessionID,
		Timestamp: time.Now().UTC(),
	}
	if err := s.authorizeRepo.Create(ctx, nil, []*types.Authorization{grant}); err != nil {
		return nil, apierr.Internal("authorization_write_failed", fmt.Errorf("record authorization: %w", err))
	}

	s.log.Info("Group authorized", "group_id", groupID, "session_id", rd.SessionID.String())
	return &AuthorizeResult{GroupID: groupID}, nil
}

func (s *huntService) GetStageContent(ctx context.Context, groupID string, stageID int) (*StageView, error) {
	if _, err := requireSession(ctx); err != nil {
		return nil, err
	}
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return nil, apierr.InvalidArgument("missing_group_id", fmt.Errorf("group id is required"))
	}
	if stageID <= 0 {
		return nil, apierr.InvalidArgument("invalid_stage_id", fmt.Errorf("stage id must be a positive integer"))
	}

	highest, completed, err := s.loadProgress(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !progression.Unlocked(highest, stageID) {
		return nil, apierr.PermissionDenied("stage_locked", fmt.Errorf("stage locked"))
	}

	stage, err := s.stageRepo.GetByStageID(ctx, nil, stageID)
	if err != nil {
		return nil, apierr.Internal("stage_lookup_failed", fmt.Errorf("stage lookup failed: %w", err))
	}
	if stage == nil {
		return nil, apierr.NotFound("stage_not_found", fmt.Errorf("unknown stage"))
	}

	media := decodeMedia(stage.Media)
	mediaType := ""
	if len(media) > 0 {
		mediaType = media[0].Kind
	}
	return &StageView{
		StageID:     stage.StageID,
		StageName:   stage.StageName,
		Title:       stage.Title,
		Description: stage.Description,
		Media:       media,
		MediaType:   mediaType,
		IsCompleted: progression.Contains(completed, stageID),
		IsUnlocked:  true,
		HasAnswer:   stage.CorrectAnswer != "",
	}, nil
}

func (s *huntService) ValidateAnswer(ctx context.Context, groupID string, stageID int, answer string) (*ValidateResult, error) {
	if _, err := requireSession(ctx); err != nil {
		return nil, err
	}
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return nil, apierr.InvalidArgument("missing_group_id", fmt.Errorf("group id is required"))
	}
	if stageID <= 0 {
		return nil, apierr.InvalidArgument("invalid_stage_id", fmt.Errorf("stage id must be a positive integer"))
	}
	if strings.TrimSpace(answer) == "" {
		return nil, apierr.InvalidArgument("empty_answer", fmt.Errorf("answer must not be empty"))
	}

	stage, err := s.stageRepo.GetByStageID(ctx, nil, stageID)
	if err != nil {
		return nil, apierr.Internal("stage_lookup_failed", fmt.Errorf("stage lookup failed: %w", err))
	}
	if stage == nil {
		return nil, apierr.NotFound("stage_not_found", fmt.Errorf("unknown stage"))
	}

	// Terminal stages are complete by arrival; they must be rejected
	// before any policy runs.
	if stage.CorrectAnswer == "" {
		return nil, apierr.FailedPrecondition("terminal_stage", fmt.Errorf("stage does not accept submissions"))
	}

	// The unlock gate is deliberately not re-checked here: content
	// retrieval already gated the stage, and progress only moves
	// forward.
	check := policy.Lookup(stage.ValidationType)
	if !check(answer, stage.CorrectAnswer) {
		return &ValidateResult{Correct: false, Hint: stage.Hint}, nil
	}

	if _, err := s.progressRepo.ApplyCompletion(ctx, groupID, stageID); err != nil {
		return nil, apierr.Internal("progress_update_failed", fmt.Errorf("apply completion: %w", err))
	}
	s.log.Info("Stage completed", "group_id", groupID, "stage_id", stageID)
	return &ValidateResult{Correct: true}, nil
}

func (s *huntService) GetGroupProgress(ctx context.Context, groupID string) (*ProgressView, error) {
	if _, err := requireSession(ctx); err != nil {
		return nil, err
	}
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return nil, apierr.InvalidArgument("missing_group_id", fmt.Errorf("group id is required"))
	}

	highest, completed, err := s.loadProgress(ctx, groupID)
	if err != nil {
		return nil, err
	}
	total, err := s.stageRepo.Count(ctx, nil)
	if err != nil {
		return nil, apierr.Internal("stage_count_failed", fmt.Errorf("count stages: %w", err))
	}
	return &ProgressView{
		CurrentStage:    highest,
		CompletedStages: completed,
		TotalStages:     int(total),
	}, nil
}

// loadProgress substitutes the zero value for a group with no
// progress row yet.
func (s *huntService) loadProgress(ctx context.Context, groupID string) (int, []int, error) {
	record, err := s.progressRepo.Get(ctx, nil, groupID)
	if err != nil {
		return 0, nil, apierr.Internal("progress_lookup_failed", fmt.Errorf("progress lookup failed: %w", err))
	}
	if record == nil {
		return 0, []int{}, nil
	}
	return record.CurrentStage, progression.Decode(record.CompletedStages), nil
}

func requireSession(ctx context.Context) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.SessionID == uuid.Nil {
		return nil, apierr.Unauthenticated("unauthenticated", fmt.Errorf("no session established"))
	}
	return rd, nil
}

func decodeMedia(raw []byte) []types.StageMedia {
	if len(raw) == 0 {
		return []types.StageMedia{}
	}
	var out []types.StageMedia
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []types.StageMedia{}
	}
	return out
}
