package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/cityhunt-backend/internal/http/response"
	"github.com/yungbote/cityhunt-backend/internal/platform/apierr"
	"github.com/yungbote/cityhunt-backend/internal/platform/logger"
	"github.com/yungbote/cityhunt-backend/internal/services"
	"github.com/yungbote/cityhunt-backend/internal/types"
)

type HuntHandler struct {
	log  *logger.Logger
	hunt services.HuntService
}

func NewHuntHandler(log *logger.Logger, hunt services.HuntService) *HuntHandler {
	return &HuntHandler{log: log, hunt: hunt}
}

type authorizeRequest struct {
	GroupID string `json:"group_id"`
	Pin     string `json:"pin"`
}

type validateRequest struct {
	GroupID string `json:"group_id"`
	Answer  string `json:"answer"`
}

type stageContentResponse struct {
	Success     bool               `json:"success"`
	StageID     int                `json:"stage_id"`
	StageName   string             `json:"stage_name"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Media       []types.StageMedia `json:"media"`
	MediaType   string             `json:"media_type,omitempty"`
	IsCompleted bool               `json:"is_completed"`
	IsUnlocked  bool               `json:"is_unlocked"`
	HasAnswer   bool               `json:"has_answer"`
}

// POST /api/authorize
func (h *HuntHandler) Authorize(c *gin.Context) {
	var req authorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	res, err := h.hunt.Authorize(c.Request.Context(), req.GroupID, req.Pin)
	if err != nil {
		h.respondServiceError(c, err, "authorize_failed")
		return
	}
	response.RespondOK(c, gin.H{
		"success":  true,
		"message":  "authorized",
		"group_id": res.GroupID,
	})
}

// GET /api/stages/:id?group_id=
func (h *HuntHandler) GetStageContent(c *gin.Context) {
	stageID, ok := parseStageID(c)
	if !ok {
		return
	}
	view, err := h.hunt.GetStageContent(c.Request.Context(), c.Query("group_id"), stageID)
	if err != nil {
		h.respondServiceError(c, err, "stage_content_failed")
		return
	}
	response.RespondOK(c, stageContentResponse{
		Success:     true,
		StageID:     view.StageID,
		StageName:   view.StageName,
		Title:       view.Title,
		Description: view.Description,
		Media:       view.Media,
		MediaType:   view.MediaType,
		IsCompleted: view.IsCompleted,
		IsUnlocked:  view.IsUnlocked,
		HasAnswer:   view.HasAnswer,
	})
}

// POST /api/stages/:id/validate
func (h *HuntHandler) ValidateAnswer(c *gin.Context) {
	stageID, ok := parseStageID(c)
	if !ok {
		return
	}

	// Answers are short; keep the payload small.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 1<<15)

	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	res, err := h.hunt.ValidateAnswer(c.Request.Context(), req.GroupID, stageID, req.Answer)
	if err != nil {
		h.respondServiceError(c, err, "validate_failed")
		return
	}
	payload := gin.H{
		"success": true,
		"correct": res.Correct,
	}
	if res.Correct {
		payload["message"] = "correct answer"
	} else {
		payload["message"] = "incorrect answer"
		if res.Hint != "" {
			payload["hint"] = res.Hint
		}
	}
	response.RespondOK(c, payload)
}

// GET /api/progress?group_id=
func (h *HuntHandler) GetGroupProgress(c *gin.Context) {
	view, err := h.hunt.GetGroupProgress(c.Request.Context(), c.Query("group_id"))
	if err != nil {
		h.respondServiceError(c, err, "progress_failed")
		return
	}
	response.RespondOK(c, gin.H{
		"success":          true,
		"current_stage":    view.CurrentStage,
		"completed_stages": view.CompletedStages,
		"total_stages":     view.TotalStages,
	})
}

func parseStageID(c *gin.Context) (int, bool) {
	stageID, err := strconv.Atoi(strings.TrimSpace(c.Param("id")))
	if err != nil || stageID <= 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_stage_id", err)
		return 0, false
	}
	return stageID, true
}

func (h *HuntHandler) respondServiceError(c *gin.Context, err error, fallbackCode string) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		response.RespondError(c, ae.Status, ae.Code, ae.Err)
		return
	}
	response.RespondError(c, http.StatusInternalServerError, fallbackCode, err)
}
