package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/cityhunt-backend/internal/http/response"
	"github.com/yungbote/cityhunt-backend/internal/services"
)

type SessionHandler struct {
	sessions services.SessionService
}

func NewSessionHandler(sessions services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// POST /api/session
func (h *SessionHandler) CreateSession(c *gin.Context) {
	token, sessionID, err := h.sessions.IssueSession(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "session_issue_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"success":    true,
		"token":      token,
		"session_id": sessionID.String(),
	})
}
