package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MilBia/Suchar-Overflow/internal/requestdata"
	"github.com/MilBia/Suchar-Overflow/internal/services"
)

type AchievementHandler struct {
	achievementService services.AchievementService
}

func NewAchievementHandler(achievementService services.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievementService: achievementService}
}

// List returns the caller's visible achievements: every standalone badge
// plus each themed series revealed through its next unearned tier, with
// locked secret entries masked.
func (ah *AchievementHandler) List(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	if userID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing user"))
		return
	}
	visible, err := ah.achievementService.ListVisible(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"achievements": visible})
}

// Unseen returns awards not yet acknowledged by the caller, for the
// notification banner.
func (ah *AchievementHandler) Unseen(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	if userID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing user"))
		return
	}
	unseen, err := ah.achievementService.Unseen(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "unseen_failed", err)
		return
	}
	RespondOK(c, gin.H{"unseen": unseen})
}

// MarkSeen acknowledges one award. Idempotent; acknowledging an award the
// caller does not hold is a no-op.
func (ah *AchievementHandler) MarkSeen(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	if userID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing user"))
		return
	}
	achievementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := ah.achievementService.MarkSeen(c.Request.Context(), userID, achievementID); err != nil {
		RespondError(c, http.StatusInternalServerError, "mark_seen_failed", err)
		return
	}
	RespondOK(c, gin.H{"ok": true})
}
