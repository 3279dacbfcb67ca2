package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MilBia/Suchar-Overflow/internal/requestdata"
	"github.com/MilBia/Suchar-Overflow/internal/services"
)

type SucharHandler struct {
	sucharService services.SucharService
	voteService   services.VoteService
}

func NewSucharHandler(sucharService services.SucharService, voteService services.VoteService) *SucharHandler {
	return &SucharHandler{sucharService: sucharService, voteService: voteService}
}

type createSucharRequest struct {
	Text string `json:"text" binding:"required"`
}

func (sh *SucharHandler) Create(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	if userID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing user"))
		return
	}
	var req createSucharRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	suchar, err := sh.sucharService.Create(c.Request.Context(), userID, req.Text)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_failed", err)
		return
	}
	RespondCreated(c, gin.H{"suchar": suchar})
}

type createVoteRequest struct {
	Funny *bool `json:"funny" binding:"required"`
}

func (sh *SucharHandler) Vote(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	if userID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing user"))
		return
	}
	sucharID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req createVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	vote, err := sh.voteService.Create(c.Request.Context(), userID, sucharID, *req.Funny)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "vote_failed", err)
		return
	}
	RespondCreated(c, gin.H{"vote": vote})
}
