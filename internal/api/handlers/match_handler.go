package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mentormatch/matching/internal/models"
	"github.com/mentormatch/matching/internal/services"
	"github.com/mentormatch/matching/internal/utils"
)

type MatchHandler struct {
	svc services.MatchService
}

func NewMatchHandler(svc services.MatchService) *MatchHandler {
	return &MatchHandler{svc: svc}
}

type TopicMatchRequest struct {
	TopicID    int64  `json:"topic_id" binding:"required"`
	TargetRole string `json:"target_role"`
}

func (h *MatchHandler) MatchTopic(c *gin.Context) {
	var req TopicMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "MatchHandler.MatchTopic", "invalid request body", err))
		return
	}

	result, err := h.svc.MatchTopic(c.Request.Context(), req.TopicID, req.TargetRole)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type RoleMatchRequest struct {
	RoleID int64 `json:"role_id" binding:"required"`
}

func (h *MatchHandler) MatchRole(c *gin.Context) {
	var req RoleMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "MatchHandler.MatchRole", "invalid request body", err))
		return
	}

	result, err := h.svc.MatchRole(c.Request.Context(), req.RoleID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type UserMatchRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

func (h *MatchHandler) MatchStudent(c *gin.Context) {
	var req UserMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "MatchHandler.MatchStudent", "invalid request body", err))
		return
	}

	result, err := h.svc.MatchStudent(c.Request.Context(), req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *MatchHandler) MatchSupervisor(c *gin.Context) {
	var req UserMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "MatchHandler.MatchSupervisor", "invalid request body", err))
		return
	}

	result, err := h.svc.MatchSupervisor(c.Request.Context(), req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *MatchHandler) History(c *gin.Context) {
	kind, err := models.ParseEntityKind(c.Query("kind"))
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "MatchHandler.History", "unsupported entity kind", err))
		return
	}
	subjectID, err := strconv.ParseInt(c.Query("subject_id"), 10, 64)
	if err != nil || subjectID == 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, "MatchHandler.History", "subject_id is required", err))
		return
	}
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)

	runs, err := h.svc.MatchHistory(c.Request.Context(), kind, subjectID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (h *MatchHandler) TopicsNeedingStudents(c *gin.Context) {
	topics, err := h.svc.TopicsNeedingStudents(c.Request.Context(), 0)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}
