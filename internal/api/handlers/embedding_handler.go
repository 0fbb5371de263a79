package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentormatch/matching/internal/models"
	"github.com/mentormatch/matching/internal/services"
	"github.com/mentormatch/matching/internal/utils"
)

type EmbeddingHandler struct {
	svc services.EmbeddingService
}

func NewEmbeddingHandler(svc services.EmbeddingService) *EmbeddingHandler {
	return &EmbeddingHandler{svc: svc}
}

type RefreshRequest struct {
	EntityID    int64  `json:"entity_id" binding:"required"`
	ModelRepoID string `json:"model_repo_id"`
}

// Refresh recomputes one entity's embedding synchronously. The kind is
// the path parameter: student, supervisor, topic, or role.
func (h *EmbeddingHandler) Refresh(c *gin.Context) {
	kind, err := models.ParseEntityKind(c.Param("kind"))
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "EmbeddingHandler.Refresh", "unsupported entity kind", err))
		return
	}

	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "EmbeddingHandler.Refresh", "invalid request body", err))
		return
	}

	if err := h.svc.Refresh(c.Request.Context(), kind, req.EntityID, req.ModelRepoID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"kind":      kind,
		"entity_id": req.EntityID,
	})
}

type BatchRefreshRequest struct {
	Items       []BatchRefreshItem `json:"items" binding:"required,min=1,dive"`
	ModelRepoID string             `json:"model_repo_id"`
}

type BatchRefreshItem struct {
	Kind     string `json:"kind" binding:"required"`
	EntityID int64  `json:"entity_id" binding:"required"`
}

// BatchRefresh recomputes several entities in one transaction.
func (h *EmbeddingHandler) BatchRefresh(c *gin.Context) {
	var req BatchRefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "EmbeddingHandler.BatchRefresh", "invalid request body", err))
		return
	}

	items := make([]services.RefreshItem, 0, len(req.Items))
	for _, it := range req.Items {
		kind, err := models.ParseEntityKind(it.Kind)
		if err != nil {
			writeError(c, utils.E(utils.CodeInvalidArgument, "EmbeddingHandler.BatchRefresh", "unsupported entity kind", err))
			return
		}
		items = append(items, services.RefreshItem{Kind: kind, EntityID: it.EntityID})
	}

	if err := h.svc.RefreshBatch(c.Request.Context(), items, req.ModelRepoID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"count":  len(items),
	})
}

type PullModelRequest struct {
	RepoID string `json:"repo_id" binding:"required"`
}

// PullModel preloads an allow-listed model on the inference host so the
// first refresh does not pay the download.
func (h *EmbeddingHandler) PullModel(c *gin.Context) {
	var req PullModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "EmbeddingHandler.PullModel", "invalid request body", err))
		return
	}

	info, err := h.svc.PullModel(c.Request.Context(), req.RepoID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"model":  info,
	})
}
