package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"leadhub/internal/authz"
	"leadhub/internal/models"
	"leadhub/internal/services"
)

// TransitionHandler — REST-обёртка над конечным автоматом перехода:
// begin → специализированный шаг (если нужен) → ремарка → коммит.
type TransitionHandler struct {
	Progression *services.ProgressionService
	Leads       *services.LeadService
}

func NewTransitionHandler(progression *services.ProgressionService, leads *services.LeadService) *TransitionHandler {
	return &TransitionHandler{Progression: progression, Leads: leads}
}

type beginTransitionRequest struct {
	TargetStageID int `json:"target_stage_id" binding:"required"`
}

// @Summary      Начать переход лида на этап
// @Description  Проверяет гейт и открывает поток перехода; возвращает token и требуемый шаг
// @Tags         Transitions
// @Accept       json
// @Produce      json
// @Param        id    path      int                     true  "ID лида"
// @Param        body  body      beginTransitionRequest  true  "Целевой этап"
// @Success      201   {object}  services.TransitionFlow
// @Failure      409   {object}  map[string]string
// @Router       /leads/{id}/transitions [post]
func (h *TransitionHandler) Begin(c *gin.Context) {
	leadID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	userID, roleID := getUserAndRole(c)
	if authz.IsReadOnly(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "read-only role"})
		return
	}

	lead, err := h.Leads.GetByID(leadID)
	if err != nil || lead == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}
	// sales двигает только свои лиды
	if lead.OwnerID != userID && !authz.IsElevated(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var req beginTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flow, err := h.Progression.Begin(leadID, req.TargetStageID, userID)
	if err != nil {
		writeTransitionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, flow)
}

func (h *TransitionHandler) SubmitDemoSession(c *gin.Context) {
	var draft models.DemoSessionDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	flow, err := h.Progression.SubmitDemoSession(c.Param("token"), draft)
	if err != nil {
		writeTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow)
}

func (h *TransitionHandler) SubmitProposal(c *gin.Context) {
	var draft models.ProposalDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	flow, err := h.Progression.SubmitProposal(c.Param("token"), draft)
	if err != nil {
		writeTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow)
}

type submitAmountRequest struct {
	Amount float64 `json:"amount"`
}

func (h *TransitionHandler) SubmitAmount(c *gin.Context) {
	var req submitAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	flow, err := h.Progression.SubmitAmount(c.Param("token"), req.Amount)
	if err != nil {
		writeTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow)
}

// @Summary      Финальный шаг перехода: ремарка и назначение
// @Description  Сохраняет ремарку, опционально назначение, коммитит этап; частичный успех отдаётся как есть
// @Tags         Transitions
// @Accept       json
// @Produce      json
// @Param        token  path      string              true  "Token потока"
// @Param        body   body      models.RemarkDraft  true  "Черновик ремарки"
// @Success      200    {object}  services.TransitionResult
// @Router       /transitions/{token}/remark [post]
func (h *TransitionHandler) SubmitRemark(c *gin.Context) {
	var draft models.RemarkDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Progression.SubmitRemark(c.Param("token"), draft)
	if err != nil {
		writeTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *TransitionHandler) Cancel(c *gin.Context) {
	if err := h.Progression.Cancel(c.Param("token")); err != nil {
		writeTransitionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// разносим типовые ошибки движка в статус-коды
func writeTransitionError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrLeadNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrStageUnknown):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrStageNotSelectable), errors.Is(err, services.ErrWrongStep):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrFlowClosed):
		// запоздалый сабмит по брошенному переходу игнорируем
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNoStages):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
