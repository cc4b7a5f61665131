package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"leadhub/internal/authz"
	"leadhub/internal/models"
	"leadhub/internal/services"
)

type LeadHandler struct {
	Service     *services.LeadService
	Progression *services.ProgressionService
	Demos       *services.DemoSessionService
	Proposals   *services.ProposalService
	Actions     *services.StageActionService
}

func NewLeadHandler(service *services.LeadService, progression *services.ProgressionService,
	demos *services.DemoSessionService, proposals *services.ProposalService, actions *services.StageActionService) *LeadHandler {
	return &LeadHandler{
		Service:     service,
		Progression: progression,
		Demos:       demos,
		Proposals:   proposals,
		Actions:     actions,
	}
}
func (h *LeadHandler) Create(c *gin.Context) {
	var lead models.Leads
	if err := c.ShouldBindJSON(&lead); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, roleID := getUserAndRole(c)
	if authz.IsReadOnly(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "read-only role"})
		return
	}

	// Владельца проставляем из токена (входящий owner_id игнорируем)
	lead.OwnerID = userID
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}

	if err := h.Service.Create(&lead); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, lead)
}

func (h *LeadHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid id"})
		return
	}

	userID, roleID := getUserAndRole(c)
	if authz.IsReadOnly(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "read-only role"})
		return
	}

	current, err := h.Service.GetByID(id)
	if err != nil || current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}
	// sales — только свою; elevated — любую
	if current.OwnerID != userID && !authz.IsElevated(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var body models.Leads
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	body.ID = id

	// запрещаем менять владельца, если роль не elevated
	if !authz.IsElevated(roleID) {
		body.OwnerID = current.OwnerID
	}

	if err := h.Service.Update(&body); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	updated, _ := h.Service.GetByID(id)
	c.JSON(200, updated)
}

// GetByID отдаёт лида вместе с его положением в воронке — клиент рисует
// степпер по progression, не вычисляя индексы сам.
func (h *LeadHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid id"})
		return
	}

	userID, roleID := getUserAndRole(c)

	lead, err := h.Service.GetByID(id)
	if err != nil || lead == nil {
		c.JSON(404, gin.H{"error": "lead not found"})
		return
	}
	if lead.OwnerID != userID && !authz.IsElevated(roleID) && roleID != authz.RoleAudit {
		c.JSON(403, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(200, gin.H{
		"lead":        lead,
		"progression": h.Progression.Progression(lead),
	})
}

// Activity — вся зафиксированная по лиду работа: демо-сессии, предложения,
// суммы по этапам и история назначений.
func (h *LeadHandler) Activity(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid id"})
		return
	}

	userID, roleID := getUserAndRole(c)

	lead, err := h.Service.GetByID(id)
	if err != nil || lead == nil {
		c.JSON(404, gin.H{"error": "lead not found"})
		return
	}
	if lead.OwnerID != userID && !authz.IsElevated(roleID) && roleID != authz.RoleAudit {
		c.JSON(403, gin.H{"error": "forbidden"})
		return
	}

	demos, err := h.Demos.History(id)
	if err != nil {
		c.JSON(500, gin.H{"error": "failed to load activity"})
		return
	}
	proposals, err := h.Proposals.History(id)
	if err != nil {
		c.JSON(500, gin.H{"error": "failed to load activity"})
		return
	}
	actions, err := h.Actions.History(id)
	if err != nil {
		c.JSON(500, gin.H{"error": "failed to load activity"})
		return
	}
	assignments, err := h.Service.AssignmentHistory(id)
	if err != nil {
		c.JSON(500, gin.H{"error": "failed to load activity"})
		return
	}

	c.JSON(200, gin.H{
		"demo_sessions": demos,
		"proposals":     proposals,
		"stage_actions": actions,
		"assignments":   assignments,
	})
}

func (h *LeadHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid id"})
		return
	}

	userID, roleID := getUserAndRole(c)
	if authz.IsReadOnly(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "read-only role"})
		return
	}

	lead, err := h.Service.GetByID(id)
	if err != nil || lead == nil {
		c.JSON(404, gin.H{"error": "lead not found"})
		return
	}
	if lead.OwnerID != userID && !authz.IsElevated(roleID) {
		c.JSON(403, gin.H{"error": "forbidden"})
		return
	}

	if err := h.Service.Delete(id); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.Status(204)
}

func (h *LeadHandler) List(c *gin.Context) {
	pageStr := c.DefaultQuery("page", "1")
	sizeStr := c.DefaultQuery("size", "100")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size < 1 {
		size = 100
	}

	offset := (page - 1) * size

	userID, roleID := getUserAndRole(c)

	var leads []*models.Leads
	if authz.IsElevated(roleID) || roleID == authz.RoleAudit {
		leads, err = h.Service.ListPaginated(size, offset)
	} else {
		leads, err = h.Service.ListMy(userID, size, offset)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list leads"})
		return
	}
	c.JSON(http.StatusOK, leads)
}

type assignLeadRequest struct {
	AssignedTo int `json:"assigned_to" binding:"required"`
	NotifyTo   int `json:"notify_to"`
}

func (h *LeadHandler) Assign(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid id"})
		return
	}

	userID, roleID := getUserAndRole(c)
	if authz.IsReadOnly(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "read-only role"})
		return
	}

	var req assignLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	a, err := h.Service.Assign(id, userID, req.AssignedTo, req.NotifyTo)
	if err != nil {
		if err == services.ErrLeadNotFound {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, a)
}

// MarkLost/MarkWon — терминальные флаги уровня лида. После любого из них
// движок прогрессии не принимает переходов.
func (h *LeadHandler) MarkLost(c *gin.Context) {
	h.markTerminal(c, h.Service.MarkLost)
}

func (h *LeadHandler) MarkWon(c *gin.Context) {
	h.markTerminal(c, h.Service.MarkWon)
}

func (h *LeadHandler) markTerminal(c *gin.Context, mark func(int) error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid id"})
		return
	}

	userID, roleID := getUserAndRole(c)
	if authz.IsReadOnly(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "read-only role"})
		return
	}

	lead, err := h.Service.GetByID(id)
	if err != nil || lead == nil {
		c.JSON(404, gin.H{"error": "lead not found"})
		return
	}
	if lead.OwnerID != userID && !authz.IsElevated(roleID) {
		c.JSON(403, gin.H{"error": "forbidden"})
		return
	}

	if err := mark(id); err != nil {
		switch err.Error() {
		case "lead is already won", "lead is already lost":
			c.JSON(409, gin.H{"error": err.Error()})
		default:
			c.JSON(500, gin.H{"error": err.Error()})
		}
		return
	}
	updated, _ := h.Service.GetByID(id)
	c.JSON(200, updated)
}
