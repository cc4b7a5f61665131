package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadhub/internal/services"
)

type StageHandler struct {
	Registry *services.StageRegistry
}

func NewStageHandler(registry *services.StageRegistry) *StageHandler {
	return &StageHandler{Registry: registry}
}

// List отдаёт этапы воронки с уже проставленными index/kind.
// Пустой реестр — пробуем перезагрузить; не вышло — 503, степпер на
// клиенте остаётся в состоянии ошибки и кликов не принимает.
func (h *StageHandler) List(c *gin.Context) {
	if h.Registry.Len() == 0 {
		if err := h.Registry.Load(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to load stages"})
			return
		}
	}
	c.JSON(http.StatusOK, h.Registry.Stages())
}
