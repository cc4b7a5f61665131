package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"leadhub/internal/services"
)

type RemarkHandler struct {
	Service *services.RemarkService
}

func NewRemarkHandler(service *services.RemarkService) *RemarkHandler {
	return &RemarkHandler{Service: service}
}

// Timeline — история ремарок лида, только чтение, дубликаты уже отфильтрованы.
func (h *RemarkHandler) Timeline(c *gin.Context) {
	leadID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	remarks, err := h.Service.Timeline(leadID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list remarks"})
		return
	}
	c.JSON(http.StatusOK, remarks)
}

func (h *RemarkHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("remark_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	remark, err := h.Service.Get(id)
	if err != nil || remark == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "remark not found"})
		return
	}
	c.JSON(http.StatusOK, remark)
}
