package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"leadhub/internal/services"
)

type ReportHandler struct {
	Service *services.ReportService
	Leads   *services.LeadService
}

func NewReportHandler(service *services.ReportService, leads *services.LeadService) *ReportHandler {
	return &ReportHandler{Service: service, Leads: leads}
}

// @Summary      Сводка по воронке
// @Description  Количество лидов по каждому этапу, плюс потерянные и выигранные
// @Tags         Reports
// @Produce      json
// @Success      200  {object}  services.PipelineSummary
// @Failure      500  {object}  map[string]string
// @Router       /reports/pipeline [get]
func (h *ReportHandler) PipelineSummary(c *gin.Context) {
	data, err := h.Service.PipelineSummary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *ReportHandler) PipelinePDF(c *gin.Context) {
	raw, err := h.Service.PipelinePDF()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	name := fmt.Sprintf("pipeline-%s.pdf", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", raw)
}

// Экспорт дорожки ремарок лида в PDF.
func (h *ReportHandler) LeadTrailPDF(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lead id"})
		return
	}
	lead, err := h.Leads.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if lead == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
		return
	}

	raw, err := h.Service.LeadTrailPDF(lead)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	name := fmt.Sprintf("lead-%d-trail.pdf", lead.ID)
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", raw)
}
