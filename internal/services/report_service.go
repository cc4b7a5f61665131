package services

import (
	"time"

	"leadhub/internal/models"
	"leadhub/internal/pdf"
	"leadhub/internal/repositories"
)

type StageSummary struct {
	Stage models.Stage `json:"stage"`
	Count int          `json:"count"`
}

type PipelineSummary struct {
	Stages   []StageSummary `json:"stages"`
	Unstaged int            `json:"unstaged"`
	Lost     int            `json:"lost"`
	Won      int            `json:"won"`
}

type ReportService struct {
	Leads    *repositories.LeadRepository
	Remarks  *RemarkService
	Registry *StageRegistry
	PDF      pdf.Generator
}

func NewReportService(leads *repositories.LeadRepository, remarks *RemarkService, registry *StageRegistry, gen pdf.Generator) *ReportService {
	return &ReportService{Leads: leads, Remarks: remarks, Registry: registry, PDF: gen}
}

// PipelineSummary — лиды по этапам в порядке воронки.
func (s *ReportService) PipelineSummary() (*PipelineSummary, error) {
	counts, err := s.Leads.CountByStage()
	if err != nil {
		return nil, err
	}
	lost, won, err := s.Leads.CountTerminal()
	if err != nil {
		return nil, err
	}

	out := &PipelineSummary{Unstaged: counts[0], Lost: lost, Won: won}
	for _, stage := range s.Registry.Stages() {
		out.Stages = append(out.Stages, StageSummary{Stage: stage, Count: counts[stage.ID]})
	}
	return out, nil
}

func (s *ReportService) PipelinePDF() ([]byte, error) {
	summary, err := s.PipelineSummary()
	if err != nil {
		return nil, err
	}
	data := pdf.PipelineReportData{
		GeneratedAt: time.Now(),
		Unstaged:    summary.Unstaged,
		Lost:        summary.Lost,
		Won:         summary.Won,
	}
	for _, row := range summary.Stages {
		data.Rows = append(data.Rows, pdf.StageRow{
			Name:   row.Stage.Name,
			Active: row.Stage.Active,
			Count:  row.Count,
		})
	}
	return s.PDF.GeneratePipelineReport(data)
}

// LeadTrailPDF — экспорт дорожки ремарок лида.
func (s *ReportService) LeadTrailPDF(lead *models.Leads) ([]byte, error) {
	remarks, err := s.Remarks.Timeline(lead.ID)
	if err != nil {
		return nil, err
	}
	data := pdf.LeadTrailData{
		LeadTitle:   lead.Title,
		GeneratedAt: time.Now(),
	}
	for _, m := range remarks {
		stageName := ""
		if stage, ok := s.Registry.ByID(m.StageID); ok {
			stageName = stage.Name
		}
		data.Entries = append(data.Entries, pdf.TrailEntry{
			StageName: stageName,
			Text:      m.Text,
			CreatedAt: m.CreatedAt,
			DueDate:   m.DueDate,
		})
	}
	return s.PDF.GenerateLeadTrail(data)
}
