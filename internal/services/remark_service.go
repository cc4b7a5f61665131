package services

import (
	"strings"
	"time"
	"unicode/utf8"

	"leadhub/internal/models"
)

const (
	maxRemarkLen    = 500
	maxProjectValue = 10_000_000
)

type RemarkStore interface {
	Create(*models.Remark) error
	ListByLead(leadID int) ([]models.Remark, error)
	GetByID(id int) (*models.Remark, error)
}

type RemarkService struct {
	Repo RemarkStore
}

func NewRemarkService(repo RemarkStore) *RemarkService {
	return &RemarkService{Repo: repo}
}

func ValidateRemarkDraft(d models.RemarkDraft) error {
	if strings.TrimSpace(d.Text) == "" {
		return validationf("remark required")
	}
	// лимиты в символах, не в байтах: кириллица не должна срезать их вдвое
	if utf8.RuneCountInString(d.Text) > maxRemarkLen {
		return validationf("remark must be at most %d characters", maxRemarkLen)
	}
	if d.ProjectValue != nil && (*d.ProjectValue < 0 || *d.ProjectValue > maxProjectValue) {
		return validationf("project value must be between 0 and %d", maxProjectValue)
	}
	return nil
}

// Create сохраняет ремарку, помеченную ЦЕЛЕВЫМ этапом перехода —
// ремарка документирует сам переход, а не текущее положение.
func (s *RemarkService) Create(leadID, targetStageID, userID int, d models.RemarkDraft) (*models.Remark, error) {
	if err := ValidateRemarkDraft(d); err != nil {
		return nil, err
	}
	remark := &models.Remark{
		LeadID:       leadID,
		StageID:      targetStageID,
		Text:         d.Text,
		ProjectValue: d.ProjectValue,
		CreatedBy:    userID,
		CreatedAt:    time.Now(),
		DueDate:      d.DueDate,
	}
	if err := s.Repo.Create(remark); err != nil {
		return nil, err
	}
	return remark, nil
}

// Timeline — история ремарок лида в порядке поступления, с дедупликацией по
// (id, text, createdAt, dueDate): бэкенд иногда отдаёт дубликаты.
func (s *RemarkService) Timeline(leadID int) ([]models.Remark, error) {
	remarks, err := s.Repo.ListByLead(leadID)
	if err != nil {
		return nil, err
	}
	return DedupRemarks(remarks), nil
}

func (s *RemarkService) Get(id int) (*models.Remark, error) {
	return s.Repo.GetByID(id)
}

type remarkKey struct {
	id      int
	text    string
	created int64
	due     int64
}

func DedupRemarks(remarks []models.Remark) []models.Remark {
	seen := make(map[remarkKey]struct{}, len(remarks))
	out := remarks[:0:0]
	for _, m := range remarks {
		k := remarkKey{id: m.ID, text: m.Text, created: m.CreatedAt.UnixNano()}
		if m.DueDate != nil {
			k.due = m.DueDate.UnixNano()
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, m)
	}
	return out
}
