package services

import (
	"time"
	"unicode/utf8"

	"leadhub/internal/models"
)

const maxProposalNotesLen = 500

type ProposalStore interface {
	Create(*models.Proposal) error
	ListByLead(leadID int) ([]models.Proposal, error)
}

type ProposalService struct {
	Repo ProposalStore
}

func NewProposalService(repo ProposalStore) *ProposalService {
	return &ProposalService{Repo: repo}
}

func ValidateProposalDraft(d models.ProposalDraft) error {
	if d.SendModeID == 0 {
		return validationf("send mode is required")
	}
	if d.PreparedBy == 0 {
		return validationf("prepared by is required")
	}
	if d.VerifiedBy == 0 {
		return validationf("verified by is required")
	}
	if d.SendBy == 0 {
		return validationf("send by is required")
	}
	if utf8.RuneCountInString(d.Notes) > maxProposalNotesLen {
		return validationf("notes must be at most %d characters", maxProposalNotesLen)
	}
	return nil
}

func (s *ProposalService) Submit(leadID, userID int, d models.ProposalDraft) (*models.Proposal, error) {
	if err := ValidateProposalDraft(d); err != nil {
		return nil, err
	}
	p := &models.Proposal{
		LeadID:     leadID,
		SendModeID: d.SendModeID,
		PreparedBy: d.PreparedBy,
		VerifiedBy: d.VerifiedBy,
		SendBy:     d.SendBy,
		Notes:      d.Notes,
		CreatedBy:  userID,
		CreatedAt:  time.Now(),
	}
	if err := s.Repo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProposalService) History(leadID int) ([]models.Proposal, error) {
	return s.Repo.ListByLead(leadID)
}
