package services

import (
	"time"

	"leadhub/internal/models"
)

type StageActionStore interface {
	Create(*models.StageAction) error
	ListByLead(leadID int) ([]models.StageAction, error)
}

type StageActionService struct {
	Repo StageActionStore
}

func NewStageActionService(repo StageActionStore) *StageActionService {
	return &StageActionService{Repo: repo}
}

// Submit — этапы с обязательной суммой: одно положительное число.
func (s *StageActionService) Submit(leadID, userID int, stageName string, amount float64) (*models.StageAction, error) {
	if amount <= 0 {
		return nil, validationf("amount must be positive")
	}
	a := &models.StageAction{
		LeadID:      leadID,
		StageName:   stageName,
		Amount:      amount,
		PerformedBy: userID,
		CreatedAt:   time.Now(),
	}
	if err := s.Repo.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *StageActionService) History(leadID int) ([]models.StageAction, error) {
	return s.Repo.ListByLead(leadID)
}
