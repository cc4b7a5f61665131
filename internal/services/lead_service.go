package services

import (
	"errors"
	"time"

	"leadhub/internal/models"
	"leadhub/internal/repositories"
)

type LeadService struct {
	Repo        *repositories.LeadRepository
	Assignments AssignmentStore
}

func NewLeadService(leadRepo *repositories.LeadRepository, assignments AssignmentStore) *LeadService {
	return &LeadService{Repo: leadRepo, Assignments: assignments}
}

func (s *LeadService) Create(lead *models.Leads) error {
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}
	return s.Repo.Create(lead)
}

func (s *LeadService) Update(lead *models.Leads) error {
	return s.Repo.Update(lead)
}

func (s *LeadService) ListPaginated(limit, offset int) ([]*models.Leads, error) {
	return s.Repo.ListPaginated(limit, offset)
}

func (s *LeadService) ListMy(ownerID, limit, offset int) ([]*models.Leads, error) {
	return s.Repo.ListByOwner(ownerID, limit, offset)
}

func (s *LeadService) GetByID(id int) (*models.Leads, error) {
	return s.Repo.GetByID(id)
}

func (s *LeadService) Delete(id int) error {
	return s.Repo.Delete(id)
}

// MarkLost/MarkWon — действия уровня лида, внешние по отношению к движку
// прогрессии. Флаги взаимоисключающие; после любого из них степпер заморожен.
func (s *LeadService) MarkLost(id int) error {
	lead, err := s.Repo.GetByID(id)
	if err != nil || lead == nil {
		return ErrLeadNotFound
	}
	if lead.IsWon {
		return errors.New("lead is already won")
	}
	return s.Repo.SetTerminal(id, true, false)
}

func (s *LeadService) MarkWon(id int) error {
	lead, err := s.Repo.GetByID(id)
	if err != nil || lead == nil {
		return ErrLeadNotFound
	}
	if lead.IsLost {
		return errors.New("lead is already lost")
	}
	return s.Repo.SetTerminal(id, false, true)
}

// Assign — прямое назначение ответственного: пишем запись назначения и
// меняем владельца лида.
func (s *LeadService) Assign(leadID, assignedBy, assignedTo, notifyTo int) (*models.Assignment, error) {
	lead, err := s.Repo.GetByID(leadID)
	if err != nil || lead == nil {
		return nil, ErrLeadNotFound
	}
	a := &models.Assignment{
		LeadID:     leadID,
		AssignedBy: assignedBy,
		AssignedTo: assignedTo,
		NotifyTo:   notifyTo,
		CreatedAt:  time.Now(),
	}
	if err := s.Assignments.Create(a); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateOwner(leadID, assignedTo); err != nil {
		return nil, err
	}
	return a, nil
}

// AssignmentHistory — история назначений лида для карточки активности.
func (s *LeadService) AssignmentHistory(leadID int) ([]models.Assignment, error) {
	return s.Assignments.ListByLead(leadID)
}
