package services

import (
	"time"
	"unicode/utf8"

	"leadhub/internal/models"
)

const (
	maxDemoNotesLen = 200
	maxDemoPlaceLen = 200
)

type DemoSessionStore interface {
	Create(*models.DemoSession) error
	ListByLead(leadID int) ([]models.DemoSession, error)
}

type DemoSessionService struct {
	Repo DemoSessionStore
}

func NewDemoSessionService(repo DemoSessionStore) *DemoSessionService {
	return &DemoSessionService{Repo: repo}
}

func ValidateDemoSessionDraft(d models.DemoSessionDraft, now time.Time) error {
	if d.SessionType != models.SessionOnline && d.SessionType != models.SessionOffline {
		return validationf("session type must be online or offline")
	}
	if d.StartTime.IsZero() || d.EndTime.IsZero() {
		return validationf("start and end time are required")
	}
	if !d.EndTime.After(d.StartTime) {
		return validationf("end time must be after start time")
	}
	if d.StartTime.Before(now) {
		return validationf("start time must not be in the past")
	}
	if utf8.RuneCountInString(d.Notes) > maxDemoNotesLen {
		return validationf("notes must be at most %d characters", maxDemoNotesLen)
	}
	if utf8.RuneCountInString(d.Place) > maxDemoPlaceLen {
		return validationf("place must be at most %d characters", maxDemoPlaceLen)
	}
	if len(d.Attendees) == 0 {
		return validationf("at least one attendee is required")
	}
	if len(d.Presenters) == 0 {
		return validationf("at least one presenter is required")
	}
	return nil
}

// Submit валидирует черновик и сохраняет демо-сессию. Запись остаётся в БД,
// даже если шаг ремарки потом бросят — это принятое частичное состояние.
func (s *DemoSessionService) Submit(leadID, userID int, d models.DemoSessionDraft) (*models.DemoSession, error) {
	if err := ValidateDemoSessionDraft(d, time.Now()); err != nil {
		return nil, err
	}
	session := &models.DemoSession{
		LeadID:      leadID,
		SessionType: d.SessionType,
		StartTime:   d.StartTime,
		EndTime:     d.EndTime,
		Notes:       d.Notes,
		Place:       d.Place,
		Attendees:   d.Attendees,
		Presenters:  d.Presenters,
		CreatedBy:   userID,
		CreatedAt:   time.Now(),
	}
	if err := s.Repo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// History — демо-сессии лида для карточки активности.
func (s *DemoSessionService) History(leadID int) ([]models.DemoSession, error) {
	return s.Repo.ListByLead(leadID)
}
