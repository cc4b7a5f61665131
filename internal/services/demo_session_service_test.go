package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"leadhub/internal/models"
)

func TestValidateDemoSessionDraft(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	valid := func() models.DemoSessionDraft {
		return models.DemoSessionDraft{
			SessionType: models.SessionOnline,
			StartTime:   now.Add(time.Hour),
			EndTime:     now.Add(2 * time.Hour),
			Attendees:   []int64{11},
			Presenters:  []int64{21},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*models.DemoSessionDraft)
		wantErr string
	}{
		{"валидный черновик", func(d *models.DemoSessionDraft) {}, ""},
		{"неизвестный тип", func(d *models.DemoSessionDraft) { d.SessionType = "hybrid" }, "session type must be online or offline"},
		{"нет времени начала", func(d *models.DemoSessionDraft) { d.StartTime = time.Time{} }, "start and end time are required"},
		{"конец не позже начала", func(d *models.DemoSessionDraft) { d.EndTime = d.StartTime }, "end time must be after start time"},
		{"начало в прошлом", func(d *models.DemoSessionDraft) {
			d.StartTime = now.Add(-time.Hour)
			d.EndTime = now.Add(time.Hour)
		}, "start time must not be in the past"},
		{"слишком длинные заметки", func(d *models.DemoSessionDraft) { d.Notes = strings.Repeat("x", maxDemoNotesLen+1) }, "notes must be at most 200 characters"},
		{"слишком длинное место", func(d *models.DemoSessionDraft) { d.Place = strings.Repeat("x", maxDemoPlaceLen+1) }, "place must be at most 200 characters"},
		{"нет участников", func(d *models.DemoSessionDraft) { d.Attendees = nil }, "at least one attendee is required"},
		{"нет ведущих", func(d *models.DemoSessionDraft) { d.Presenters = nil }, "at least one presenter is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			tt.mutate(&d)
			err := ValidateDemoSessionDraft(d, now)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, IsValidation(err))
			assert.EqualError(t, err, tt.wantErr)
		})
	}

	t.Run("лимиты заметок и места в символах", func(t *testing.T) {
		d := valid()
		d.Notes = strings.Repeat("ж", maxDemoNotesLen)
		d.Place = strings.Repeat("ж", maxDemoPlaceLen)
		assert.NoError(t, ValidateDemoSessionDraft(d, now))

		d.Notes = strings.Repeat("ж", maxDemoNotesLen+1)
		assert.Error(t, ValidateDemoSessionDraft(d, now))
	})
}

func TestValidateProposalDraft(t *testing.T) {
	valid := models.ProposalDraft{SendModeID: 1, PreparedBy: 2, VerifiedBy: 3, SendBy: 4}
	assert.NoError(t, ValidateProposalDraft(valid))

	for _, tt := range []struct {
		name  string
		draft models.ProposalDraft
	}{
		{"без способа отправки", models.ProposalDraft{PreparedBy: 2, VerifiedBy: 3, SendBy: 4}},
		{"без подготовившего", models.ProposalDraft{SendModeID: 1, VerifiedBy: 3, SendBy: 4}},
		{"без проверившего", models.ProposalDraft{SendModeID: 1, PreparedBy: 2, SendBy: 4}},
		{"без отправителя", models.ProposalDraft{SendModeID: 1, PreparedBy: 2, VerifiedBy: 3}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProposalDraft(tt.draft)
			assert.True(t, IsValidation(err))
		})
	}

	long := valid
	long.Notes = strings.Repeat("x", maxProposalNotesLen+1)
	assert.Error(t, ValidateProposalDraft(long))

	cyr := valid
	cyr.Notes = strings.Repeat("ж", maxProposalNotesLen)
	assert.NoError(t, ValidateProposalDraft(cyr))
}
