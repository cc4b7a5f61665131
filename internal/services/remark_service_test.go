package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadhub/internal/models"
)

type fakeRemarkStore struct {
	created []models.Remark
	list    []models.Remark
	nextID  int
	err     error
}

func (f *fakeRemarkStore) Create(m *models.Remark) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	m.ID = f.nextID
	f.created = append(f.created, *m)
	return nil
}

func (f *fakeRemarkStore) ListByLead(leadID int) ([]models.Remark, error) {
	return f.list, f.err
}

func (f *fakeRemarkStore) GetByID(id int) (*models.Remark, error) {
	for i := range f.list {
		if f.list[i].ID == id {
			return &f.list[i], nil
		}
	}
	return nil, nil
}

func TestValidateRemarkDraft(t *testing.T) {
	valid := func() models.RemarkDraft { return models.RemarkDraft{Text: "called, waiting for reply"} }

	t.Run("валидный черновик", func(t *testing.T) {
		assert.NoError(t, ValidateRemarkDraft(valid()))
	})

	t.Run("пустая ремарка", func(t *testing.T) {
		err := ValidateRemarkDraft(models.RemarkDraft{Text: "   "})
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.Equal(t, "remark required", err.Error())
	})

	t.Run("слишком длинный текст", func(t *testing.T) {
		d := valid()
		d.Text = strings.Repeat("x", maxRemarkLen+1)
		err := ValidateRemarkDraft(d)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("граница длины проходит", func(t *testing.T) {
		d := valid()
		d.Text = strings.Repeat("x", maxRemarkLen)
		assert.NoError(t, ValidateRemarkDraft(d))
	})

	t.Run("лимит считается в символах, не в байтах", func(t *testing.T) {
		d := valid()
		// 500 кириллических символов = 1000 байт, но это ровно лимит
		d.Text = strings.Repeat("ж", maxRemarkLen)
		assert.NoError(t, ValidateRemarkDraft(d))

		d.Text = strings.Repeat("ж", maxRemarkLen+1)
		assert.Error(t, ValidateRemarkDraft(d))
	})

	t.Run("отрицательная сумма проекта", func(t *testing.T) {
		d := valid()
		v := -1.0
		d.ProjectValue = &v
		assert.Error(t, ValidateRemarkDraft(d))
	})

	t.Run("сумма проекта выше потолка", func(t *testing.T) {
		d := valid()
		v := float64(maxProjectValue + 1)
		d.ProjectValue = &v
		assert.Error(t, ValidateRemarkDraft(d))
	})
}

func TestRemarkCreateTagsTargetStage(t *testing.T) {
	store := &fakeRemarkStore{}
	svc := NewRemarkService(store)

	remark, err := svc.Create(7, 42, 3, models.RemarkDraft{Text: "moved after demo"})
	require.NoError(t, err)
	assert.Equal(t, 1, remark.ID)
	assert.Equal(t, 7, remark.LeadID)
	assert.Equal(t, 42, remark.StageID, "ремарка помечается целевым этапом")
	assert.Equal(t, 3, remark.CreatedBy)
	require.Len(t, store.created, 1)
}

func TestRemarkCreateInvalidDoesNotTouchStore(t *testing.T) {
	store := &fakeRemarkStore{}
	svc := NewRemarkService(store)

	_, err := svc.Create(7, 42, 3, models.RemarkDraft{Text: ""})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Empty(t, store.created)
}

func TestDedupRemarks(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	due := base.Add(48 * time.Hour)

	a := models.Remark{ID: 1, LeadID: 7, Text: "call back", CreatedAt: base}
	b := models.Remark{ID: 2, LeadID: 7, Text: "sent proposal", CreatedAt: base.Add(time.Hour), DueDate: &due}
	// тот же текст и время, но другой id — НЕ дубликат
	c := models.Remark{ID: 3, LeadID: 7, Text: "call back", CreatedAt: base}

	got := DedupRemarks([]models.Remark{a, a, b, c, b})
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{got[0].ID, got[1].ID, got[2].ID}, "порядок первого вхождения сохраняется")
}

func TestTimelineDeduplicates(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	dup := models.Remark{ID: 5, LeadID: 7, Text: "dup", CreatedAt: base}
	store := &fakeRemarkStore{list: []models.Remark{dup, dup}}
	svc := NewRemarkService(store)

	got, err := svc.Timeline(7)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
