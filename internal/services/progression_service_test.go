package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadhub/internal/models"
)

type fakeLeadStore struct {
	leads     map[int]*models.Leads
	updateErr error
	updated   []int // stage_id по порядку коммитов
}

func (f *fakeLeadStore) GetByID(id int) (*models.Leads, error) {
	lead, ok := f.leads[id]
	if !ok {
		return nil, nil
	}
	cp := *lead
	return &cp, nil
}

func (f *fakeLeadStore) UpdateStage(id, stageID int) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.leads[id].StageID = stageID
	f.updated = append(f.updated, stageID)
	return nil
}

type fakeAssignmentStore struct {
	created []models.Assignment
	err     error
}

func (f *fakeAssignmentStore) Create(a *models.Assignment) error {
	if f.err != nil {
		return f.err
	}
	a.ID = len(f.created) + 1
	f.created = append(f.created, *a)
	return nil
}

func (f *fakeAssignmentStore) ListByLead(leadID int) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range f.created {
		if a.LeadID == leadID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeDemoStore struct{ created []models.DemoSession }

func (f *fakeDemoStore) Create(s *models.DemoSession) error {
	s.ID = len(f.created) + 1
	f.created = append(f.created, *s)
	return nil
}

func (f *fakeDemoStore) ListByLead(leadID int) ([]models.DemoSession, error) {
	var out []models.DemoSession
	for _, d := range f.created {
		if d.LeadID == leadID {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeProposalStore struct{ created []models.Proposal }

func (f *fakeProposalStore) Create(p *models.Proposal) error {
	p.ID = len(f.created) + 1
	f.created = append(f.created, *p)
	return nil
}

func (f *fakeProposalStore) ListByLead(leadID int) ([]models.Proposal, error) {
	var out []models.Proposal
	for _, p := range f.created {
		if p.LeadID == leadID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeActionStore struct{ created []models.StageAction }

func (f *fakeActionStore) Create(a *models.StageAction) error {
	a.ID = len(f.created) + 1
	f.created = append(f.created, *a)
	return nil
}

func (f *fakeActionStore) ListByLead(leadID int) ([]models.StageAction, error) {
	var out []models.StageAction
	for _, a := range f.created {
		if a.LeadID == leadID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeNotifier struct{ calls chan string }

func (f *fakeNotifier) NotifyStageAssignment(lead *models.Leads, stage models.Stage, assignedTo, notifyTo int) {
	if f.calls != nil {
		f.calls <- stage.Name
	}
}

type progressionFixture struct {
	svc         *ProgressionService
	leads       *fakeLeadStore
	remarks     *fakeRemarkStore
	demos       *fakeDemoStore
	proposals   *fakeProposalStore
	actions     *fakeActionStore
	assignments *fakeAssignmentStore
	notifier    *fakeNotifier
}

// Воронка: New(1) → Demo Session(2) → Proposal(3) → Negotiation(4) → Won(5).
func newProgressionFixture(t *testing.T) *progressionFixture {
	t.Helper()
	store := &fakeStageStore{stages: []models.Stage{
		{ID: 1, Name: "New", Order: 10, Active: true},
		{ID: 2, Name: "Demo Session", Order: 20, Active: true},
		{ID: 3, Name: "Proposal", Order: 30, Active: true},
		{ID: 4, Name: "Negotiation", Order: 40, Active: true},
		{ID: 5, Name: "Won", Order: 50, Active: true},
	}}
	registry := NewStageRegistry(store, testMapping())
	require.NoError(t, registry.Load())

	f := &progressionFixture{
		leads: &fakeLeadStore{leads: map[int]*models.Leads{
			7: {ID: 7, Title: "Acme", OwnerID: 3, StageID: 1},
		}},
		remarks:     &fakeRemarkStore{},
		demos:       &fakeDemoStore{},
		proposals:   &fakeProposalStore{},
		actions:     &fakeActionStore{},
		assignments: &fakeAssignmentStore{},
		notifier:    &fakeNotifier{},
	}
	f.svc = NewProgressionService(
		registry,
		f.leads,
		NewDemoSessionService(f.demos),
		NewProposalService(f.proposals),
		NewStageActionService(f.actions),
		NewRemarkService(f.remarks),
		f.assignments,
		f.notifier,
		"won",
		8*time.Second,
	)
	return f
}

func validDemoDraft() models.DemoSessionDraft {
	return models.DemoSessionDraft{
		SessionType: models.SessionOnline,
		StartTime:   time.Now().Add(time.Hour),
		EndTime:     time.Now().Add(2 * time.Hour),
		Attendees:   []int64{11},
		Presenters:  []int64{21},
	}
}

func TestBeginErrors(t *testing.T) {
	f := newProgressionFixture(t)

	_, err := f.svc.Begin(404, 2, 3)
	assert.ErrorIs(t, err, ErrLeadNotFound)

	_, err = f.svc.Begin(7, 99, 3)
	assert.ErrorIs(t, err, ErrStageUnknown)

	// лид на New (index 0): назад/на месте нельзя
	_, err = f.svc.Begin(7, 1, 3)
	assert.ErrorIs(t, err, ErrStageNotSelectable)
}

func TestBeginEmptyRegistry(t *testing.T) {
	registry := NewStageRegistry(&fakeStageStore{}, testMapping())
	require.NoError(t, registry.Load())
	svc := NewProgressionService(registry, &fakeLeadStore{}, nil, nil, nil, nil, nil, nil, "won", time.Second)

	_, err := svc.Begin(7, 1, 3)
	assert.ErrorIs(t, err, ErrNoStages)
}

func TestGenericStageSkipsSpecializedStep(t *testing.T) {
	f := newProgressionFixture(t)
	// лид без этапа может зайти сразу на generic-этап
	f.leads.leads[7].StageID = 0

	flow, err := f.svc.Begin(7, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, FlowAwaitingRemark, flow.State)

	res, err := f.svc.SubmitRemark(flow.Token, models.RemarkDraft{Text: "first touch"})
	require.NoError(t, err)
	assert.True(t, res.RemarkSaved)
	assert.True(t, res.Committed)
	assert.False(t, res.Celebrate)
	assert.Equal(t, 1, f.leads.leads[7].StageID)
}

func TestDemoSessionFlow(t *testing.T) {
	f := newProgressionFixture(t)

	flow, err := f.svc.Begin(7, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, FlowAwaitingSpecialized, flow.State)

	// ремарка до специализированного шага — не тот шаг
	_, err = f.svc.SubmitRemark(flow.Token, models.RemarkDraft{Text: "too early"})
	assert.ErrorIs(t, err, ErrWrongStep)

	// чужой специализированный шаг — тоже
	_, err = f.svc.SubmitProposal(flow.Token, models.ProposalDraft{SendModeID: 1, PreparedBy: 1, VerifiedBy: 2, SendBy: 3})
	assert.ErrorIs(t, err, ErrWrongStep)

	flow, err = f.svc.SubmitDemoSession(flow.Token, validDemoDraft())
	require.NoError(t, err)
	assert.Equal(t, FlowAwaitingRemark, flow.State)
	require.Len(t, f.demos.created, 1)
	assert.Equal(t, 7, f.demos.created[0].LeadID)

	res, err := f.svc.SubmitRemark(flow.Token, models.RemarkDraft{Text: "demo went well"})
	require.NoError(t, err)
	assert.True(t, res.Committed)
	assert.Equal(t, 2, f.leads.leads[7].StageID)

	// ремарка помечена целевым этапом
	require.Len(t, f.remarks.created, 1)
	assert.Equal(t, 2, f.remarks.created[0].StageID)

	// flow закрыт, повторный сабмит игнорируется
	_, err = f.svc.SubmitRemark(flow.Token, models.RemarkDraft{Text: "again"})
	assert.ErrorIs(t, err, ErrFlowClosed)
}

func TestAmountFlowAndSkippingStages(t *testing.T) {
	f := newProgressionFixture(t)

	// перескок с New сразу на Negotiation (мимо Demo и Proposal)
	flow, err := f.svc.Begin(7, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, FlowAwaitingSpecialized, flow.State)

	_, err = f.svc.SubmitAmount(flow.Token, 0)
	assert.True(t, IsValidation(err))

	flow, err = f.svc.SubmitAmount(flow.Token, 125000)
	require.NoError(t, err)
	require.Len(t, f.actions.created, 1)
	assert.Equal(t, "Negotiation", f.actions.created[0].StageName)

	res, err := f.svc.SubmitRemark(flow.Token, models.RemarkDraft{Text: "terms discussed"})
	require.NoError(t, err)
	assert.True(t, res.Committed)
	assert.Equal(t, 4, f.leads.leads[7].StageID)
}

func TestRestartSupersedesOldFlow(t *testing.T) {
	f := newProgressionFixture(t)

	first, err := f.svc.Begin(7, 2, 3)
	require.NoError(t, err)
	second, err := f.svc.Begin(7, 3, 3)
	require.NoError(t, err)

	// запоздалый сабмит по брошенному переходу игнорируется
	_, err = f.svc.SubmitDemoSession(first.Token, validDemoDraft())
	assert.ErrorIs(t, err, ErrFlowClosed)

	_, err = f.svc.SubmitProposal(second.Token, models.ProposalDraft{SendModeID: 1, PreparedBy: 1, VerifiedBy: 2, SendBy: 3})
	require.NoError(t, err)
}

func TestEmptyRemarkRejectedWithoutSideEffects(t *testing.T) {
	f := newProgressionFixture(t)
	f.leads.leads[7].StageID = 0

	flow, err := f.svc.Begin(7, 1, 3)
	require.NoError(t, err)

	_, err = f.svc.SubmitRemark(flow.Token, models.RemarkDraft{Text: "  "})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Empty(t, f.remarks.created)
	assert.Empty(t, f.leads.updated)

	// flow жив, можно поправить и отправить снова
	_, err = f.svc.SubmitRemark(flow.Token, models.RemarkDraft{Text: "fixed"})
	require.NoError(t, err)
}

func TestAssignmentFailureKeepsRemarkAndCommits(t *testing.T) {
	f := newProgressionFixture(t)
	f.leads.leads[7].StageID = 0
	f.assignments.err = errors.New("insert failed")

	flow, err := f.svc.Begin(7, 1, 3)
	require.NoError(t, err)

	res, err := f.svc.SubmitRemark(flow.Token, models.RemarkDraft{Text: "note", AssignedToUserID: 5})
	require.NoError(t, err)
	assert.True(t, res.RemarkSaved)
	assert.Equal(t, "remark saved, assignment failed", res.AssignmentError)
	assert.True(t, res.Committed, "провал назначения не блокирует коммит")
	require.Len(t, f.remarks.created, 1)
}

func TestCommitFailureLeavesFlowRetryable(t *testing.T) {
	f := newProgressionFixture(t)
	f.leads.leads[7].StageID = 0
	f.leads.updateErr = errors.New("db down")

	flow, err := f.svc.Begin(7, 1, 3)
	require.NoError(t, err)

	res, err := f.svc.SubmitRemark(flow.Token, models.RemarkDraft{Text: "note"})
	require.NoError(t, err)
	assert.True(t, res.RemarkSaved, "ремарка остаётся даже при провале коммита")
	assert.False(t, res.Committed)
	assert.Equal(t, "db down", res.CommitError)

	// после восстановления БД тот же token дорабатывает до конца
	f.leads.updateErr = nil
	res, err = f.svc.SubmitRemark(flow.Token, models.RemarkDraft{Text: "note"})
	require.NoError(t, err)
	assert.True(t, res.Committed)
}

func TestAssignmentNotifiesAsync(t *testing.T) {
	f := newProgressionFixture(t)
	f.leads.leads[7].StageID = 0
	f.notifier.calls = make(chan string, 1)

	flow, err := f.svc.Begin(7, 1, 3)
	require.NoError(t, err)

	res, err := f.svc.SubmitRemark(flow.Token, models.RemarkDraft{Text: "note", AssignedToUserID: 5, NotifiedToUserID: 6})
	require.NoError(t, err)
	assert.True(t, res.Committed)
	require.Len(t, f.assignments.created, 1)
	assert.Equal(t, 5, f.assignments.created[0].AssignedTo)
	assert.Equal(t, 6, f.assignments.created[0].NotifyTo)

	select {
	case name := <-f.notifier.calls:
		assert.Equal(t, "New", name)
	case <-time.After(time.Second):
		t.Fatal("уведомление не отправлено")
	}
}

// Два одновременных сабмита по одному token: коммит ровно один, второй
// получает закрытый переход, ремарка не дублируется.
func TestConcurrentRemarkSubmitsCommitOnce(t *testing.T) {
	f := newProgressionFixture(t)
	f.leads.leads[7].StageID = 0

	flow, err := f.svc.Begin(7, 1, 3)
	require.NoError(t, err)

	type outcome struct {
		res *TransitionResult
		err error
	}
	results := make(chan outcome, 2)
	for i := 0; i < 2; i++ {
		go func() {
			res, err := f.svc.SubmitRemark(flow.Token, models.RemarkDraft{Text: "note"})
			results <- outcome{res: res, err: err}
		}()
	}

	var committed, closed int
	for i := 0; i < 2; i++ {
		o := <-results
		switch {
		case o.err == nil && o.res.Committed:
			committed++
		case errors.Is(o.err, ErrFlowClosed):
			closed++
		default:
			t.Fatalf("unexpected outcome: res=%+v err=%v", o.res, o.err)
		}
	}
	assert.Equal(t, 1, committed)
	assert.Equal(t, 1, closed)
	assert.Len(t, f.remarks.created, 1)
	assert.Equal(t, []int{1}, f.leads.updated)
}

func TestCancelKeepsSpecializedRecord(t *testing.T) {
	f := newProgressionFixture(t)

	flow, err := f.svc.Begin(7, 2, 3)
	require.NoError(t, err)
	_, err = f.svc.SubmitDemoSession(flow.Token, validDemoDraft())
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(flow.Token))
	assert.ErrorIs(t, f.svc.Cancel(flow.Token), ErrFlowClosed)

	// запись демо-сессии остаётся, этап не сдвинулся
	assert.Len(t, f.demos.created, 1)
	assert.Equal(t, 1, f.leads.leads[7].StageID)
	assert.Empty(t, f.leads.updated)
}

func TestCelebrateOnWinIsOneShot(t *testing.T) {
	f := newProgressionFixture(t)
	f.leads.leads[7].StageID = 4 // Negotiation

	flow, err := f.svc.Begin(7, 5, 3)
	require.NoError(t, err)
	flow, err = f.svc.SubmitAmount(flow.Token, 99000)
	require.NoError(t, err)

	res, err := f.svc.SubmitRemark(flow.Token, models.RemarkDraft{Text: "closed!"})
	require.NoError(t, err)
	assert.True(t, res.Committed)
	assert.True(t, res.Celebrate, "взятие выигрышного этапа празднуется")

	// повторный «рендер» того же выигрыша салют не перезапускает
	assert.False(t, f.svc.celebrateOnce(7, flow.Target))
}

func TestTerminalLeadIsFrozen(t *testing.T) {
	f := newProgressionFixture(t)
	f.leads.leads[7].IsLost = true

	_, err := f.svc.Begin(7, 2, 3)
	assert.ErrorIs(t, err, ErrStageNotSelectable)
}

// Карточка активности: всё, что накопилось по лиду за время прохождения
// воронки, достаётся обратно по lead_id.
func TestActivityHistoryPerLead(t *testing.T) {
	f := newProgressionFixture(t)

	flow, err := f.svc.Begin(7, 2, 3)
	require.NoError(t, err)
	flow, err = f.svc.SubmitDemoSession(flow.Token, validDemoDraft())
	require.NoError(t, err)
	_, err = f.svc.SubmitRemark(flow.Token, models.RemarkDraft{Text: "demo done", AssignedToUserID: 5})
	require.NoError(t, err)

	demoSvc := NewDemoSessionService(f.demos)
	sessions, err := demoSvc.History(7)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 7, sessions[0].LeadID)

	// чужой лид — пусто
	sessions, err = demoSvc.History(8)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	leadSvc := &LeadService{Assignments: f.assignments}
	assignments, err := leadSvc.AssignmentHistory(7)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, 7, assignments[0].LeadID)
}
