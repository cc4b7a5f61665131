package services

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"leadhub/internal/models"
)

type LeadStore interface {
	GetByID(id int) (*models.Leads, error)
	UpdateStage(id, stageID int) error
}

type AssignmentStore interface {
	Create(*models.Assignment) error
	ListByLead(leadID int) ([]models.Assignment, error)
}

// Notifier — лучший-из-возможных канал (почта/telegram). Вызывается в
// горутине, никогда не блокирует и не роняет переход.
type Notifier interface {
	NotifyStageAssignment(lead *models.Leads, stage models.Stage, assignedTo, notifyTo int)
}

// FlowState — явный конечный автомат перехода вместо россыпи флагов
// видимости диалогов:
//
//	begin → awaiting_specialized → awaiting_remark → (commit) → closed
//	begin → awaiting_remark → (commit) → closed        (generic)
type FlowState string

const (
	FlowAwaitingSpecialized FlowState = "awaiting_specialized"
	FlowAwaitingRemark      FlowState = "awaiting_remark"
	FlowClosed              FlowState = "closed"
)

// TransitionFlow — один начатый переход одного лида. Token отсекает
// запоздалые сабмиты по уже брошенному/пересозданному переходу.
// State защищён собственным мьютексом: каждый сабмит по token
// выполняется строго последовательно.
type TransitionFlow struct {
	Token     string       `json:"token"`
	LeadID    int          `json:"lead_id"`
	UserID    int          `json:"-"`
	Target    models.Stage `json:"target_stage"`
	State     FlowState    `json:"state"`
	StartedAt time.Time    `json:"started_at"`

	mu sync.Mutex
}

// TransitionResult — точный отчёт о том, что удалось, а что нет.
// Частичный успех не схлопывается в один pass/fail.
type TransitionResult struct {
	RemarkID        int                     `json:"remark_id"`
	RemarkSaved     bool                    `json:"remark_saved"`
	AssignmentError string                  `json:"assignment_error,omitempty"`
	Committed       bool                    `json:"committed"`
	CommitError     string                  `json:"commit_error,omitempty"`
	Celebrate       bool                    `json:"celebrate"`
	Progression     models.ProgressionState `json:"progression"`
}

type ProgressionService struct {
	Registry    *StageRegistry
	Leads       LeadStore
	Demos       *DemoSessionService
	Proposals   *ProposalService
	Actions     *StageActionService
	Remarks     *RemarkService
	Assignments AssignmentStore
	Notify      Notifier

	WonStage        string
	CelebrateWindow time.Duration

	mu         sync.Mutex
	flows      map[string]*TransitionFlow // token → flow
	leadFlows  map[int]string             // leadID → активный token
	celebrated map[int]time.Time          // one-shot салют по лиду
}

func NewProgressionService(
	registry *StageRegistry,
	leads LeadStore,
	demos *DemoSessionService,
	proposals *ProposalService,
	actions *StageActionService,
	remarks *RemarkService,
	assignments AssignmentStore,
	notify Notifier,
	wonStage string,
	celebrateWindow time.Duration,
) *ProgressionService {
	return &ProgressionService{
		Registry:        registry,
		Leads:           leads,
		Demos:           demos,
		Proposals:       proposals,
		Actions:         actions,
		Remarks:         remarks,
		Assignments:     assignments,
		Notify:          notify,
		WonStage:        wonStage,
		CelebrateWindow: celebrateWindow,
		flows:           map[string]*TransitionFlow{},
		leadFlows:       map[int]string{},
		celebrated:      map[int]time.Time{},
	}
}

// Progression собирает положение лида в воронке из строки лида и реестра.
func (s *ProgressionService) Progression(lead *models.Leads) models.ProgressionState {
	return models.ProgressionState{
		LeadID:            lead.ID,
		CurrentStageID:    lead.StageID,
		CurrentStageIndex: s.Registry.IndexOf(lead.StageID),
		IsLost:            lead.IsLost,
		IsWon:             lead.IsWon,
	}
}

// Begin открывает переход на целевой этап. Гейт решает, законен ли клик;
// отказ — не исключение, а обычный ответ (ErrStageNotSelectable → 409).
// Начатый заново переход вытесняет прежний token того же лида.
func (s *ProgressionService) Begin(leadID, targetStageID, userID int) (*TransitionFlow, error) {
	if s.Registry.Len() == 0 {
		return nil, ErrNoStages
	}
	lead, err := s.Leads.GetByID(leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}
	stage, ok := s.Registry.ByID(targetStageID)
	if !ok {
		return nil, ErrStageUnknown
	}
	if !CanSelect(stage, s.Progression(lead)) {
		return nil, ErrStageNotSelectable
	}

	flow := &TransitionFlow{
		Token:     uuid.NewString(),
		LeadID:    leadID,
		UserID:    userID,
		Target:    stage,
		State:     FlowAwaitingSpecialized,
		StartedAt: time.Now(),
	}
	if stage.Kind == models.KindGeneric {
		// generic: специализированного шага нет, сразу ремарка
		flow.State = FlowAwaitingRemark
	}

	s.mu.Lock()
	var superseded *TransitionFlow
	if old, ok := s.leadFlows[leadID]; ok {
		superseded = s.flows[old]
		delete(s.flows, old)
	}
	s.flows[flow.Token] = flow
	s.leadFlows[leadID] = flow.Token
	s.mu.Unlock()

	// вытесненный переход закрываем уже вне s.mu (порядок: f.mu → s.mu)
	if superseded != nil {
		superseded.mu.Lock()
		superseded.State = FlowClosed
		superseded.mu.Unlock()
	}

	return flow, nil
}

// lockFlow находит flow по token и захватывает его мьютекс; закрытый
// переход не выдаёт. Вызывающий обязан f.mu.Unlock().
func (s *ProgressionService) lockFlow(token string) (*TransitionFlow, error) {
	s.mu.Lock()
	f, ok := s.flows[token]
	s.mu.Unlock()
	if !ok {
		return nil, ErrFlowClosed
	}
	f.mu.Lock()
	if f.State == FlowClosed {
		f.mu.Unlock()
		return nil, ErrFlowClosed
	}
	return f, nil
}

func (s *ProgressionService) lockSpecialized(token string, kind models.WorkflowKind) (*TransitionFlow, error) {
	f, err := s.lockFlow(token)
	if err != nil {
		return nil, err
	}
	if f.State != FlowAwaitingSpecialized || f.Target.Kind != kind {
		f.mu.Unlock()
		return nil, ErrWrongStep
	}
	return f, nil
}

// SubmitDemoSession — специализированный шаг «демо-сессия». После успешной
// записи диалог ремарки открывается ВСЕГДА, до этого никакой коммит этапа
// не происходит.
func (s *ProgressionService) SubmitDemoSession(token string, d models.DemoSessionDraft) (*TransitionFlow, error) {
	f, err := s.lockSpecialized(token, models.KindDemoSession)
	if err != nil {
		return nil, err
	}
	defer f.mu.Unlock()
	if _, err := s.Demos.Submit(f.LeadID, f.UserID, d); err != nil {
		return nil, err
	}
	f.State = FlowAwaitingRemark
	return f, nil
}

func (s *ProgressionService) SubmitProposal(token string, d models.ProposalDraft) (*TransitionFlow, error) {
	f, err := s.lockSpecialized(token, models.KindProposal)
	if err != nil {
		return nil, err
	}
	defer f.mu.Unlock()
	if _, err := s.Proposals.Submit(f.LeadID, f.UserID, d); err != nil {
		return nil, err
	}
	f.State = FlowAwaitingRemark
	return f, nil
}

func (s *ProgressionService) SubmitAmount(token string, amount float64) (*TransitionFlow, error) {
	f, err := s.lockSpecialized(token, models.KindAmount)
	if err != nil {
		return nil, err
	}
	defer f.mu.Unlock()
	if _, err := s.Actions.Submit(f.LeadID, f.UserID, f.Target.Name, amount); err != nil {
		return nil, err
	}
	f.State = FlowAwaitingRemark
	return f, nil
}

// SubmitRemark — универсальный финальный шаг:
//  1. ремарка с ЦЕЛЕВЫМ этапом;
//  2. назначение (его провал НЕ откатывает ремарку — сообщаем раздельно);
//  3. уведомление fire-and-forget;
//  4. коммит этапа; при провале коммита ремарка остаётся, состояние лида
//     не трогаем, flow живёт — можно повторить.
func (s *ProgressionService) SubmitRemark(token string, d models.RemarkDraft) (*TransitionResult, error) {
	f, err := s.lockFlow(token)
	if err != nil {
		return nil, err
	}
	defer f.mu.Unlock()
	if f.State != FlowAwaitingRemark {
		return nil, ErrWrongStep
	}
	if err := ValidateRemarkDraft(d); err != nil {
		return nil, err
	}

	remark, err := s.Remarks.Create(f.LeadID, f.Target.ID, f.UserID, d)
	if err != nil {
		return nil, fmt.Errorf("save remark: %w", err)
	}
	res := &TransitionResult{RemarkID: remark.ID, RemarkSaved: true}

	if d.AssignedToUserID != 0 {
		a := &models.Assignment{
			LeadID:     f.LeadID,
			AssignedBy: f.UserID,
			AssignedTo: d.AssignedToUserID,
			NotifyTo:   d.NotifiedToUserID,
			CreatedAt:  time.Now(),
		}
		if err := s.Assignments.Create(a); err != nil {
			// ремарку не откатываем — частичный успех отдаём как есть
			log.Printf("[progression][assign] lead=%d assignee=%d failed: %v", f.LeadID, d.AssignedToUserID, err)
			res.AssignmentError = "remark saved, assignment failed"
		}
	}

	if s.Notify != nil && (d.AssignedToUserID != 0 || d.NotifiedToUserID != 0) {
		lead, lerr := s.Leads.GetByID(f.LeadID)
		if lerr == nil && lead != nil {
			go s.Notify.NotifyStageAssignment(lead, f.Target, d.AssignedToUserID, d.NotifiedToUserID)
		}
	}

	if err := s.Leads.UpdateStage(f.LeadID, f.Target.ID); err != nil {
		log.Printf("[progression][commit] lead=%d stage=%d failed: %v", f.LeadID, f.Target.ID, err)
		res.CommitError = err.Error()
		return res, nil
	}
	res.Committed = true
	res.Progression = models.ProgressionState{
		LeadID:            f.LeadID,
		CurrentStageID:    f.Target.ID,
		CurrentStageIndex: f.Target.Index,
	}
	res.Celebrate = s.celebrateOnce(f.LeadID, f.Target)

	f.State = FlowClosed
	s.drop(f)
	return res, nil
}

// Cancel бросает переход. Уже записанный специализированный шаг остаётся в
// БД, этап не двигается — принятое частичное состояние, не баг.
func (s *ProgressionService) Cancel(token string) error {
	f, err := s.lockFlow(token)
	if err != nil {
		return err
	}
	f.State = FlowClosed
	f.mu.Unlock()
	s.drop(f)
	return nil
}

func (s *ProgressionService) drop(f *TransitionFlow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flows, f.Token)
	if s.leadFlows[f.LeadID] == f.Token {
		delete(s.leadFlows, f.LeadID)
	}
}

// celebrateOnce — салют по достижении «выигрышного» этапа: ровно один раз,
// повторные рендеры того же состояния его не перезапускают.
func (s *ProgressionService) celebrateOnce(leadID int, stage models.Stage) bool {
	if !strings.EqualFold(stage.Name, s.WonStage) {
		return false
	}
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if at, ok := s.celebrated[leadID]; ok && now.Sub(at) < s.CelebrateWindow {
		return false
	}
	// попутно чистим протухшие отметки
	for id, at := range s.celebrated {
		if now.Sub(at) >= s.CelebrateWindow {
			delete(s.celebrated, id)
		}
	}
	s.celebrated[leadID] = now
	return true
}
