package services

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"leadhub/internal/config"
	"leadhub/internal/models"
)

var ErrNoStages = errors.New("stage registry is empty")

type StageStore interface {
	List() ([]models.Stage, error)
}

// KindMapping — инъецируемое правило имя→вид воркфлоу. Задаётся конфигом,
// чтобы классификация не была зашита в код по подстрокам на каждый клик.
type KindMapping struct {
	DemoKeywords     []string
	ProposalKeywords []string
	AmountStages     []string
}

func MappingFromConfig(p config.PipelineConfig) KindMapping {
	return KindMapping{
		DemoKeywords:     p.DemoKeywords,
		ProposalKeywords: p.ProposalKeywords,
		AmountStages:     p.AmountStages,
	}
}

// ClassifyWorkflowKind — чистая и идемпотентная: одно и то же имя всегда
// даёт один и тот же вид.
func ClassifyWorkflowKind(name string, m KindMapping) models.WorkflowKind {
	lower := strings.ToLower(name)
	for _, kw := range m.DemoKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return models.KindDemoSession
		}
	}
	for _, kw := range m.ProposalKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return models.KindProposal
		}
	}
	for _, s := range m.AmountStages {
		if strings.EqualFold(s, name) {
			return models.KindAmount
		}
	}
	return models.KindGeneric
}

// StageRegistry загружает этапы один раз, сортирует по order, проставляет
// индексы и виды воркфлоу. До успешной загрузки — пустой: движок отклоняет
// любые переходы.
type StageRegistry struct {
	store   StageStore
	mapping KindMapping

	mu     sync.RWMutex
	stages []models.Stage
	byID   map[int]models.Stage
}

func NewStageRegistry(store StageStore, mapping KindMapping) *StageRegistry {
	return &StageRegistry{
		store:   store,
		mapping: mapping,
		byID:    map[int]models.Stage{},
	}
}

func (r *StageRegistry) Load() error {
	stages, err := r.store.List()
	if err != nil {
		// реестр остаётся пустым, клики по степперу невозможны
		return err
	}
	sort.SliceStable(stages, func(i, j int) bool { return stages[i].Order < stages[j].Order })

	byID := make(map[int]models.Stage, len(stages))
	for i := range stages {
		stages[i].Index = i
		stages[i].Kind = ClassifyWorkflowKind(stages[i].Name, r.mapping)
		byID[stages[i].ID] = stages[i]
	}

	r.mu.Lock()
	r.stages = stages
	r.byID = byID
	r.mu.Unlock()
	return nil
}

func (r *StageRegistry) Stages() []models.Stage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Stage, len(r.stages))
	copy(out, r.stages)
	return out
}

func (r *StageRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stages)
}

func (r *StageRegistry) ByID(id int) (models.Stage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	return s, ok
}

func (r *StageRegistry) ByIndex(i int) (models.Stage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i < 0 || i >= len(r.stages) {
		return models.Stage{}, false
	}
	return r.stages[i], true
}

// IndexOf — индекс этапа по id; -1, если этап не назначен или неизвестен.
func (r *StageRegistry) IndexOf(stageID int) int {
	if stageID == 0 {
		return -1
	}
	if s, ok := r.ByID(stageID); ok {
		return s.Index
	}
	return -1
}
