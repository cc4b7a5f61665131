package models

// WorkflowKind — какой специализированный шаг нужен перед ремаркой
// при переходе лида на этап.
type WorkflowKind string

const (
	KindDemoSession WorkflowKind = "demo_session"
	KindProposal    WorkflowKind = "proposal"
	KindAmount      WorkflowKind = "amount"
	KindGeneric     WorkflowKind = "generic"
)

// Stage — этап воронки продаж. Index и Kind проставляет реестр при загрузке
// (один раз за сессию), а не пересчитывает на каждый клик.
type Stage struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Order  int    `json:"order"`
	Active bool   `json:"active"`

	Index int          `json:"index"`
	Kind  WorkflowKind `json:"workflow_kind"`
}
