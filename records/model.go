// Package records holds the persistent work-item model (projects, tasks,
// people), its SQLite store and the name/e-mail entity resolver.
package records

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a task or project. The wire values are
// the Portuguese labels the spreadsheets and commands use.
type Status string

const (
	StatusNotStarted Status = "não iniciada"
	StatusInProgress Status = "em andamento"
	StatusDone       Status = "concluída"
	StatusFrozen     Status = "congelada"
)

// ParseStatus accepts a status label with or without accents.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "não iniciada", "nao iniciada":
		return StatusNotStarted, true
	case "em andamento":
		return StatusInProgress, true
	case "concluída", "concluida":
		return StatusDone, true
	case "congelada":
		return StatusFrozen, true
	}
	return "", false
}

// StatusForPercent derives the lifecycle state from a completion percentage.
func StatusForPercent(pct int) Status {
	switch {
	case pct == 0:
		return StatusNotStarted
	case pct >= 100:
		return StatusDone
	default:
		return StatusInProgress
	}
}

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "baixa"
	PriorityMedium Priority = "média"
	PriorityHigh   Priority = "alta"
)

// ParsePriority accepts a priority label; "media" without the accent is
// normalized to "média".
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "baixa":
		return PriorityLow, true
	case "média", "media":
		return PriorityMedium, true
	case "alta":
		return PriorityHigh, true
	}
	return "", false
}

// rank orders priorities for task listings, most urgent first.
func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Condition gates when a task applies.
type Condition string

const (
	CondAlways Condition = "SEMPRE"
	CondA      Condition = "A"
	CondB      Condition = "B"
	CondC      Condition = "C"
)

// ParseCondition accepts a condition label case-insensitively.
func ParseCondition(s string) (Condition, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SEMPRE":
		return CondAlways, true
	case "A":
		return CondA, true
	case "B":
		return CondB, true
	case "C":
		return CondC, true
	}
	return "", false
}

// Person is someone tasks can be assigned to.
type Person struct {
	ID        string `json:"id"`
	FirstName string `json:"nome"`
	LastName  string `json:"sobrenome"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"criado_em"`
}

// Project groups tasks under a shared deadline. Percent and Status are the
// rollup of the project's tasks.
type Project struct {
	ID        string     `json:"id"`
	Name      string     `json:"nome"`
	Deadline  *time.Time `json:"prazo,omitempty"`
	Percent   int        `json:"porcentagem"`
	Status    Status     `json:"status"`
	CreatedAt int64      `json:"criado_em"`
	UpdatedAt int64      `json:"atualizado_em"`
}

// Task is one unit of work inside a project.
type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projeto_id"`
	AssigneeID  string     `json:"responsavel_id"`
	Name        string     `json:"nome"`
	HowTo       string     `json:"como_fazer,omitempty"`
	Category    string     `json:"categoria,omitempty"`
	Phase       string     `json:"fase,omitempty"`
	RefDoc      string     `json:"documento_referencia,omitempty"`
	Priority    Priority   `json:"prioridade"`
	Condition   Condition  `json:"condicao"`
	Percent     int        `json:"porcentagem"`
	Status      Status     `json:"status"`
	StartDate   *time.Time `json:"data_inicio,omitempty"`
	EndDate     time.Time  `json:"data_fim"`
	CompletedAt *time.Time `json:"data_conclusao,omitempty"`
	CreatedAt   int64      `json:"criado_em"`
	UpdatedAt   int64      `json:"atualizado_em"`
}
