package model

import "time"

type DiligenceCategory string

const (
	DiligenceLegal     DiligenceCategory = "legal"
	DiligenceFinancial DiligenceCategory = "financial"
	DiligenceTechnical DiligenceCategory = "technical"
	DiligenceMarket    DiligenceCategory = "market"
	DiligenceTeam      DiligenceCategory = "team"
)

type DiligenceStatus string

const (
	DiligencePending    DiligenceStatus = "pending"
	DiligenceInProgress DiligenceStatus = "in_progress"
	DiligenceCompleted  DiligenceStatus = "completed"
	DiligenceFlagged    DiligenceStatus = "flagged"
)

func (s DiligenceStatus) IsValid() bool {
	switch s {
	case DiligencePending, DiligenceInProgress, DiligenceCompleted, DiligenceFlagged:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type DiligenceNote struct {
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// DueDiligenceItem is one entry in a deal's DD checklist.
type DueDiligenceItem struct {
	ID          int64             `json:"id"`
	DealID      int64             `json:"deal_id"`
	Category    DiligenceCategory `json:"category"`
	Title       string            `json:"title"`
	Description *string           `json:"description,omitempty"`
	AssigneeID  *int64            `json:"assigned_to,omitempty"`
	Status      DiligenceStatus   `json:"status"`
	Priority    Priority          `json:"priority"`
	DueDate     *time.Time        `json:"due_date,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Notes       []DiligenceNote   `json:"notes"`
	Attachments []Attachment      `json:"attachments"`
}
