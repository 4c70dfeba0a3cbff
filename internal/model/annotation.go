package model

import "time"

type AnnotationType string

const (
	AnnotationNote        AnnotationType = "note"
	AnnotationRisk        AnnotationType = "risk"
	AnnotationOpportunity AnnotationType = "opportunity"
	AnnotationQuestion    AnnotationType = "question"
)

func (t AnnotationType) IsValid() bool {
	switch t {
	case AnnotationNote, AnnotationRisk, AnnotationOpportunity, AnnotationQuestion:
		return true
	}
	return false
}

type AnnotationReply struct {
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Annotation is immutable once created except for reply appends.
type Annotation struct {
	ID        int64             `json:"id"`
	DealID    int64             `json:"deal_id"`
	UserID    int64             `json:"user_id"`
	Content   string            `json:"content"`
	Type      AnnotationType    `json:"type"`
	Section   *string           `json:"section,omitempty"` // analysis section the note targets
	CreatedAt time.Time         `json:"created_at"`
	Replies   []AnnotationReply `json:"replies"`
}
