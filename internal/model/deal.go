package model

import (
	"encoding/json"
	"time"
)

type DealStatus string

const (
	DealStatusSourced       DealStatus = "sourced"
	DealStatusScreening     DealStatus = "screening"
	DealStatusDueDiligence  DealStatus = "due_diligence"
	DealStatusPartnerReview DealStatus = "partner_review"
	DealStatusICReview      DealStatus = "ic_review"
	DealStatusNegotiation   DealStatus = "negotiation"
	DealStatusClosedWon     DealStatus = "closed_won"
	DealStatusClosedLost    DealStatus = "closed_lost"
	DealStatusMonitoring    DealStatus = "monitoring"
)

// dealTransitions is the pipeline state machine. A status may only advance
// to one of its listed successors; anything else is an invalid transition.
var dealTransitions = map[DealStatus][]DealStatus{
	DealStatusSourced:       {DealStatusScreening},
	DealStatusScreening:     {DealStatusDueDiligence},
	DealStatusDueDiligence:  {DealStatusPartnerReview},
	DealStatusPartnerReview: {DealStatusICReview},
	DealStatusICReview:      {DealStatusNegotiation, DealStatusClosedLost},
	DealStatusNegotiation:   {DealStatusClosedWon, DealStatusClosedLost},
	DealStatusClosedWon:     {DealStatusMonitoring},
	DealStatusClosedLost:    {},
	DealStatusMonitoring:    {},
}

func (s DealStatus) IsValid() bool {
	_, ok := dealTransitions[s]
	return ok
}

func (s DealStatus) CanTransitionTo(next DealStatus) bool {
	for _, allowed := range dealTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ICComment is an investment committee comment recorded alongside a vote.
type ICComment struct {
	UserID    int64     `json:"user_id"`
	Comment   string    `json:"comment"`
	Vote      VoteType  `json:"vote"`
	Timestamp time.Time `json:"timestamp"`
}

// ICDecision records the finalized committee outcome. Its presence on a deal
// is the idempotency guard: a deal with a decision is never finalized again.
type ICDecision struct {
	Decision       string         `json:"decision"` // "approved" or "rejected"
	Recommendation Recommendation `json:"recommendation"`
	FinalizedAt    time.Time      `json:"finalized_at"`
}

// ActivityEntry is one append-only audit record on a deal. UserID is zero
// for entries written by the system itself (e.g. IC finalization).
type ActivityEntry struct {
	UserID    int64     `json:"user_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

type Deal struct {
	ID               int64              `json:"id"`
	WorkspaceID      int64              `json:"workspace_id"` // write-once
	CompanyName      string             `json:"company_name"`
	CompanyData      json.RawMessage    `json:"company_data,omitempty"` // opaque enrichment snapshot
	Status           DealStatus         `json:"status"`
	Stage            string             `json:"stage"` // Seed, Series A, ...
	InvestmentAmount *float64           `json:"investment_amount,omitempty"`
	Valuation        *float64           `json:"valuation,omitempty"`
	OwnershipTarget  *float64           `json:"ownership_target,omitempty"`
	LeadPartnerID    int64              `json:"lead_partner_id"`
	TeamMemberIDs    []int64            `json:"team_members"`
	AnnotationIDs    []int64            `json:"annotations"` // ordered, append-only
	DiligenceItemIDs []int64            `json:"due_diligence_items"`
	ICVotes          map[int64]VoteType `json:"ic_votes,omitempty"` // one entry per voter, last vote wins
	ICComments       []ICComment        `json:"ic_comments,omitempty"`
	ICDecision       *ICDecision        `json:"ic_decision,omitempty"`
	ActivityLog      []ActivityEntry    `json:"activity_log"`
	Tags             []string           `json:"tags,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

func (d *Deal) IsTeamMember(userID int64) bool {
	for _, id := range d.TeamMemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (d *Deal) Finalized() bool {
	return d.ICDecision != nil
}

// LogActivity appends one audit entry. Every mutation on a deal goes through
// here exactly once.
func (d *Deal) LogActivity(userID int64, action, details string) {
	d.ActivityLog = append(d.ActivityLog, ActivityEntry{
		UserID:    userID,
		Action:    action,
		Details:   details,
		Timestamp: time.Now().UTC(),
	})
}
