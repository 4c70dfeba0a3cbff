package model

import "time"

// Workspace is a firm-scoped team space. Deals, live connections, and IC
// voting are all scoped to exactly one workspace.
type Workspace struct {
	ID          int64          `json:"id"`
	FirmID      int64          `json:"firm_id"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Members     []int64        `json:"members"` // user IDs
	Settings    map[string]any `json:"settings,omitempty"`
	CreatedBy   int64          `json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (w *Workspace) HasMember(userID int64) bool {
	for _, id := range w.Members {
		if id == userID {
			return true
		}
	}
	return false
}
