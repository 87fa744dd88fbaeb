package models

import (
	"time"
)

// ParticipantPatch describes a partial update to a ledger row. Nil fields are
// left untouched. TouchStatus and TouchConnected stamp the corresponding
// timestamp as part of applying the patch, so a status change and its
// timestamp can never drift apart.
type ParticipantPatch struct {
	Status                  *Status
	Connected               *bool
	Message                 *string
	RoomID                  *int
	PartnerID               *string
	ScenarioID              *string
	AgentIndex              *int
	SelectedIndex           *int
	SingleTaskID            *string
	NumSingleTasksCompleted *int
	CumulativePoints        *int
	CompletionCode          *string

	// TouchStatus sets StatusTimestamp to the patch time
	TouchStatus bool

	// TouchConnected sets ConnectedTimestamp to the patch time
	TouchConnected bool
}

// Apply writes the patch onto p, stamping timestamps with now where touched.
func (patch *ParticipantPatch) Apply(p *Participant, now time.Time) {
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Connected != nil {
		p.Connected = *patch.Connected
	}
	if patch.Message != nil {
		p.Message = *patch.Message
	}
	if patch.RoomID != nil {
		p.RoomID = *patch.RoomID
	}
	if patch.PartnerID != nil {
		p.PartnerID = *patch.PartnerID
	}
	if patch.ScenarioID != nil {
		p.ScenarioID = *patch.ScenarioID
	}
	if patch.AgentIndex != nil {
		p.AgentIndex = *patch.AgentIndex
	}
	if patch.SelectedIndex != nil {
		p.SelectedIndex = *patch.SelectedIndex
	}
	if patch.SingleTaskID != nil {
		p.SingleTaskID = *patch.SingleTaskID
	}
	if patch.NumSingleTasksCompleted != nil {
		p.NumSingleTasksCompleted = *patch.NumSingleTasksCompleted
	}
	if patch.CumulativePoints != nil {
		p.CumulativePoints = *patch.CumulativePoints
	}
	if patch.CompletionCode != nil {
		p.CompletionCode = *patch.CompletionCode
	}
	if patch.TouchStatus {
		p.StatusTimestamp = now
	}
	if patch.TouchConnected {
		p.ConnectedTimestamp = now
	}
}

// Helpers for building patches without intermediate variables.

func StatusPtr(s Status) *Status { return &s }

func BoolPtr(b bool) *bool { return &b }

func StringPtr(s string) *string { return &s }

func IntPtr(i int) *int { return &i }
