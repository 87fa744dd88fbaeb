package models

import (
	"time"
)

// Status represents the current state of a participant's session
type Status string

const (
	// StatusWaiting indicates a participant is waiting to be paired
	StatusWaiting Status = "waiting"

	// StatusSingleTask indicates a participant is working on a solo filler task
	StatusSingleTask Status = "single_task"

	// StatusChat indicates a participant is in a live paired chat
	StatusChat Status = "chat"

	// StatusFinished indicates a participant has completed their session
	StatusFinished Status = "finished"
)

const (
	// NoRoom is the RoomID sentinel for participants outside a pairing
	NoRoom = -1

	// NoSelection is the SelectedIndex sentinel before a restaurant is picked
	NoSelection = -1
)

// Participant is one ledger row representing a single human session.
// The row is created once on first contact and carries everything needed
// to resume or re-derive the participant's state.
type Participant struct {
	// ID is the opaque unique identifier for the participant
	ID string

	// Status is the current state of the session
	Status Status

	// StatusTimestamp is when the current status was entered
	StatusTimestamp time.Time

	// Connected reports whether the client is currently considered live
	Connected bool

	// ConnectedTimestamp is when Connected was last changed
	ConnectedTimestamp time.Time

	// Message is the human-readable status message surfaced to the client
	Message string

	// RoomID identifies the current chat pairing, or NoRoom
	RoomID int

	// PartnerID is the other participant's ID while paired
	PartnerID string

	// ScenarioID is the scenario assigned for the current chat
	ScenarioID string

	// AgentIndex is this participant's role (0 or 1) within the scenario
	AgentIndex int

	// SelectedIndex is the restaurant tentatively picked during chat, or NoSelection
	SelectedIndex int

	// SingleTaskID is the scenario assigned for the current solo task
	SingleTaskID string

	// NumSingleTasksCompleted counts submitted solo tasks
	NumSingleTasksCompleted int

	// CumulativePoints is the running total of negotiation reward
	CumulativePoints int

	// CompletionCode is handed out once on the finished screen
	CompletionCode string
}
