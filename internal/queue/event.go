// Package queue defines message payloads exchanged over the message broker
// and the RabbitMQ plumbing that carries them.
package queue

import (
	"time"

	"github.com/iliyamo/seat-allocation/internal/model"
)

// AllocationsQueue is the durable queue allocation events are published to.
const AllocationsQueue = "seat.allocations"

const (
	EventAssigned = "allocation.assigned"
	EventReleased = "allocation.released"
)

// AllocationEvent is published after an assign or release commits.  It
// carries enough for downstream consumers to react without querying the
// primary database.
type AllocationEvent struct {
	Type         string `json:"type"`
	AllocationID string `json:"allocation_id"`
	SeatID       string `json:"seat_id"`
	StudentID    string `json:"student_id"`
	ShiftID      string `json:"shift_id"`
	BranchID     string `json:"branch_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date,omitempty"`
	OccurredAt   string `json:"occurred_at"`
}

// NewAllocationEvent builds the event for a committed allocation change.
func NewAllocationEvent(typ, branchID string, a *model.SeatAllocation, at time.Time) AllocationEvent {
	ev := AllocationEvent{
		Type:         typ,
		AllocationID: a.ID,
		SeatID:       a.SeatID,
		StudentID:    a.StudentID,
		ShiftID:      a.ShiftID,
		BranchID:     branchID,
		StartDate:    a.StartDate.UTC().Format(time.RFC3339Nano),
		OccurredAt:   at.UTC().Format(time.RFC3339Nano),
	}
	if a.EndDate != nil {
		ev.EndDate = a.EndDate.UTC().Format(time.RFC3339Nano)
	}
	return ev
}
