package complaint

import (
	"strconv"
	"time"

	"github.com/civicpulse/civicpulse/internal/domain/shared/events"
)

const EventTypeComplaintCreated = "complaint.created"

// ComplaintCreatedEvent triggers background duplicate detection and triage.
type ComplaintCreatedEvent struct {
	events.BaseEvent
	ComplaintID uint
	Ward        string
}

func NewComplaintCreatedEvent(complaintID uint, ward string, occurredAt time.Time) ComplaintCreatedEvent {
	return ComplaintCreatedEvent{
		BaseEvent:   events.NewBaseEvent(strconv.FormatUint(uint64(complaintID), 10), EventTypeComplaintCreated, occurredAt),
		ComplaintID: complaintID,
		Ward:        ward,
	}
}
