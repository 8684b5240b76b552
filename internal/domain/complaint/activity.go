package complaint

import (
	"fmt"
	"time"
)

// ActivityAction tags an audit entry.
type ActivityAction string

const (
	ActionCreated         ActivityAction = "Complaint Created"
	ActionTriaged         ActivityAction = "AI Triage Completed"
	ActionMerged          ActivityAction = "Complaint Merged"
	ActionDuplicateLinked ActivityAction = "Duplicate Linked"
	ActionUpdated         ActivityAction = "Complaint Updated"
	ActionAssigned        ActivityAction = "Complaint Assigned"
	ActionStatusUpdated   ActivityAction = "Status Updated"
	ActionUpvoted         ActivityAction = "Complaint Upvoted"
	ActionSLABreached     ActivityAction = "SLA Breached"
)

// Activity is an append-only audit entry on a complaint.
type Activity struct {
	id            uint
	complaintID   uint
	action        ActivityAction
	previousValue string
	newValue      string
	details       string
	actor         string
	createdAt     time.Time
}

func newActivity(action ActivityAction, previous, next, details, actor string, at time.Time) *Activity {
	return &Activity{
		action:        action,
		previousValue: previous,
		newValue:      next,
		details:       details,
		actor:         actor,
		createdAt:     at,
	}
}

func ReconstructActivity(
	id uint,
	complaintID uint,
	action ActivityAction,
	previousValue string,
	newValue string,
	details string,
	actor string,
	createdAt time.Time,
) (*Activity, error) {
	if id == 0 {
		return nil, fmt.Errorf("activity ID cannot be zero")
	}
	if complaintID == 0 {
		return nil, fmt.Errorf("complaint ID cannot be zero")
	}
	if action == "" {
		return nil, fmt.Errorf("activity action is required")
	}

	return &Activity{
		id:            id,
		complaintID:   complaintID,
		action:        action,
		previousValue: previousValue,
		newValue:      newValue,
		details:       details,
		actor:         actor,
		createdAt:     createdAt,
	}, nil
}

func (a *Activity) ID() uint               { return a.id }
func (a *Activity) ComplaintID() uint      { return a.complaintID }
func (a *Activity) Action() ActivityAction { return a.action }
func (a *Activity) PreviousValue() string  { return a.previousValue }
func (a *Activity) NewValue() string       { return a.newValue }
func (a *Activity) Details() string        { return a.details }
func (a *Activity) Actor() string          { return a.actor }
func (a *Activity) CreatedAt() time.Time   { return a.createdAt }

func (a *Activity) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("activity ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("activity ID cannot be zero")
	}
	a.id = id
	return nil
}
