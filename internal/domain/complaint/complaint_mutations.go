package complaint

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	vo "github.com/civicpulse/civicpulse/internal/domain/complaint/valueobjects"
	"github.com/civicpulse/civicpulse/internal/domain/triage"
	"github.com/civicpulse/civicpulse/internal/shared/constants"
)

// ErrComplaintMerged is returned by mutations that a merged complaint no
// longer accepts.
var ErrComplaintMerged = errors.New("complaint has been merged")

const minAssigneeLength = 2

// TriageResult is the classifier's verdict for one complaint.
type TriageResult struct {
	PredictedPriority vo.Priority
	PredictedLabel    vo.PriorityLabel
	Category          vo.Category
	Confidence        float64
	// Recategorized is set when the submitted category was General and the
	// classifier chose the category above.
	Recategorized bool
}

// ApplyTriage stores the classifier's verdict. A priority chosen at
// submission is kept; the predicted label is applied either way. The
// expected resolution date is re-derived from the final priority, counted
// from creation. Merged complaints are left untouched and false is returned.
func (c *Complaint) ApplyTriage(result TriageResult) bool {
	if c.isMerged {
		return false
	}

	c.touch()
	previousCategory := c.category
	previousLabel := c.priorityLabel

	if c.priority == vo.PriorityUnset {
		c.priority = result.PredictedPriority
	}
	c.priorityLabel = result.PredictedLabel

	if result.Recategorized {
		c.category = result.Category
		confidence := result.Confidence
		c.scores.AIConfidenceScore = &confidence
	}

	c.sla.ExpectedResolutionDate = triage.ExpectedResolution(c.createdAt, c.priority.Int())
	c.recomputeImpact()

	c.recordActivity(ActionTriaged,
		fmt.Sprintf("%s / %s", previousCategory, previousLabel),
		fmt.Sprintf("%s / %s", c.category, c.priorityLabel),
		fmt.Sprintf("Triage set priority %d, resolution expected in %d days", c.priority, triage.ResolutionDays(c.priority.Int())),
		constants.SystemActor)

	return true
}

// ComplaintEdit carries the fields an administrator may change. Nil fields
// are left as they are.
type ComplaintEdit struct {
	Title       *string
	Description *string
	Category    *string
	Ward        *string
	Note        string
	Actor       string
}

// Edit applies an admin edit and reports whether a description was
// supplied, in which case the caller is expected to follow up with
// RaisePriority. Resubmitting the same description still counts.
func (c *Complaint) Edit(edit ComplaintEdit) (bool, error) {
	var changed []string

	title, description, ward, category := c.title, c.description, c.ward, c.category

	if edit.Title != nil {
		t := strings.TrimSpace(*edit.Title)
		if err := validateTitle(t); err != nil {
			return false, err
		}
		if t != title {
			title = t
			changed = append(changed, "title")
		}
	}
	if edit.Description != nil {
		d := strings.TrimSpace(*edit.Description)
		if err := validateDescription(d); err != nil {
			return false, err
		}
		if d != description {
			description = d
			changed = append(changed, "description")
		}
	}
	if edit.Category != nil {
		cat, err := vo.NewCategory(*edit.Category)
		if err != nil {
			return false, err
		}
		if cat != category {
			category = cat
			changed = append(changed, "category")
		}
	}
	if edit.Ward != nil {
		w := strings.TrimSpace(*edit.Ward)
		if err := validateWard(w); err != nil {
			return false, err
		}
		if w != ward {
			ward = w
			changed = append(changed, "ward")
		}
	}

	c.title, c.description, c.ward, c.category = title, description, ward, category
	c.touch()

	details := strings.TrimSpace(edit.Note)
	if details == "" {
		details = "Complaint fields updated by admin"
	}
	c.recordActivity(ActionUpdated, "", strings.Join(changed, ", "), details, edit.Actor)

	return edit.Description != nil, nil
}

// RaisePriority applies a fresh urgency prediction after an edit. Priority
// only moves up; the label follows the prediction.
func (c *Complaint) RaisePriority(predicted vo.Priority, label vo.PriorityLabel) {
	c.priority = c.priority.Max(predicted)
	c.priorityLabel = label
	c.recomputeImpact()
	c.touch()
}

// Assign hands the complaint to a field officer. A pending complaint moves
// to In Progress.
func (c *Complaint) Assign(assignee, department, actor string) error {
	assignee = strings.TrimSpace(assignee)
	department = strings.TrimSpace(department)
	if utf8.RuneCountInString(assignee) < minAssigneeLength {
		return fmt.Errorf("assignee must be at least %d characters", minAssigneeLength)
	}

	previous := c.assignment.AssignedTo
	if previous == "" {
		previous = "Unassigned"
	}

	c.assignment = Assignment{AssignedTo: assignee, Department: department}
	if c.status.IsPending() {
		c.status = vo.StatusInProgress
	}
	c.touch()

	details := "Assigned to " + assignee
	if department != "" {
		details += " in " + department
	}
	c.recordActivity(ActionAssigned, previous, assignee, details, actor)
	return nil
}

// ChangeStatus moves the complaint between Pending, In Progress and
// Resolved. resolvedAt tracks the Resolved state.
func (c *Complaint) ChangeStatus(status vo.Status, note, actor string) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid status: %s", status)
	}
	if c.isMerged {
		return ErrComplaintMerged
	}

	previous := c.status
	now := c.touch()
	c.status = status
	if status.IsResolved() {
		c.resolvedAt = &now
	} else {
		c.resolvedAt = nil
	}

	details := strings.TrimSpace(note)
	if details == "" {
		details = "Status changed to " + status.String()
	}
	c.recordActivity(ActionStatusUpdated, previous.String(), status.String(), details, actor)
	return nil
}

// Upvote counts one community upvote. On top of the upvote count the stored
// impact score gets a flat triage.UpvoteImpactBump, capped at the maximum.
func (c *Complaint) Upvote(actor string) {
	previous := c.scores.Upvotes
	c.scores.Upvotes++
	score := c.scores.ImpactScore + triage.UpvoteImpactBump
	if score > triage.MaxImpactScore {
		score = triage.MaxImpactScore
	}
	c.scores.ImpactScore = triage.Round2(score)
	c.touch()

	c.recordActivity(ActionUpvoted, strconv.Itoa(previous), strconv.Itoa(c.scores.Upvotes),
		"Community member upvoted this issue", actor)
}

// IsSLAOverdue reports whether the complaint is open, unmerged, past its
// expected resolution date and not yet escalated.
func (c *Complaint) IsSLAOverdue(now time.Time) bool {
	return !c.status.IsResolved() &&
		!c.isMerged &&
		!c.sla.Breached &&
		c.sla.ExpectedResolutionDate.Before(now)
}

// EscalateSLA marks an overdue complaint as breached and bumps its priority
// by one tier unless it is already at the top. Complaints that are not
// overdue are ignored and false is returned.
func (c *Complaint) EscalateSLA(now time.Time) bool {
	if !c.IsSLAOverdue(now) {
		return false
	}

	c.sla.Breached = true
	c.sla.EscalationLevel = 1
	if !c.priority.IsMax() {
		c.priority++
		c.priorityLabel = vo.LabelEscalated
		c.recomputeImpact()
	}
	c.touch()

	c.recordActivity(ActionSLABreached, "Valid", "Breached",
		"System automatically escalated priority due to SLA breach.", constants.SystemActor)
	return true
}
