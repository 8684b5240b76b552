// Package complaint is the complaint aggregate: its lifecycle, the audit
// trail every mutation leaves behind, and the duplicate merge rules.
package complaint

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	vo "github.com/civicpulse/civicpulse/internal/domain/complaint/valueobjects"
	"github.com/civicpulse/civicpulse/internal/domain/triage"
	"github.com/civicpulse/civicpulse/internal/shared/biztime"
)

const (
	minTitleLength       = 3
	maxTitleLength       = 200
	minDescriptionLength = 10
	maxDescriptionLength = 5000
	minWardLength        = 2
	maxWardLength        = 100
)

// Location is an optional map pin supplied by the citizen.
type Location struct {
	Latitude  float64
	Longitude float64
}

// Assignment records who is working on the complaint.
type Assignment struct {
	AssignedTo string
	Department string
}

// Scores groups the counters and model outputs that feed the impact score.
type Scores struct {
	ReportsCount      int
	Upvotes           int
	ImpactScore       float64
	AIConfidenceScore *float64
	AISimilarityScore *float64
}

// SLAState is the escalation bookkeeping of a complaint.
type SLAState struct {
	ExpectedResolutionDate time.Time
	Breached               bool
	EscalationLevel        int
}

type Complaint struct {
	id            uint
	title         string
	description   string
	ward          string
	category      vo.Category
	priority      vo.Priority
	priorityLabel vo.PriorityLabel
	status        vo.Status
	citizenID     uint
	location      *Location
	assignment    Assignment
	scores        Scores
	isMerged      bool
	mergedIntoID  *uint
	sla           SLAState
	createdAt     time.Time
	updatedAt     time.Time
	resolvedAt    *time.Time
	version       int

	activities []*Activity
}

// NewComplaint registers a citizen submission. The complaint starts Pending
// with a single report, a "Pending Evaluation" label and the default
// resolution window until triage runs.
func NewComplaint(
	title string,
	description string,
	ward string,
	category vo.Category,
	priority vo.Priority,
	citizenID uint,
	actor string,
) (*Complaint, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	ward = strings.TrimSpace(ward)

	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if err := validateWard(ward); err != nil {
		return nil, err
	}
	if category == "" {
		category = vo.CategoryGeneral
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority: %d", priority)
	}
	if citizenID == 0 {
		return nil, fmt.Errorf("citizen ID is required")
	}

	now := biztime.NowUTC()
	c := &Complaint{
		title:         title,
		description:   description,
		ward:          ward,
		category:      category,
		priority:      priority,
		priorityLabel: vo.LabelPendingEvaluation,
		status:        vo.StatusPending,
		citizenID:     citizenID,
		scores: Scores{
			ReportsCount: 1,
			ImpactScore:  triage.ImpactScore(1, priority.Int(), 0),
		},
		sla: SLAState{
			ExpectedResolutionDate: now.Add(triage.DefaultResolutionWindow()),
		},
		createdAt: now,
		updatedAt: now,
		version:   1,
	}

	c.recordActivity(ActionCreated, "", vo.StatusPending.String(),
		"Citizen complaint registered in command center", actor)

	return c, nil
}

// ReconstructComplaint rebuilds a complaint from persistence. version is the
// stored row version the next update is checked against.
func ReconstructComplaint(
	id uint,
	title string,
	description string,
	ward string,
	category vo.Category,
	priority vo.Priority,
	priorityLabel vo.PriorityLabel,
	status vo.Status,
	citizenID uint,
	location *Location,
	assignment Assignment,
	scores Scores,
	isMerged bool,
	mergedIntoID *uint,
	sla SLAState,
	createdAt, updatedAt time.Time,
	resolvedAt *time.Time,
	version int,
) (*Complaint, error) {
	if id == 0 {
		return nil, fmt.Errorf("complaint ID cannot be zero")
	}
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority: %d", priority)
	}
	if !priorityLabel.IsValid() {
		return nil, fmt.Errorf("invalid priority label: %s", priorityLabel)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	if isMerged && mergedIntoID == nil {
		return nil, fmt.Errorf("merged complaint %d has no merge target", id)
	}
	if version < 1 {
		return nil, fmt.Errorf("invalid version: %d", version)
	}
	if category == "" {
		category = vo.CategoryGeneral
	}

	return &Complaint{
		id:            id,
		title:         title,
		description:   description,
		ward:          ward,
		category:      category,
		priority:      priority,
		priorityLabel: priorityLabel,
		status:        status,
		citizenID:     citizenID,
		location:      location,
		assignment:    assignment,
		scores:        scores,
		isMerged:      isMerged,
		mergedIntoID:  mergedIntoID,
		sla:           sla,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		resolvedAt:    resolvedAt,
		version:       version,
	}, nil
}

func (c *Complaint) ID() uint {
	return c.id
}

func (c *Complaint) Title() string {
	return c.title
}

func (c *Complaint) Description() string {
	return c.description
}

// Text is the title and description joined the way triage reads them.
func (c *Complaint) Text() string {
	return c.title + " " + c.description
}

func (c *Complaint) Ward() string {
	return c.ward
}

func (c *Complaint) Category() vo.Category {
	return c.category
}

func (c *Complaint) Priority() vo.Priority {
	return c.priority
}

func (c *Complaint) PriorityLabel() vo.PriorityLabel {
	return c.priorityLabel
}

func (c *Complaint) Status() vo.Status {
	return c.status
}

func (c *Complaint) CitizenID() uint {
	return c.citizenID
}

func (c *Complaint) Location() *Location {
	if c.location == nil {
		return nil
	}
	loc := *c.location
	return &loc
}

func (c *Complaint) Assignment() Assignment {
	return c.assignment
}

func (c *Complaint) ReportsCount() int {
	return c.scores.ReportsCount
}

func (c *Complaint) Upvotes() int {
	return c.scores.Upvotes
}

func (c *Complaint) ImpactScore() float64 {
	return c.scores.ImpactScore
}

func (c *Complaint) AIConfidenceScore() *float64 {
	return c.scores.AIConfidenceScore
}

func (c *Complaint) AISimilarityScore() *float64 {
	return c.scores.AISimilarityScore
}

func (c *Complaint) IsMerged() bool {
	return c.isMerged
}

func (c *Complaint) MergedIntoID() *uint {
	return c.mergedIntoID
}

func (c *Complaint) ExpectedResolutionDate() time.Time {
	return c.sla.ExpectedResolutionDate
}

func (c *Complaint) IsSLABreached() bool {
	return c.sla.Breached
}

func (c *Complaint) EscalationLevel() int {
	return c.sla.EscalationLevel
}

func (c *Complaint) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Complaint) UpdatedAt() time.Time {
	return c.updatedAt
}

func (c *Complaint) ResolvedAt() *time.Time {
	return c.resolvedAt
}

// Version is the row version this copy was loaded at.
func (c *Complaint) Version() int {
	return c.version
}

// IncrementVersion is called by the repository once an update has landed.
func (c *Complaint) IncrementVersion() {
	c.version++
}

// IsOwnedBy reports whether citizenID filed the complaint.
func (c *Complaint) IsOwnedBy(citizenID uint) bool {
	return c.citizenID != 0 && c.citizenID == citizenID
}

func (c *Complaint) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("complaint ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("complaint ID cannot be zero")
	}
	c.id = id
	return nil
}

func (c *Complaint) SetLocation(latitude, longitude float64) error {
	if latitude < -90 || latitude > 90 {
		return fmt.Errorf("latitude out of range: %f", latitude)
	}
	if longitude < -180 || longitude > 180 {
		return fmt.Errorf("longitude out of range: %f", longitude)
	}
	c.location = &Location{Latitude: latitude, Longitude: longitude}
	return nil
}

// PendingActivities returns the audit entries recorded since the last call,
// stamped with the complaint ID, and clears them.
func (c *Complaint) PendingActivities() []*Activity {
	pending := c.activities
	c.activities = nil
	for _, a := range pending {
		a.complaintID = c.id
	}
	return pending
}

func (c *Complaint) recordActivity(action ActivityAction, previous, next, details, actor string) {
	c.activities = append(c.activities, newActivity(action, previous, next, details, actor, c.updatedAt))
}

func (c *Complaint) recomputeImpact() {
	c.scores.ImpactScore = triage.ImpactScore(c.scores.ReportsCount, c.priority.Int(), c.scores.Upvotes)
}

func (c *Complaint) touch() time.Time {
	now := biztime.NowUTC()
	c.updatedAt = now
	return now
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < minTitleLength || n > maxTitleLength {
		return fmt.Errorf("title must be between %d and %d characters", minTitleLength, maxTitleLength)
	}
	return nil
}

func validateDescription(description string) error {
	n := utf8.RuneCountInString(description)
	if n < minDescriptionLength || n > maxDescriptionLength {
		return fmt.Errorf("description must be between %d and %d characters", minDescriptionLength, maxDescriptionLength)
	}
	return nil
}

func validateWard(ward string) error {
	n := utf8.RuneCountInString(ward)
	if n < minWardLength || n > maxWardLength {
		return fmt.Errorf("ward must be between %d and %d characters", minWardLength, maxWardLength)
	}
	return nil
}
