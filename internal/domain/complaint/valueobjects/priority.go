package valueobjects

import "fmt"

// Priority is the urgency tier, 0 (unset) through 5.
type Priority int

const (
	PriorityUnset  Priority = 0
	PriorityLow    Priority = 1
	PriorityMedium Priority = 3
	PriorityHigh   Priority = 5

	MaxPriority = PriorityHigh
)

func NewPriority(p int) (Priority, error) {
	priority := Priority(p)
	if !priority.IsValid() {
		return 0, fmt.Errorf("invalid priority: %d", p)
	}
	return priority, nil
}

func (p Priority) IsValid() bool {
	return p >= PriorityUnset && p <= MaxPriority
}

func (p Priority) Int() int {
	return int(p)
}

func (p Priority) IsMax() bool {
	return p >= MaxPriority
}

// Max returns the higher of p and other.
func (p Priority) Max(other Priority) Priority {
	if other > p {
		return other
	}
	return p
}

// PriorityLabel is the display tag attached to a priority tier. It is set
// only by the triage and escalation paths.
type PriorityLabel string

const (
	LabelPendingEvaluation PriorityLabel = "Pending Evaluation"
	LabelLow               PriorityLabel = "Low"
	LabelMedium            PriorityLabel = "Medium"
	LabelHigh              PriorityLabel = "High"
	LabelEscalated         PriorityLabel = "Escalated"
)

var validPriorityLabels = map[PriorityLabel]bool{
	LabelPendingEvaluation: true,
	LabelLow:               true,
	LabelMedium:            true,
	LabelHigh:              true,
	LabelEscalated:         true,
}

func NewPriorityLabel(s string) (PriorityLabel, error) {
	label := PriorityLabel(s)
	if !label.IsValid() {
		return "", fmt.Errorf("invalid priority label: %s", s)
	}
	return label, nil
}

func (l PriorityLabel) String() string {
	return string(l)
}

func (l PriorityLabel) IsValid() bool {
	return validPriorityLabels[l]
}
