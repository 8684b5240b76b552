package complaint

import (
	vo "github.com/civicpulse/civicpulse/internal/domain/complaint/valueobjects"
	"github.com/civicpulse/civicpulse/internal/domain/triage"
)

// Triager runs the keyword classifier against complaints.
type Triager struct {
	classifier *triage.Classifier
}

func NewTriager(classifier *triage.Classifier) *Triager {
	if classifier == nil {
		classifier = triage.NewDefaultClassifier()
	}
	return &Triager{classifier: classifier}
}

// Evaluate predicts priority for c and, for General complaints, a category.
func (t *Triager) Evaluate(c *Complaint) TriageResult {
	priority, label := t.PredictPriority(c.Title(), c.Description())
	result := TriageResult{
		PredictedPriority: priority,
		PredictedLabel:    label,
		Category:          c.Category(),
	}

	if c.Category().IsGeneral() {
		prediction := t.classifier.PredictCategory(c.Title(), c.Description())
		result.Category = vo.Category(prediction.Category)
		result.Confidence = prediction.Confidence
		result.Recategorized = true
	}
	return result
}

func (t *Triager) PredictPriority(title, description string) (vo.Priority, vo.PriorityLabel) {
	p := t.classifier.PredictPriority(title, description)
	return vo.Priority(p.Tier), vo.PriorityLabel(p.Label)
}
