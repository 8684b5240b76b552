package triage

import (
	"math"
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// MinCategoryConfidence is the confidence below which a prediction falls
// back to GeneralCategory.
const MinCategoryConfidence = 0.40

const (
	strongWeight = 2.0
	normalWeight = 1.0

	// score at which confidence saturates at 1
	confidenceSaturation = 3.0
)

// Priority tiers and labels produced by urgency prediction.
const (
	TierHigh   = 5
	TierMedium = 3
	TierLow    = 1

	LabelHigh   = "High"
	LabelMedium = "Medium"
	LabelLow    = "Low"
)

// PriorityPrediction is the urgency tier and its display label.
type PriorityPrediction struct {
	Tier  int
	Label string
}

// CategoryPrediction is the predicted department and its confidence in [0,1].
type CategoryPrediction struct {
	Category   string
	Confidence float64
}

type categoryRow struct {
	name     string
	keywords map[string]struct{}
}

// Classifier is built once from keyword tables and is safe for concurrent use.
type Classifier struct {
	categories []categoryRow
	strong     map[string]struct{}

	urgency     *ahocorasick.Matcher
	urgencyTier []int
}

// NewClassifier compiles tables into an immutable classifier.
func NewClassifier(tables KeywordTables) *Classifier {
	tables = tables.Normalize()

	c := &Classifier{strong: toSet(tables.StrongIndicators)}
	for _, row := range tables.Categories {
		c.categories = append(c.categories, categoryRow{name: row.Name, keywords: toSet(row.Keywords)})
	}

	// one phrase per automaton entry, carrying the highest tier it belongs to
	tierByPhrase := make(map[string]int)
	var phrases []string
	add := func(list []string, tier int) {
		for _, p := range list {
			if existing, ok := tierByPhrase[p]; ok {
				if tier > existing {
					tierByPhrase[p] = tier
				}
				continue
			}
			tierByPhrase[p] = tier
			phrases = append(phrases, p)
		}
	}
	add(tables.HighUrgency, TierHigh)
	add(tables.MediumUrgency, TierMedium)

	c.urgencyTier = make([]int, len(phrases))
	for i, p := range phrases {
		c.urgencyTier[i] = tierByPhrase[p]
	}
	if len(phrases) > 0 {
		c.urgency = ahocorasick.NewStringMatcher(phrases)
	}
	return c
}

// NewDefaultClassifier uses DefaultKeywordTables.
func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultKeywordTables())
}

// PredictPriority scans "title description" for urgency phrases. Any high
// phrase gives tier 5, otherwise any medium phrase gives tier 3, otherwise 1.
func (c *Classifier) PredictPriority(title, description string) PriorityPrediction {
	tier := TierLow
	if c.urgency != nil {
		text := strings.ToLower(title + " " + description)
		for _, hit := range c.urgency.MatchThreadSafe([]byte(text)) {
			if c.urgencyTier[hit] > tier {
				tier = c.urgencyTier[hit]
			}
		}
	}

	switch tier {
	case TierHigh:
		return PriorityPrediction{Tier: TierHigh, Label: LabelHigh}
	case TierMedium:
		return PriorityPrediction{Tier: TierMedium, Label: LabelMedium}
	default:
		return PriorityPrediction{Tier: TierLow, Label: LabelLow}
	}
}

// PredictCategory scores every category by its keyword hits in the token set
// of "title description". Strong indicators count double.
func (c *Classifier) PredictCategory(title, description string) CategoryPrediction {
	tokens := toSet(Tokenize(title + " " + description))

	best := ""
	bestScore := 0.0
	for _, row := range c.categories {
		score := 0.0
		for tok := range tokens {
			if _, ok := row.keywords[tok]; !ok {
				continue
			}
			if _, strong := c.strong[tok]; strong {
				score += strongWeight
			} else {
				score += normalWeight
			}
		}
		if score > bestScore {
			best, bestScore = row.name, score
		}
	}

	if bestScore == 0 {
		return CategoryPrediction{Category: GeneralCategory, Confidence: 0}
	}

	confidence := Round2(math.Min(1, bestScore/confidenceSaturation))
	if confidence < MinCategoryConfidence {
		return CategoryPrediction{Category: GeneralCategory, Confidence: confidence}
	}
	return CategoryPrediction{Category: best, Confidence: confidence}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}
