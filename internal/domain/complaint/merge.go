package complaint

import (
	"errors"
	"fmt"
	"strconv"

	vo "github.com/civicpulse/civicpulse/internal/domain/complaint/valueobjects"
	"github.com/civicpulse/civicpulse/internal/domain/triage"
)

var (
	ErrSelfMerge           = errors.New("cannot merge same complaint")
	ErrSourceAlreadyMerged = errors.New("source complaint already merged")
	ErrTargetAlreadyMerged = errors.New("target complaint already merged")
	ErrWardMismatch        = errors.New("complaints must be in same ward to merge")
)

// Merge folds source into target. The source becomes a resolved, merged
// leaf pointing at target; the target gains a report. similarity is recorded
// on the source when the merge was detected automatically.
func Merge(source, target *Complaint, similarity *float64, actor string) error {
	if source == nil || target == nil {
		return fmt.Errorf("merge requires both complaints")
	}
	if source == target || (source.id != 0 && source.id == target.id) {
		return ErrSelfMerge
	}
	if source.isMerged {
		return ErrSourceAlreadyMerged
	}
	if target.isMerged {
		return ErrTargetAlreadyMerged
	}

	source.markMergedInto(target, similarity, actor)
	target.absorbDuplicate(source, actor)
	return nil
}

// ManualMerge is Merge with the additional same-ward rule applied to
// administrator requests.
func ManualMerge(source, target *Complaint, actor string) error {
	if source != nil && target != nil && source != target && source.ward != target.ward {
		return ErrWardMismatch
	}
	return Merge(source, target, nil, actor)
}

// CanonicalPair orders a newly filed complaint and a matching candidate into
// (source, target). The earlier complaint survives; on equal timestamps the
// existing candidate does.
func CanonicalPair(filed, candidate *Complaint) (source, target *Complaint) {
	if !candidate.createdAt.After(filed.createdAt) {
		return filed, candidate
	}
	return candidate, filed
}

// FindDuplicate returns the first candidate whose text similarity with c
// reaches threshold, together with the score. Candidates in another ward,
// already merged, or c itself are skipped. The scan stops at the first hit.
func FindDuplicate(c *Complaint, candidates []*Complaint, threshold float64) (*Complaint, float64) {
	text := triage.Vectorize(c.Text())
	for _, candidate := range candidates {
		if candidate == nil || candidate == c || candidate.id == c.id {
			continue
		}
		if candidate.isMerged || candidate.ward != c.ward {
			continue
		}
		score := triage.CosineSimilarity(text, triage.Vectorize(candidate.Text()))
		if score >= threshold {
			return candidate, score
		}
	}
	return nil, 0
}

func (c *Complaint) markMergedInto(target *Complaint, similarity *float64, actor string) {
	previous := c.status
	now := c.touch()

	targetID := target.id
	c.isMerged = true
	c.mergedIntoID = &targetID
	c.status = vo.StatusResolved
	c.resolvedAt = &now
	if similarity != nil {
		score := triage.Round2(*similarity)
		c.scores.AISimilarityScore = &score
	}

	c.recordActivity(ActionMerged, previous.String(), "Merged",
		"Merged into complaint #"+strconv.FormatUint(uint64(targetID), 10), actor)
}

func (c *Complaint) absorbDuplicate(source *Complaint, actor string) {
	previous := c.scores.ReportsCount
	c.scores.ReportsCount++
	c.recomputeImpact()
	c.touch()

	c.recordActivity(ActionDuplicateLinked, strconv.Itoa(previous), strconv.Itoa(c.scores.ReportsCount),
		"Complaint #"+strconv.FormatUint(uint64(source.id), 10)+" merged as duplicate", actor)
}
