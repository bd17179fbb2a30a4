// Package scoring aggregates committee ratings against the weighted rubric.
package scoring

import (
	"fmt"
	"math"

	"github.com/fadilmartias/grant-portal/internal/apperror"
	"github.com/fadilmartias/grant-portal/internal/model"
)

const (
	MinRating = 0
	MaxRating = 3

	// PassThreshold only drives the pass/fail colouring in the UI.
	PassThreshold = 50
)

type Result struct {
	Raw             int  `json:"raw"`
	MaxRaw          int  `json:"maxRaw"`
	WeightedPercent int  `json:"weightedPercent"`
	Passed          bool `json:"passed"`
}

// Calculate reduces ratings over the criteria. Criteria without a rating
// count as zero, ratings for ids not in criteria are ignored.
func Calculate(criteria []model.ScoringCriterion, ratings map[string]int) Result {
	var raw int
	var weighted float64
	for _, c := range criteria {
		r := ratings[c.ID]
		raw += r
		weighted += (float64(r) / MaxRating) * float64(c.Weight)
	}
	percent := int(math.Round(weighted))
	return Result{
		Raw:             raw,
		MaxRaw:          MaxRating * len(criteria),
		WeightedPercent: percent,
		Passed:          percent >= PassThreshold,
	}
}

// Validate rejects ratings outside 0..3 and ratings for unknown criteria.
func Validate(criteria []model.ScoringCriterion, ratings map[string]int) error {
	known := make(map[string]struct{}, len(criteria))
	for _, c := range criteria {
		known[c.ID] = struct{}{}
	}
	for id, r := range ratings {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("%w: unknown criterion %q", apperror.ErrValidation, id)
		}
		if r < MinRating || r > MaxRating {
			return fmt.Errorf("%w: rating for %q must be between %d and %d, got %d",
				apperror.ErrValidation, id, MinRating, MaxRating, r)
		}
	}
	return nil
}

// ValidateCriteria checks a rubric is usable: unique ids and weights that
// add up to 100.
func ValidateCriteria(criteria []model.ScoringCriterion) error {
	if len(criteria) == 0 {
		return fmt.Errorf("%w: no scoring criteria", apperror.ErrValidation)
	}
	seen := make(map[string]struct{}, len(criteria))
	total := 0
	for _, c := range criteria {
		if c.ID == "" {
			return fmt.Errorf("%w: criterion without id", apperror.ErrValidation)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("%w: duplicate criterion %q", apperror.ErrValidation, c.ID)
		}
		seen[c.ID] = struct{}{}
		if c.Weight < 0 || c.Weight > 100 {
			return fmt.Errorf("%w: weight of %q out of range", apperror.ErrValidation, c.ID)
		}
		total += c.Weight
	}
	if total != 100 {
		return fmt.Errorf("%w: criteria weights sum to %d, want 100", apperror.ErrValidation, total)
	}
	return nil
}
