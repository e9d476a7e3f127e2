package services

import (
	"math"
	"time"

	"github.com/doeshing/alan-go/internal/domain"
)

// similarityFloor keeps dissimilar same-category records contributing to the
// rate while letting close requests dominate.
const similarityFloor = 0.25

// Scorer derives a [0,1] confidence estimate for a new suggestion from the
// resolved history of the same platform and command category.
//
// Each resolved record contributes its acceptance (1 for accepted, 0 for
// rejected or edited) weighted by recency and lexical similarity:
//
//	weight = 0.5^(age/halfLife) * (floor + (1-floor)*jaccard)
//
// With no comparable history the scorer returns the neutral prior and flags
// the result as low-sample. The scorer never errors; insufficient data is a
// normal case.
type Scorer struct {
	matcher *Matcher

	// NeutralPrior is returned when no resolved record matches.
	NeutralPrior float64
	// MinSampleSize flags scores derived from fewer matching records.
	MinSampleSize int
	// RecencyHalfLife controls exponential decay of record weight by age.
	RecencyHalfLife time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// NewScorer builds a scorer sharing the matcher's similarity measure.
func NewScorer(matcher *Matcher, settings domain.ScoringSettings) *Scorer {
	prior := settings.NeutralPrior
	if prior <= 0 {
		prior = domain.DefaultNeutralPrior
	}
	minSamples := settings.MinSampleSize
	if minSamples <= 0 {
		minSamples = domain.DefaultMinSampleSize
	}
	halfLife := settings.RecencyHalfLife()
	if halfLife <= 0 {
		halfLife = domain.DefaultRecencyHalfLifeDays * 24 * time.Hour
	}
	return &Scorer{
		matcher:         matcher,
		NeutralPrior:    prior,
		MinSampleSize:   minSamples,
		RecencyHalfLife: halfLife,
		now:             time.Now,
	}
}

// Score computes the similarity-and-recency-weighted acceptance rate over the
// resolved records matching platform and category, clamped to [0,1].
func (s *Scorer) Score(records []domain.SuggestionRecord, request, category, platform string) domain.Confidence {
	now := s.now().UTC()

	var weightSum, acceptedSum float64
	matched := 0
	for _, rec := range records {
		if rec.Platform != platform || rec.CommandCategory != category {
			continue
		}
		if !rec.Outcome.Resolved() {
			continue
		}
		matched++

		age := now.Sub(rec.Timestamp.UTC())
		if age < 0 {
			age = 0
		}
		recency := math.Exp2(-age.Hours() / s.RecencyHalfLife.Hours())
		similarity := s.matcher.Similarity(request, rec.RequestText)
		weight := recency * (similarityFloor + (1-similarityFloor)*similarity)

		weightSum += weight
		if rec.Outcome == domain.OutcomeAccepted {
			acceptedSum += weight
		}
	}

	if matched == 0 || weightSum == 0 {
		return domain.Confidence{Score: s.NeutralPrior, LowSampleSize: true}
	}

	score := acceptedSum / weightSum
	score = math.Max(0, math.Min(1, score))
	return domain.Confidence{
		Score:         score,
		LowSampleSize: matched < s.MinSampleSize,
	}
}
