package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/fadilmartias/grant-portal/internal/apperror"
	"github.com/fadilmartias/grant-portal/internal/lifecycle"
	"github.com/fadilmartias/grant-portal/internal/metrics"
	"github.com/fadilmartias/grant-portal/internal/model"
	"github.com/fadilmartias/grant-portal/internal/scoring"
	"github.com/fadilmartias/grant-portal/internal/service"
	"go.uber.org/zap"
)

// ScoredApplication is a saved score with its weighted result.
type ScoredApplication struct {
	Score  model.Score
	Result scoring.Result
}

// ScoreSummary aggregates the final scores one application received.
type ScoreSummary struct {
	AppID          string
	Scorers        int
	AverageRaw     float64
	AveragePercent int
	Passed         bool
}

type ScoreUsecase struct {
	portal   service.PortalServiceInterface
	criteria []model.ScoringCriterion
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewScoreUsecase scores against criteria, or the default rubric when nil. A
// rubric whose weights do not sum to 100 is rejected.
func NewScoreUsecase(portal service.PortalServiceInterface, criteria []model.ScoringCriterion, m *metrics.Metrics, logger *zap.Logger) (*ScoreUsecase, error) {
	if criteria == nil {
		criteria = scoring.DefaultCriteria()
	}
	if err := scoring.ValidateCriteria(criteria); err != nil {
		return nil, err
	}
	return &ScoreUsecase{
		portal:   portal,
		criteria: criteria,
		metrics:  m,
		logger:   logger.Named("score"),
		now:      time.Now,
	}, nil
}

func (uc *ScoreUsecase) Criteria() []model.ScoringCriterion {
	return uc.criteria
}

// Submit records the scorer's final ratings for an application, replacing
// any earlier score by the same scorer.
func (uc *ScoreUsecase) Submit(ctx context.Context, scorer model.User, appID string, ratings map[string]int, notes map[string]string) (*ScoredApplication, error) {
	if scorer.Role != model.RoleCommittee && scorer.Role != model.RoleAdmin {
		return nil, fmt.Errorf("%w: only committee members score applications", apperror.ErrForbidden)
	}
	if err := scoring.Validate(uc.criteria, ratings); err != nil {
		return nil, err
	}

	app, err := uc.portal.GetApplication(ctx, appID)
	if err != nil {
		return nil, err
	}
	if !lifecycle.IsReviewable(app.Status) {
		return nil, fmt.Errorf("%w: %s applications cannot be scored", apperror.ErrValidation, app.Status)
	}
	if scorer.Role == model.RoleCommittee && !inArea(*app, scorer.Area) {
		return nil, fmt.Errorf("%w: application is outside your area", apperror.ErrForbidden)
	}

	result := scoring.Calculate(uc.criteria, ratings)
	score := model.Score{
		AppID:      appID,
		ScorerID:   scorer.UID,
		ScorerName: scorer.DisplayName,
		Scores:     ratings,
		Notes:      notes,
		IsFinal:    true,
		Total:      result.Raw,
		Timestamp:  uc.now().UnixMilli(),
	}
	if err := uc.portal.SaveScore(ctx, score); err != nil {
		return nil, err
	}
	if uc.metrics != nil {
		uc.metrics.ScoreSubmissions.Inc()
	}
	uc.logger.Info("score submitted",
		zap.String("app_id", appID),
		zap.String("scorer_id", scorer.UID),
		zap.Int("raw", result.Raw),
		zap.Int("weighted_percent", result.WeightedPercent),
	)
	return &ScoredApplication{Score: score, Result: result}, nil
}

func (uc *ScoreUsecase) ListForScorer(ctx context.Context, scorerID string) ([]model.Score, error) {
	scores, err := uc.portal.GetScores(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Score, 0, len(scores))
	for _, s := range scores {
		if s.ScorerID == scorerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (uc *ScoreUsecase) ListAll(ctx context.Context) ([]model.Score, error) {
	return uc.portal.GetScores(ctx)
}

// Result recomputes the weighted result of a stored score.
func (uc *ScoreUsecase) Result(score model.Score) scoring.Result {
	return scoring.Calculate(uc.criteria, score.Scores)
}

func (uc *ScoreUsecase) Reset(ctx context.Context, scorerID string) error {
	if err := uc.portal.ResetUserScores(ctx, scorerID); err != nil {
		return err
	}
	uc.logger.Info("scores reset", zap.String("scorer_id", scorerID))
	return nil
}

// Summaries averages the final scores per application, ordered by
// application id.
func (uc *ScoreUsecase) Summaries(ctx context.Context) ([]ScoreSummary, error) {
	scores, err := uc.portal.GetScores(ctx)
	if err != nil {
		return nil, err
	}
	type acc struct {
		n, raw, percent int
	}
	byApp := map[string]*acc{}
	for _, s := range scores {
		if !s.IsFinal {
			continue
		}
		a, ok := byApp[s.AppID]
		if !ok {
			a = &acc{}
			byApp[s.AppID] = a
		}
		a.n++
		a.raw += s.Total
		a.percent += scoring.Calculate(uc.criteria, s.Scores).WeightedPercent
	}

	out := make([]ScoreSummary, 0, len(byApp))
	for id, a := range byApp {
		avg := int(math.Round(float64(a.percent) / float64(a.n)))
		out = append(out, ScoreSummary{
			AppID:          id,
			Scorers:        a.n,
			AverageRaw:     float64(a.raw) / float64(a.n),
			AveragePercent: avg,
			Passed:         avg >= scoring.PassThreshold,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppID < out[j].AppID })
	return out, nil
}
