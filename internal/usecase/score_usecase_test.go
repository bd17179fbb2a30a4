package usecase_test

import (
	"context"
	"testing"

	"github.com/fadilmartias/grant-portal/internal/apperror"
	"github.com/fadilmartias/grant-portal/internal/metrics"
	"github.com/fadilmartias/grant-portal/internal/model"
	"github.com/fadilmartias/grant-portal/internal/scoring"
	"github.com/fadilmartias/grant-portal/internal/service"
	"github.com/fadilmartias/grant-portal/internal/usecase"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threeCriteria is the worked example rubric: weights 40/30/30.
var threeCriteria = []model.ScoringCriterion{
	{ID: "need", Name: "Need", Weight: 40},
	{ID: "benefit", Name: "Benefit", Weight: 30},
	{ID: "value", Name: "Value", Weight: 30},
}

func newScores(t *testing.T, portal service.PortalServiceInterface, criteria []model.ScoringCriterion, m *metrics.Metrics) *usecase.ScoreUsecase {
	t.Helper()
	uc, err := usecase.NewScoreUsecase(portal, criteria, m, nop())
	require.NoError(t, err)
	return uc
}

func TestScoreUsecase_Submit(t *testing.T) {
	portal := newPortal(t)
	m := testMetrics()
	uc := newScores(t, portal, threeCriteria, m)
	ctx := context.Background()

	scored, err := uc.Submit(ctx, louise, "app_demo_blaenavon_blues",
		map[string]int{"need": 3, "benefit": 0, "value": 1},
		map[string]string{"need": "Clear evidence of demand"})
	require.NoError(t, err)
	assert.Equal(t, 4, scored.Score.Total)
	assert.Equal(t, 50, scored.Result.WeightedPercent)
	assert.True(t, scored.Result.Passed)
	assert.True(t, scored.Score.IsFinal)
	assert.Equal(t, "Louise White", scored.Score.ScorerName)
	assert.NotZero(t, scored.Score.Timestamp)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScoreSubmissions))

	// resubmitting replaces the score
	_, err = uc.Submit(ctx, louise, "app_demo_blaenavon_blues", map[string]int{"need": 1}, nil)
	require.NoError(t, err)
	mine, err := uc.ListForScorer(ctx, louise.UID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 1, mine[0].Total)
	assert.Equal(t, 13, uc.Result(mine[0]).WeightedPercent)
}

func TestScoreUsecase_SubmitRejects(t *testing.T) {
	portal := newPortal(t)
	uc := newScores(t, portal, threeCriteria, nil)
	ctx := context.Background()

	_, err := uc.Submit(ctx, applicant, "app_demo_blaenavon_blues", map[string]int{"need": 1}, nil)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = uc.Submit(ctx, dafydd, "app_demo_blaenavon_blues", map[string]int{"need": 1}, nil)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = uc.Submit(ctx, louise, "app_demo_blaenavon_blues", map[string]int{"need": 4}, nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = uc.Submit(ctx, louise, "app_demo_blaenavon_blues", map[string]int{"vibes": 2}, nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = uc.Submit(ctx, louise, "app_missing", map[string]int{"need": 1}, nil)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	require.NoError(t, portal.UpdateApplication(ctx, "app_demo_blaenavon_blues", map[string]any{"status": "Draft"}))
	_, err = uc.Submit(ctx, louise, "app_demo_blaenavon_blues", map[string]int{"need": 1}, nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	// cross area applications are open to every committee member
	_, err = uc.Submit(ctx, dafydd, "app_demo_torfaen_transport", map[string]int{"need": 2}, nil)
	assert.NoError(t, err)
}

func TestScoreUsecase_ListResetAndSummaries(t *testing.T) {
	portal := newPortal(t)
	uc := newScores(t, portal, threeCriteria, nil)
	ctx := context.Background()

	const cross = "app_demo_torfaen_transport"
	_, err := uc.Submit(ctx, louise, cross, map[string]int{"need": 3, "benefit": 3, "value": 3}, nil)
	require.NoError(t, err)
	_, err = uc.Submit(ctx, dafydd, cross, map[string]int{"need": 0, "benefit": 0, "value": 0}, nil)
	require.NoError(t, err)
	_, err = uc.Submit(ctx, louise, "app_demo_blaenavon_blues", map[string]int{"need": 3}, nil)
	require.NoError(t, err)

	all, err := uc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	summaries, err := uc.Summaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "app_demo_blaenavon_blues", summaries[0].AppID)
	assert.Equal(t, 40, summaries[0].AveragePercent)
	assert.False(t, summaries[0].Passed)
	assert.Equal(t, cross, summaries[1].AppID)
	assert.Equal(t, 2, summaries[1].Scorers)
	assert.Equal(t, 50, summaries[1].AveragePercent)
	assert.InDelta(t, 4.5, summaries[1].AverageRaw, 0.001)
	assert.True(t, summaries[1].Passed)

	require.NoError(t, uc.Reset(ctx, louise.UID))
	mine, err := uc.ListForScorer(ctx, louise.UID)
	require.NoError(t, err)
	assert.Empty(t, mine)
	theirs, err := uc.ListForScorer(ctx, dafydd.UID)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestScoreUsecase_DefaultCriteria(t *testing.T) {
	uc := newScores(t, newPortal(t), nil, nil)
	assert.Equal(t, scoring.DefaultCriteria(), uc.Criteria())
}

func TestScoreUsecase_RejectsUnbalancedCriteria(t *testing.T) {
	lopsided := []model.ScoringCriterion{
		{ID: "need", Name: "Need", Weight: 60},
		{ID: "value", Name: "Value", Weight: 30},
	}
	_, err := usecase.NewScoreUsecase(newPortal(t), lopsided, nil, nop())
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
