package dto

import (
	"github.com/fadilmartias/grant-portal/internal/model"
	"github.com/fadilmartias/grant-portal/internal/scoring"
)

type ScoreRequest struct {
	Scores map[string]int    `json:"scores"`
	Notes  map[string]string `json:"notes,omitempty"`
}

// ScoreDTO is a stored score with its weighted result.
type ScoreDTO struct {
	model.Score
	MaxRaw          int  `json:"maxRaw"`
	WeightedPercent int  `json:"weightedPercent"`
	Passed          bool `json:"passed"`
}

func NewScoreDTO(score model.Score, result scoring.Result) ScoreDTO {
	return ScoreDTO{
		Score:           score,
		MaxRaw:          result.MaxRaw,
		WeightedPercent: result.WeightedPercent,
		Passed:          result.Passed,
	}
}

type ScoreSummaryDTO struct {
	AppID          string  `json:"appId"`
	Scorers        int     `json:"scorers"`
	AverageRaw     float64 `json:"averageRaw"`
	AveragePercent int     `json:"averagePercent"`
	Passed         bool    `json:"passed"`
}
