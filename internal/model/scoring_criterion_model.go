package model

type ScoringCriterion struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Guidance string `json:"guidance" yaml:"guidance"`
	Details  string `json:"details" yaml:"details"`
	Weight   int    `json:"weight" yaml:"weight"` // percentage points
}
