package model

// Score is a single committee member's evaluation of one application.
// (AppID, ScorerID) identifies it.
type Score struct {
	AppID      string            `json:"appId"`
	ScorerID   string            `json:"scorerId"`
	ScorerName string            `json:"scorerName,omitempty"`
	Scores     map[string]int    `json:"scores"`
	Notes      map[string]string `json:"notes,omitempty"`
	IsFinal    bool              `json:"isFinal"`
	Total      int               `json:"total"`
	Timestamp  int64             `json:"timestamp"` // epoch millis
}

func (s *Score) DocumentID() string {
	return s.AppID + "_" + s.ScorerID
}
