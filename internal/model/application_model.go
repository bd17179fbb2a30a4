package model

type Status string

const (
	StatusDraft           Status = "Draft"
	StatusSubmittedStage1 Status = "Submitted-Stage1"
	StatusInvitedStage2   Status = "Invited-Stage2"
	StatusSubmittedStage2 Status = "Submitted-Stage2"
	StatusFinalist        Status = "Finalist"
)

// Fixed geographic areas an application can target. CrossArea matches every
// area filter.
const (
	AreaBlaenavon = "Blaenavon"
	AreaThornhill = "Thornhill & Upper Cwmbran"
	AreaTrevethin = "Trevethin, Penygarn & St. Cadoc's"
	CrossArea     = "Cross-Area"

	// AllAreas is the filter value that disables area filtering.
	AllAreas = "All"
)

var Areas = []string{AreaBlaenavon, AreaThornhill, AreaTrevethin}

func ValidArea(area string) bool {
	if area == CrossArea {
		return true
	}
	for _, a := range Areas {
		if a == area {
			return true
		}
	}
	return false
}

// FormData holds the stage specific form fields (addresses, budget lines,
// checklists, declarations, narrative answers). It is opaque to the core.
type FormData map[string]any

type Application struct {
	ID               string   `json:"id" yaml:"id"`
	UserID           string   `json:"userId" yaml:"userId"`
	OrgName          string   `json:"orgName" yaml:"orgName"`
	ApplicantName    string   `json:"applicantName" yaml:"applicantName"`
	Area             string   `json:"area" yaml:"area"`
	ProjectTitle     string   `json:"projectTitle" yaml:"projectTitle"`
	Summary          string   `json:"summary" yaml:"summary"`
	TotalCost        float64  `json:"totalCost" yaml:"totalCost"`
	AmountRequested  float64  `json:"amountRequested" yaml:"amountRequested"`
	Priority         string   `json:"priority,omitempty" yaml:"priority"`
	SubmissionMethod string   `json:"submissionMethod,omitempty" yaml:"submissionMethod"`
	FormData         FormData `json:"formData,omitempty" yaml:"formData"`
	Status           Status   `json:"status" yaml:"status"`
	Stage            int      `json:"stage,omitempty" yaml:"stage"`
	Ref              string   `json:"ref" yaml:"ref"`
	CreatedAt        int64    `json:"createdAt" yaml:"createdAt"` // epoch millis
	PDFURL           string   `json:"pdfUrl,omitempty" yaml:"pdfUrl"`
}

// CurrentStage treats records written before the stage field existed as
// stage 1 unless their status says otherwise.
func (a *Application) CurrentStage() int {
	if a.Stage > 0 {
		return a.Stage
	}
	switch a.Status {
	case StatusInvitedStage2, StatusSubmittedStage2, StatusFinalist:
		return 2
	}
	return 1
}
