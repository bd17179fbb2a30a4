package dto

import "github.com/fadilmartias/grant-portal/internal/model"

// Stage1Request is an expression of interest. ID is set when submitting an
// existing stage 1 draft.
type Stage1Request struct {
	ID               string         `json:"id,omitempty"`
	OrgName          string         `json:"orgName"`
	ApplicantName    string         `json:"applicantName"`
	Area             string         `json:"area"`
	ProjectTitle     string         `json:"projectTitle"`
	Summary          string         `json:"summary"`
	TotalCost        float64        `json:"totalCost"`
	AmountRequested  float64        `json:"amountRequested"`
	Priority         string         `json:"priority,omitempty"`
	SubmissionMethod string         `json:"submissionMethod,omitempty"`
	PDFURL           string         `json:"pdfUrl,omitempty"`
	FormData         map[string]any `json:"formData,omitempty"`
}

func (r Stage1Request) ToModel() model.Application {
	return model.Application{
		ID:               r.ID,
		OrgName:          r.OrgName,
		ApplicantName:    r.ApplicantName,
		Area:             r.Area,
		ProjectTitle:     r.ProjectTitle,
		Summary:          r.Summary,
		TotalCost:        r.TotalCost,
		AmountRequested:  r.AmountRequested,
		Priority:         r.Priority,
		SubmissionMethod: r.SubmissionMethod,
		PDFURL:           r.PDFURL,
		FormData:         r.FormData,
	}
}

type FormDataRequest struct {
	FormData map[string]any `json:"formData"`
}

type StatusRequest struct {
	Status model.Status `json:"status"`
}
