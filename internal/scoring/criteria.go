package scoring

import "github.com/fadilmartias/grant-portal/internal/model"

// DefaultCriteria is the committee rubric. Weights are percentage points and
// sum to 100.
func DefaultCriteria() []model.ScoringCriterion {
	return []model.ScoringCriterion{
		{
			ID:       "community_need",
			Name:     "Community Need",
			Guidance: "Is there clear evidence the project responds to a local need?",
			Details:  "<p>0: no evidence. 1: need asserted. 2: need described with local examples. 3: need evidenced with data or consultation.</p>",
			Weight:   15,
		},
		{
			ID:       "community_benefit",
			Name:     "Community Benefit",
			Guidance: "Who benefits and how many people will be reached?",
			Details:  "<p>0: unclear. 1: small or narrow group. 2: a defined group with clear benefit. 3: wide reach with lasting benefit.</p>",
			Weight:   15,
		},
		{
			ID:       "marmot_principles",
			Name:     "Marmot Principles",
			Guidance: "How well does the project address the selected Marmot principles?",
			Details:  "<p>0: not addressed. 1: mentioned. 2: explained for most principles. 3: every selected principle explained with concrete activity.</p>",
			Weight:   10,
		},
		{
			ID:       "wellbeing_goals",
			Name:     "Well-being of Future Generations",
			Guidance: "Does the project contribute to the selected well-being goals?",
			Details:  "<p>0: not addressed. 1: mentioned. 2: partly evidenced. 3: clearly evidenced contribution.</p>",
			Weight:   10,
		},
		{
			ID:       "deliverability",
			Name:     "Deliverability",
			Guidance: "Can the organisation realistically deliver within the timescale?",
			Details:  "<p>0: unrealistic. 1: major gaps. 2: realistic with minor gaps. 3: realistic plan with named responsibilities.</p>",
			Weight:   10,
		},
		{
			ID:       "value_for_money",
			Name:     "Value for Money",
			Guidance: "Are the costs reasonable and clearly broken down?",
			Details:  "<p>0: no breakdown. 1: costs unclear. 2: reasonable costs. 3: reasonable, itemised costs with match funding or in-kind support.</p>",
			Weight:   10,
		},
		{
			ID:       "collaboration",
			Name:     "Collaboration",
			Guidance: "Does the project work with other groups or services?",
			Details:  "<p>0: none. 1: informal links. 2: named partners. 3: partners with defined roles.</p>",
			Weight:   10,
		},
		{
			ID:       "sustainability",
			Name:     "Sustainability",
			Guidance: "Will the benefit continue after the funding ends?",
			Details:  "<p>0: one-off. 1: some legacy. 2: a plan to continue. 3: a funded or self-sustaining continuation plan.</p>",
			Weight:   10,
		},
		{
			ID:       "inclusion",
			Name:     "Inclusion",
			Guidance: "Is the project accessible to people who face barriers?",
			Details:  "<p>0: not considered. 1: mentioned. 2: specific measures. 3: co-designed with the people it serves.</p>",
			Weight:   5,
		},
		{
			ID:       "risk_management",
			Name:     "Risk Management",
			Guidance: "Have the main risks been identified and mitigated?",
			Details:  "<p>0: none identified. 1: listed only. 2: listed with mitigations. 3: realistic mitigations with owners.</p>",
			Weight:   5,
		},
	}
}
