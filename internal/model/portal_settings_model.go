package model

type PortalSettings struct {
	Stage1Visible bool `json:"stage1Visible"`
	Stage2Visible bool `json:"stage2Visible"`
	VotingOpen    bool `json:"votingOpen"`
}

func DefaultPortalSettings() PortalSettings {
	return PortalSettings{
		Stage1Visible: true,
		Stage2Visible: false,
		VotingOpen:    false,
	}
}
