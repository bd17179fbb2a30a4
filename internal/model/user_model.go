package model

type Role string

const (
	RoleApplicant Role = "applicant"
	RoleCommittee Role = "committee"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleApplicant, RoleCommittee, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	UID             string `json:"uid" yaml:"uid"`
	Email           string `json:"email" yaml:"email"`
	Username        string `json:"username,omitempty" yaml:"username"`
	DisplayName     string `json:"displayName" yaml:"displayName"`
	Role            Role   `json:"role" yaml:"role"`
	Area            string `json:"area,omitempty" yaml:"area"`
	Bio             string `json:"bio,omitempty" yaml:"bio"`
	Phone           string `json:"phone,omitempty" yaml:"phone"`
	Address         string `json:"address,omitempty" yaml:"address"`
	RoleDescription string `json:"roleDescription,omitempty" yaml:"roleDescription"`
	PhotoURL        string `json:"photoUrl,omitempty" yaml:"photoUrl"`
}
