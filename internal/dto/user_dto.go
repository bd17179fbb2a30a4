package dto

import "github.com/fadilmartias/grant-portal/internal/model"

type CreateUserRequest struct {
	Email       string     `json:"email"`
	Username    string     `json:"username,omitempty"`
	DisplayName string     `json:"displayName"`
	Role        model.Role `json:"role"`
	Area        string     `json:"area,omitempty"`
	Password    string     `json:"password"`
}

func (r CreateUserRequest) ToModel() model.User {
	return model.User{
		Email:       r.Email,
		Username:    r.Username,
		DisplayName: r.DisplayName,
		Role:        r.Role,
		Area:        r.Area,
	}
}
