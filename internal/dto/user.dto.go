package dto

import "github.com/gardenpro/landscape-api/internal/models"

// UserDTO is the public view of an account, without credentials.
type UserDTO struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

type AuthResponse struct {
	Success bool    `json:"success"`
	Token   string  `json:"token"`
	User    UserDTO `json:"user"`
}

func NewUserDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Phone:  u.Phone,
		Role:   u.Role,
		Active: u.Active,
	}
}

func NewUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i := range users {
		out[i] = NewUserDTO(&users[i])
	}
	return out
}
