// Package access describes the caller of a use case.
package access

import "github.com/gardenpro/landscape-api/internal/models"

type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool    { return a.Role == models.RoleAdmin }
func (a Actor) IsCustomer() bool { return a.Role == models.RoleCustomer }

func (a Actor) IsStaff() bool {
	return a.Role == models.RoleAdmin || a.Role == models.RoleProfessional
}

// UserRef returns a pointer to the user id for audit and createdBy columns.
func (a Actor) UserRef() *uint {
	if a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}
