package domain

import "time"

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleExhibitor Role = "EXHIBITOR"
	RoleVisitor   Role = "VISITOR"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleExhibitor, RoleVisitor:
		return true
	}
	return false
}

type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Roles     []Role    `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Actor is the authenticated caller of a service operation. Role is the
// active role the request runs under; Roles is everything ever granted.
type Actor struct {
	UserID uint
	Email  string
	Name   string
	Role   Role
	Roles  []Role
}

func (a Actor) Authenticated() bool {
	return a.UserID != 0
}

func (a Actor) User() User {
	return User{
		ID:    a.UserID,
		Email: a.Email,
		Name:  a.Name,
		Roles: a.Roles,
	}
}

type BusinessType string

const (
	BusinessDeveloper BusinessType = "DEVELOPER"
	BusinessBroker    BusinessType = "BROKER"
	BusinessLoan      BusinessType = "LOAN"
)

type ExhibitorProfile struct {
	ID            uint         `json:"id"`
	UserID        uint         `json:"user_id"`
	CompanyName   string       `json:"company_name"`
	CouncilArea   string       `json:"council_area"`
	BusinessType  BusinessType `json:"business_type"`
	ContactNumber string       `json:"contact_number"`
	CreatedAt     time.Time    `json:"created_at"`
}
