package domain

import (
	"errors"
	"time"
)

var ErrInvalidTransition = errors.New("application is not pending")

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

type Application struct {
	ID            uint              `json:"id"`
	ExhibitorID   uint              `json:"exhibitor_id"`
	ExhibitionID  uint              `json:"exhibition_id"`
	Status        ApplicationStatus `json:"status"`
	BoothNumber   string            `json:"booth_number,omitempty"`
	AttachmentRef string            `json:"attachment_ref,omitempty"`
	BadgeRef      string            `json:"badge_ref,omitempty"`
	DecidedAt     *time.Time        `json:"decided_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	// Filled when the application is loaded with its exhibitor and exhibition.
	ExhibitorEmail string `json:"exhibitor_email,omitempty"`
	ExhibitorName  string `json:"exhibitor_name,omitempty"`
	ExhibitionName string `json:"exhibition_name,omitempty"`
}

// Approve moves a pending application to APPROVED. APPROVED and REJECTED are terminal.
func (a *Application) Approve(boothNumber, badgeRef string, at time.Time) error {
	if a.Status != ApplicationPending {
		return ErrInvalidTransition
	}
	a.Status = ApplicationApproved
	a.BoothNumber = boothNumber
	a.BadgeRef = badgeRef
	a.DecidedAt = &at
	return nil
}

func (a *Application) Reject(at time.Time) error {
	if a.Status != ApplicationPending {
		return ErrInvalidTransition
	}
	a.Status = ApplicationRejected
	a.DecidedAt = &at
	return nil
}

// Decision is the notifier payload for an approved or rejected application.
func (a Application) Decision() ApplicationDecision {
	return ApplicationDecision{
		ApplicationID:  a.ID,
		Status:         a.Status,
		Email:          a.ExhibitorEmail,
		ExhibitorName:  a.ExhibitorName,
		ExhibitionName: a.ExhibitionName,
		BoothNumber:    a.BoothNumber,
		BadgeRef:       a.BadgeRef,
	}
}

type ApplicationDecision struct {
	ApplicationID  uint              `json:"application_id"`
	Status         ApplicationStatus `json:"status"`
	Email          string            `json:"email"`
	ExhibitorName  string            `json:"exhibitor_name"`
	ExhibitionName string            `json:"exhibition_name"`
	BoothNumber    string            `json:"booth_number,omitempty"`
	BadgeRef       string            `json:"badge_ref,omitempty"`
}
