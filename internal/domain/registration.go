package domain

import "time"

type Registration struct {
	ID           uint       `json:"id"`
	VisitorID    uint       `json:"visitor_id"`
	ExhibitionID uint       `json:"exhibition_id"`
	Token        string     `json:"qr_token"`
	IsCheckedIn  bool       `json:"is_checked_in"`
	CheckedInAt  *time.Time `json:"checked_in_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// GateEvent is broadcast to the door staff of an exhibition whenever a pass is
// scanned or a check-in is corrected.
type GateEvent struct {
	Type           string    `json:"type"`
	RegistrationID uint      `json:"registration_id"`
	VisitorID      uint      `json:"visitor_id"`
	ExhibitionID   uint      `json:"exhibition_id"`
	IsCheckedIn    bool      `json:"is_checked_in"`
	At             time.Time `json:"at"`
}

const (
	GateEventScan   = "scan"
	GateEventToggle = "toggle"
)
