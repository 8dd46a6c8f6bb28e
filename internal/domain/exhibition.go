package domain

import "time"

// Resource is a kind of capacity tracked per exhibition.
type Resource string

const (
	ResourceBooth   Resource = "booth"
	ResourceVisitor Resource = "visitor"
)

type Exhibition struct {
	ID                uint      `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Venue             string    `json:"venue"`
	City              string    `json:"city"`
	State             string    `json:"state"`
	Country           string    `json:"country"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	BoothCapacity     int       `json:"booth_capacity"`
	VisitorCapacity   int       `json:"visitor_capacity"`
	AvailableBooths   int       `json:"available_booths"`
	AvailableVisitors int       `json:"available_visitors"`
	IsActive          bool      `json:"is_active"`
	CreatedByID       uint      `json:"created_by_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (e Exhibition) Available(r Resource) int {
	if r == ResourceBooth {
		return e.AvailableBooths
	}
	return e.AvailableVisitors
}

func (e Exhibition) Capacity(r Resource) int {
	if r == ResourceBooth {
		return e.BoothCapacity
	}
	return e.VisitorCapacity
}

// Ended reports whether the exhibition's last day is over at now. EndDate
// only carries the calendar day.
func (e Exhibition) Ended(now time.Time) bool {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return e.EndDate.Before(today)
}

// Summary is the payload handed to the notifier when the exhibition is published.
func (e Exhibition) Summary() ExhibitionSummary {
	return ExhibitionSummary{
		ID:        e.ID,
		Name:      e.Name,
		StartDate: e.StartDate,
		EndDate:   e.EndDate,
		Venue:     e.Venue,
		City:      e.City,
		State:     e.State,
		Country:   e.Country,
	}
}

type ExhibitionSummary struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Venue     string    `json:"venue"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Country   string    `json:"country"`
}

// ExhibitionDetails carries the editable, non-capacity fields of an exhibition.
// Nil fields are left untouched.
type ExhibitionDetails struct {
	Name        *string
	Description *string
	Venue       *string
	City        *string
	State       *string
	Country     *string
	StartDate   *time.Time
	EndDate     *time.Time
	IsActive    *bool
}
