package domain

import "time"

type Property struct {
	ID           uint      `json:"id"`
	OwnerID      uint      `json:"owner_id"`
	Title        string    `json:"title"`
	PropertyType string    `json:"property_type"`
	Location     string    `json:"location"`
	Price        int64     `json:"price"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
