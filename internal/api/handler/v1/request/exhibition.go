package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/exhibition-api/internal/domain"
)

type CreateExhibitionRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Venue           string `json:"venue"`
	City            string `json:"city"`
	State           string `json:"state"`
	Country         string `json:"country"`
	StartDate       string `json:"start_date" format:"YYYY-MM-DD"`
	EndDate         string `json:"end_date" format:"YYYY-MM-DD"`
	BoothCapacity   int    `json:"booth_capacity"`
	VisitorCapacity int    `json:"visitor_capacity"`
	IsActive        *bool  `json:"is_active,omitempty"`
}

func (req *CreateExhibitionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 120)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.Venue, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.City, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.State, validation.Length(0, 100)),
		validation.Field(&req.Country, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.StartDate, validation.Required, validation.Date(dateLayout)),
		validation.Field(&req.EndDate, validation.Required, validation.Date(dateLayout)),
		validation.Field(&req.BoothCapacity, validation.Min(0)),
		validation.Field(&req.VisitorCapacity, validation.Min(0)),
	)
}

// ToDomain expects a validated request. The exhibition is active unless
// is_active is explicitly false.
func (req *CreateExhibitionRequest) ToDomain() domain.Exhibition {
	start, _ := time.Parse(dateLayout, req.StartDate)
	end, _ := time.Parse(dateLayout, req.EndDate)

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	return domain.Exhibition{
		Name:            req.Name,
		Description:     req.Description,
		Venue:           req.Venue,
		City:            req.City,
		State:           req.State,
		Country:         req.Country,
		StartDate:       start,
		EndDate:         end,
		BoothCapacity:   req.BoothCapacity,
		VisitorCapacity: req.VisitorCapacity,
		IsActive:        active,
	}
}

type UpdateExhibitionRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Venue       *string `json:"venue,omitempty"`
	City        *string `json:"city,omitempty"`
	State       *string `json:"state,omitempty"`
	Country     *string `json:"country,omitempty"`
	StartDate   *string `json:"start_date,omitempty" format:"YYYY-MM-DD"`
	EndDate     *string `json:"end_date,omitempty" format:"YYYY-MM-DD"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (req *UpdateExhibitionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(2, 120)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.Venue, validation.NilOrNotEmpty, validation.Length(2, 200)),
		validation.Field(&req.City, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&req.State, validation.Length(0, 100)),
		validation.Field(&req.Country, validation.NilOrNotEmpty, validation.Length(2, 100)),
		validation.Field(&req.StartDate, validation.NilOrNotEmpty, validation.Date(dateLayout)),
		validation.Field(&req.EndDate, validation.NilOrNotEmpty, validation.Date(dateLayout)),
	)
}

func (req *UpdateExhibitionRequest) ToDetails() domain.ExhibitionDetails {
	details := domain.ExhibitionDetails{
		Name:        req.Name,
		Description: req.Description,
		Venue:       req.Venue,
		City:        req.City,
		State:       req.State,
		Country:     req.Country,
		IsActive:    req.IsActive,
	}
	if req.StartDate != nil {
		start, _ := time.Parse(dateLayout, *req.StartDate)
		details.StartDate = &start
	}
	if req.EndDate != nil {
		end, _ := time.Parse(dateLayout, *req.EndDate)
		details.EndDate = &end
	}

	return details
}

type ResizeCapacityRequest struct {
	Resource string `json:"resource" enums:"booth,visitor"`
	Capacity *int   `json:"capacity"`
}

func (req *ResizeCapacityRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Resource, validation.Required, validation.In(string(domain.ResourceBooth), string(domain.ResourceVisitor))),
		validation.Field(&req.Capacity, validation.NotNil, validation.Min(0)),
	)
}
