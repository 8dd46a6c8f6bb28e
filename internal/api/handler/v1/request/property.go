package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/exhibition-api/internal/domain"
)

type CreatePropertyRequest struct {
	Title        string `json:"title"`
	PropertyType string `json:"property_type"`
	Location     string `json:"location"`
	Price        int64  `json:"price"`
	Description  string `json:"description"`
}

func (req *CreatePropertyRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 120)),
		validation.Field(&req.PropertyType, validation.Required, validation.Length(2, 50)),
		validation.Field(&req.Location, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.Price, validation.Min(int64(0))),
		validation.Field(&req.Description, validation.Length(0, 2000)),
	)
}

func (req *CreatePropertyRequest) ToDomain() domain.Property {
	return domain.Property{
		Title:        req.Title,
		PropertyType: req.PropertyType,
		Location:     req.Location,
		Price:        req.Price,
		Description:  req.Description,
	}
}
