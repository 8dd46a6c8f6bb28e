package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/exhibition-api/internal/domain"
)

type CreateProfileRequest struct {
	CompanyName   string `json:"company_name"`
	CouncilArea   string `json:"council_area"`
	BusinessType  string `json:"business_type" enums:"DEVELOPER,BROKER,LOAN"`
	ContactNumber string `json:"contact_number"`
}

func (req *CreateProfileRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.CompanyName, validation.Required, validation.Length(2, 120)),
		validation.Field(&req.CouncilArea, validation.Required, validation.Length(2, 120)),
		validation.Field(&req.BusinessType, validation.Required, validation.In(
			string(domain.BusinessDeveloper), string(domain.BusinessBroker), string(domain.BusinessLoan))),
		validation.Field(&req.ContactNumber, validation.Required, matches(contactNumberExp, errInvalidContactNumber)),
	)
}

func (req *CreateProfileRequest) ToDomain() domain.ExhibitorProfile {
	return domain.ExhibitorProfile{
		CompanyName:   req.CompanyName,
		CouncilArea:   req.CouncilArea,
		BusinessType:  domain.BusinessType(req.BusinessType),
		ContactNumber: req.ContactNumber,
	}
}
