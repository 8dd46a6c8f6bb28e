package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type ApplyRequest struct {
	AttachmentRef string `json:"attachment_ref"`
}

func (req *ApplyRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.AttachmentRef, validation.Length(0, 512), is.RequestURL),
	)
}

type ApproveRequest struct {
	BoothNumber string `json:"booth_number"`
	BadgeRef    string `json:"badge_ref"`
}

func (req *ApproveRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.BoothNumber, validation.Required, matches(boothNumberExp, errInvalidBoothNumber)),
		validation.Field(&req.BadgeRef, validation.Length(0, 512), is.RequestURL),
	)
}
