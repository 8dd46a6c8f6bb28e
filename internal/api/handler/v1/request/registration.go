package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// ScanRequest only checks presence. A token that is not a UUID is reported
// as an unknown token, not as a bad request.
type ScanRequest struct {
	QRToken string `json:"qr_token"`
}

func (req *ScanRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.QRToken, validation.Required, validation.Length(1, 64)),
	)
}
