package response

type RegistrationCreated struct {
	RegistrationID uint   `json:"registration_id"`
	QRToken        string `json:"qr_token"`
}

type ScanResult struct {
	RegistrationID uint `json:"registration_id"`
	VisitorID      uint `json:"visitor_id"`
	ExhibitionID   uint `json:"exhibition_id"`
}

type CheckInState struct {
	RegistrationID uint `json:"registration_id"`
	IsCheckedIn    bool `json:"is_checked_in"`
}
