package response

type ApplicationCreated struct {
	ApplicationID uint   `json:"application_id"`
	Status        string `json:"status"`
}
