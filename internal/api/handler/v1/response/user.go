package response

type ProfileStatus struct {
	Exists bool `json:"exists"`
}
