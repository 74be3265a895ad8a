package dto

// CredentialsForm is posted by the register and login pages. Emptiness is
// checked by the credential service so the messages match for every caller.
type CredentialsForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type PostForm struct {
	Title string `form:"title"`
	Body  string `form:"body"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}
