package models

// User is a host platform account.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	SendEmail bool   `json:"send_email"`
	Blocked   bool   `json:"blocked"`
	Guest     bool   `json:"guest"`
}
