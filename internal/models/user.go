package models

// User is a registered account. Users are referenced by friendship and
// like edges through their ID only.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Login    string `json:"login"`
	Name     string `json:"name"`
	Birthday Date   `json:"birthday"`
}
