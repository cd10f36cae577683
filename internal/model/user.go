package model

// User data model. Only the public profile fields live here; credentials are
// the auth service's problem.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
}
