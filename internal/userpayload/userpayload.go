// Package userpayload renders a user's public profile.
package userpayload

import (
	"net/http"

	"github.com/realworld-apps/articles-api/internal/model"
)

// UserPayload is the public face of a user. No identifiers beyond the
// username leak out of it.
type UserPayload struct {
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
}

func NewUserPayloadResponse(user *model.User) *UserPayload {
	return &UserPayload{
		Username: user.Username,
		Bio:      user.Bio,
		Image:    user.Image,
	}
}

func (u *UserPayload) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
