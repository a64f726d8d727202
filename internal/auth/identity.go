package auth

import (
	"hudori/internal/chat"
	"strings"

	"github.com/markbates/goth"
)

// Identity maps an OAuth user to the identity event that creates or
// refreshes its profile. The user id is qualified by provider so Google and
// Discord accounts never collide.
func Identity(user goth.User) chat.IdentityEvent {
	username := user.NickName
	if username == "" {
		username, _, _ = strings.Cut(user.Email, "@")
	}
	if username == "" {
		username = user.Provider + "-" + user.UserID
	}

	name := user.Name
	if name == "" {
		name = strings.TrimSpace(user.FirstName + " " + user.LastName)
	}
	if name == "" {
		name = username
	}

	return chat.IdentityEvent{
		UserId:   user.Provider + "-" + user.UserID,
		Username: strings.ToLower(username),
		Name:     name,
		Email:    user.Email,
		ImageUrl: user.AvatarURL,
	}
}
