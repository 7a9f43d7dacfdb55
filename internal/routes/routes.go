package routes

import "net/url"

// Page paths
const (
	Dashboard     = "/"
	Login         = "/login"
	SignUp        = "/sign-up"
	Logout        = "/logout"
	Search        = "/search"
	Upload        = "/upload"
	EditProfile   = "/edit-profile"
	Profile       = "/p/{username}"
	NotFound      = "/not-found"
	Theme         = "/theme"
	SessionEvents = "/ws/session"
	Health        = "/health"
)

// DefaultImagePath is shown when an avatar cannot be loaded
const DefaultImagePath = "/images/avatars/default.png"

// ProfilePath returns the profile page of username
func ProfilePath(username string) string {
	return "/p/" + url.PathEscape(username)
}

// AvatarPath returns the avatar to display for a user: the uploaded avatar
// when there is one, otherwise the conventional path derived from username.
func AvatarPath(username, avatarURL string) string {
	if avatarURL != "" {
		return avatarURL
	}
	return "/images/avatars/" + url.PathEscape(username) + ".jpg"
}
