package domain

// Profile holds the optional display fields attached to a user account.
type Profile struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// User represents an authenticated marketplace account. This is the
// identity held by the session store; an absent *User means anonymous.
type User struct {
	ID           string  `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	TokenBalance float64 `json:"tokenBalance"`
	IsAdmin      bool    `json:"isAdmin"`
	Profile      Profile `json:"profile"`
}

// DisplayName returns the profile's full name when set, else the username.
func (u User) DisplayName() string {
	switch {
	case u.Profile.FirstName != "" && u.Profile.LastName != "":
		return u.Profile.FirstName + " " + u.Profile.LastName
	case u.Profile.FirstName != "":
		return u.Profile.FirstName
	default:
		return u.Username
	}
}
