package domain

// User is the profile block stored alongside the session token.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Street    string `json:"street,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Zipcode   string `json:"zipcode,omitempty"`
	Country   string `json:"country,omitempty"`
}

// Identity is the ephemeral proof of the current logged-in user: an opaque
// bearer token plus the profile returned at login.
type Identity struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Valid reports whether the identity names a concrete user.
func (i Identity) Valid() bool {
	return i.User.ID > 0
}
