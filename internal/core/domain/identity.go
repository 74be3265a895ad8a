package domain

// Identity is the user resolved for the current request. The zero value is
// the anonymous identity.
type Identity struct {
	user *User
}

// Anonymous returns the identity of a caller without a valid session
func Anonymous() Identity {
	return Identity{}
}

// AuthenticatedAs returns the identity for a resolved user
func AuthenticatedAs(user *User) Identity {
	return Identity{user: user}
}

func (i Identity) Authenticated() bool {
	return i.user != nil
}

// UserID returns 0 for the anonymous identity
func (i Identity) UserID() int64 {
	if i.user == nil {
		return 0
	}
	return i.user.ID
}

func (i Identity) Username() string {
	if i.user == nil {
		return ""
	}
	return i.user.Username
}

func (i Identity) User() *User {
	return i.user
}
