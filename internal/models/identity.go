package models

// Identity is the user tuple supplied by the platform's auth system
// when a connection identifies itself.
type Identity struct {
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	Image  string `json:"image,omitempty"`
}

// Valid reports whether the identity carries a user ID.
func (i Identity) Valid() bool {
	return i.UserID != ""
}
