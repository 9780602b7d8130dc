package auth

// Identity represents a normalized user record returned by the identity
// provider. It contains facts only, no decisions.
type Identity struct {
	UserID   string // provider-assigned unique user id
	Email    string // credential email, may be empty on inconsistent records
	Username string // display name chosen at registration
}
