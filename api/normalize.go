package api

import "github.com/nutricare/nutrikit/auth"

// normalize collapses the duck-typed token fields into the canonical grant.
// token, access_token and access are accepted in that order of preference.
// ok is false when no token is present under any key.
func (e tokenEnvelope) normalize() (grant auth.Grant, ok bool) {
	token := e.Token
	if token == "" {
		token = e.AccessToken
	}
	if token == "" {
		token = e.Access
	}
	if token == "" {
		return auth.Grant{}, false
	}
	return auth.Grant{
		Token:        token,
		RefreshToken: e.RefreshToken,
		ExpiresIn:    e.ExpiresIn,
	}, true
}

// user builds the signed-in user from the envelope. fallbackEmail fills the
// email when the backend omits the user object or its email field.
func (e tokenEnvelope) user(fallbackEmail string) auth.User {
	grant, _ := e.normalize()
	user := auth.User{
		Token:        grant.Token,
		RefreshToken: grant.RefreshToken,
	}
	if e.User != nil {
		user.UserID = e.User.ID
		user.Email = e.User.Email
		user.Username = e.User.Username
		user.FirstName = e.User.FirstName
		user.LastName = e.User.LastName
		user.Role = e.User.Role
	}
	if user.Email == "" {
		user.Email = fallbackEmail
	}
	return user
}
