package session

import (
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/manav03panchal/taskflow/internal/logging"
	"github.com/manav03panchal/taskflow/internal/model"
)

// Claims are the identity fields read from an access token.
type Claims struct {
	Subject string
	Name    string
	Email   string
}

// ParseClaims decodes an access token without verifying its signature.
// The server is the authority on tokens; the client only reads identity.
func ParseClaims(token string) (Claims, bool) {
	if token == "" {
		return Claims{}, false
	}

	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		logging.DebugLog("access token is not a readable JWT", logging.KeyError, err.Error())
		return Claims{}, false
	}

	var c Claims
	switch sub := mc["sub"].(type) {
	case string:
		c.Subject = sub
	case float64:
		c.Subject = strconv.FormatFloat(sub, 'f', -1, 64)
	}
	c.Name, _ = mc["name"].(string)
	c.Email, _ = mc["email"].(string)
	return c, true
}

// UserIDForEmail maps an email to a stable user id so the same account
// always finds the same todo collection.
func UserIDForEmail(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(strings.ToLower(strings.TrimSpace(email)))).String()
}

// deriveUser builds the session identity. Token claims win, then the API's
// user payload, then the values the caller typed.
func deriveUser(accessToken string, payload *model.User, name, email string) *model.User {
	u := &model.User{}
	if c, ok := ParseClaims(accessToken); ok {
		u.ID = c.Subject
		u.Name = c.Name
		u.Email = c.Email
	}
	if payload != nil {
		if u.ID == "" {
			u.ID = payload.ID
		}
		if u.Name == "" {
			u.Name = payload.Name
		}
		if u.Email == "" {
			u.Email = payload.Email
		}
	}
	if u.Email == "" {
		u.Email = email
	}
	if u.Name == "" {
		u.Name = name
	}
	if u.Name == "" {
		u.Name = u.DisplayName()
	}
	if u.ID == "" {
		u.ID = UserIDForEmail(u.Email)
	}
	return u
}
