package authapi

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/manav03panchal/taskflow/internal/model"
)

// AuthResponse is the body of a successful login, register or refresh call.
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *UserPayload `json:"user,omitempty"`
	Message      string       `json:"message,omitempty"`
}

// UserPayload is a user record as returned by the API.
// The id may be a JSON number or string.
type UserPayload struct {
	ID    FlexibleID `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
}

// ToUser converts the payload to a model.User.
func (u *UserPayload) ToUser() *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		ID:    string(u.ID),
		Name:  u.Name,
		Email: u.Email,
	}
}

// FlexibleID decodes from either a JSON string or number.
type FlexibleID string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexibleID(strings.TrimSpace(n.String()))
	return nil
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// ResetPasswordRequest is the body of POST /reset-password.
type ResetPasswordRequest struct {
	Email                string `json:"email"`
	OTP                  string `json:"otp"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type messageResponse struct {
	Message string `json:"message"`
}
