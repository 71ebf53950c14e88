package model

import (
	"encoding/json"
	"strings"

	"github.com/manav03panchal/taskflow/internal/errors"
)

// User identifies the owner of a todo collection.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DecodeUser parses a persisted session identity.
func DecodeUser(data string) (*User, error) {
	var u User
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		return nil, errors.NewStorageError("decode", KeyUser, errors.Wrap(errors.ErrCorruptData, err.Error()))
	}
	if u.ID == "" {
		return nil, errors.NewStorageError("decode", KeyUser, errors.Wrap(errors.ErrCorruptData, "missing user id"))
	}
	return &u, nil
}

// Encode serializes the user for persistence.
func (u *User) Encode() (string, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DisplayName returns the name, falling back to the local part of the email.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	local, _, _ := strings.Cut(u.Email, "@")
	return local
}
