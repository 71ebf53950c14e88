// Package session manages the authenticated identity and its tokens.
package session

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"

	"github.com/manav03panchal/taskflow/internal/authapi"
	"github.com/manav03panchal/taskflow/internal/errors"
	"github.com/manav03panchal/taskflow/internal/logging"
	"github.com/manav03panchal/taskflow/internal/model"
	"github.com/manav03panchal/taskflow/internal/storage"
	"github.com/manav03panchal/taskflow/internal/validate"
)

// AuthAPI is the subset of the authentication API the session needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*authapi.AuthResponse, error)
	Register(ctx context.Context, req authapi.RegisterRequest) (*authapi.AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, req authapi.ResetPasswordRequest) (string, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, accessToken string) error
}

// Discarder drops a user's persisted todo collection on logout.
type Discarder interface {
	Discard(userID string) error
}

// Store holds the current session. A nil user means logged out.
type Store struct {
	mu        sync.RWMutex
	kv        storage.KV
	api       AuthAPI
	discarder Discarder
	user      *model.User
}

// New creates a session store. discarder may be nil.
func New(kv storage.KV, api AuthAPI, discarder Discarder) *Store {
	return &Store{
		kv:        kv,
		api:       api,
		discarder: discarder,
	}
}

// SetDiscarder replaces the collaborator that drops todo collections.
func (s *Store) SetDiscarder(d Discarder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discarder = d
}

// Current returns a copy of the logged-in user, or nil.
func (s *Store) Current() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Login authenticates with email and password and persists the session.
func (s *Store) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if err := validate.Required(email, password); err != nil {
		return nil, err
	}

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	user := deriveUser(resp.AccessToken, resp.User.ToUser(), "", email)
	if err := s.establish(resp.AccessToken, resp.RefreshToken, user); err != nil {
		return nil, err
	}

	logging.LoggerFromContext(ctx).Info("logged in", logging.KeyUser, user.ID)
	u := *user
	return &u, nil
}

// Signup registers a new account and persists the resulting session.
func (s *Store) Signup(ctx context.Context, name, email, password, confirmation string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := validate.Required(name, email, password, confirmation); err != nil {
		return nil, err
	}
	if err := validate.Email(email); err != nil {
		return nil, err
	}
	if err := validate.PasswordConfirmation(password, confirmation); err != nil {
		return nil, err
	}
	if err := validate.PasswordStrength(password); err != nil {
		return nil, err
	}

	resp, err := s.api.Register(ctx, authapi.RegisterRequest{
		Name:                 name,
		Email:                email,
		Password:             password,
		PasswordConfirmation: confirmation,
	})
	if err != nil {
		return nil, err
	}

	user := deriveUser(resp.AccessToken, resp.User.ToUser(), name, email)
	if err := s.establish(resp.AccessToken, resp.RefreshToken, user); err != nil {
		return nil, err
	}

	logging.LoggerFromContext(ctx).Info("signed up", logging.KeyUser, user.ID)
	u := *user
	return &u, nil
}

// establish persists tokens and identity, then installs the user in memory.
func (s *Store) establish(accessToken, refreshToken string, user *model.User) error {
	encoded, err := user.Encode()
	if err != nil {
		return errors.NewStorageError("encode", model.KeyUser, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.setOrRemove(model.KeyAccessToken, accessToken); err != nil {
		return err
	}
	if err := s.setOrRemove(model.KeyRefreshToken, refreshToken); err != nil {
		return err
	}
	if err := s.kv.Set(model.KeyUser, encoded); err != nil {
		return err
	}
	s.user = user
	return nil
}

func (s *Store) setOrRemove(key, value string) error {
	if value == "" {
		return s.kv.Remove(key)
	}
	return s.kv.Set(key, value)
}

// Logout ends the session. The API call is best effort; local tokens,
// identity and the user's todo collection are always removed.
func (s *Store) Logout(ctx context.Context) error {
	return s.end(ctx, true)
}

// Abandon ends the session like Logout but keeps the user's stored todos.
// Used when a login succeeded but the session could not be brought up.
func (s *Store) Abandon(ctx context.Context) error {
	return s.end(ctx, false)
}

func (s *Store) end(ctx context.Context, discard bool) error {
	logger := logging.LoggerFromContext(ctx)

	accessToken, err := s.kv.Get(model.KeyAccessToken)
	if err == nil && accessToken != "" {
		if err := s.api.Logout(ctx, accessToken); err != nil {
			logger.Warn("logout request failed", logging.KeyError, err.Error())
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.user
	s.user = nil

	var errs []error
	for _, key := range []string{model.KeyAccessToken, model.KeyRefreshToken, model.KeyUser} {
		if err := s.kv.Remove(key); err != nil {
			errs = append(errs, err)
		}
	}
	if discard && user != nil && s.discarder != nil {
		if err := s.discarder.Discard(user.ID); err != nil {
			errs = append(errs, err)
		}
	}

	if user != nil {
		logger.Info("logged out", logging.KeyUser, user.ID)
	}
	return stderrors.Join(errs...)
}

// Restore loads the persisted identity without revalidating it with the
// server. Returns nil when no session is stored. A corrupt record is
// removed and treated as logged out.
func (s *Store) Restore() (*model.User, error) {
	data, err := s.kv.Get(model.KeyUser)
	if err != nil {
		if storage.IsErrKeyNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	user, err := model.DecodeUser(data)
	if err != nil {
		logging.Warn("discarding unreadable session", logging.KeyError, err.Error())
		if rmErr := s.kv.Remove(model.KeyUser); rmErr != nil {
			return nil, rmErr
		}
		return nil, nil
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	u := *user
	return &u, nil
}

// AccessToken returns the stored access token.
func (s *Store) AccessToken() (string, error) {
	token, err := s.kv.Get(model.KeyAccessToken)
	if storage.IsErrKeyNotFound(err) {
		return "", errors.ErrNoSession
	}
	return token, err
}

// ForgotPassword requests a one-time reset code for email.
func (s *Store) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if err := validate.Required(email); err != nil {
		return "", err
	}
	if err := validate.Email(email); err != nil {
		return "", err
	}
	return s.api.ForgotPassword(ctx, email)
}

// ResetPassword sets a new password with the emailed one-time code.
func (s *Store) ResetPassword(ctx context.Context, email, otp, password, confirmation string) (string, error) {
	email = strings.TrimSpace(email)
	otp = strings.TrimSpace(otp)
	if err := validate.Required(email, otp, password, confirmation); err != nil {
		return "", err
	}
	if err := validate.OTP(otp); err != nil {
		return "", err
	}
	if err := validate.PasswordConfirmation(password, confirmation); err != nil {
		return "", err
	}
	return s.api.ResetPassword(ctx, authapi.ResetPasswordRequest{
		Email:                email,
		OTP:                  otp,
		Password:             password,
		PasswordConfirmation: confirmation,
	})
}

// RefreshToken exchanges the stored refresh token for a new access token.
// Stored tokens are untouched on failure.
func (s *Store) RefreshToken(ctx context.Context) error {
	refresh, err := s.kv.Get(model.KeyRefreshToken)
	if err != nil {
		if storage.IsErrKeyNotFound(err) {
			return errors.ErrNoRefreshToken
		}
		return err
	}
	if refresh == "" {
		return errors.ErrNoRefreshToken
	}

	access, err := s.api.RefreshToken(ctx, refresh)
	if err != nil {
		return err
	}
	if err := s.kv.Set(model.KeyAccessToken, access); err != nil {
		return err
	}

	logging.LoggerFromContext(ctx).Debug("access token refreshed")
	return nil
}
