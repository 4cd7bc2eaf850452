// Package auth holds the process-wide authentication state store. It
// owns the current user, a loading flag and the last error message,
// and drives every call to the auth collaborator through one helper so
// the lifecycle (loading set, error captured, loading always cleared)
// cannot drift between actions.
package auth

import (
	"errors"
	"sync"

	"gudang/internal/models"
)

// State is the store's lifecycle position.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
)

// Service is the external collaborator the store drives.
// *services.AuthService satisfies it.
type Service interface {
	SignIn(creds *models.SignIn) (*models.User, string, error)
	SignUp(creds *models.SignUp) (*models.User, string, error)
	SignOut(token string) error
	ForgotPassword(email string) error
	UpdatePassword(userID, password string) error
	CurrentUser(token string) (*models.User, error)
}

// Store is the auth state container. All fields are guarded by one
// mutex; every action goes through run, which is the single writer.
// Actions return a success boolean rather than an error so callers
// branch on the result and read Err for the display message.
type Store struct {
	mu sync.Mutex

	svc         Service
	state       State
	user        *models.User
	token       string
	loading     bool
	errMsg      string
	initialized bool
}

// NewStore creates a Store in the uninitialized state. token may carry
// a previously persisted session token for Initialize to restore.
func NewStore(svc Service, token string) *Store {
	return &Store{
		svc:   svc,
		state: StateUninitialized,
		token: token,
	}
}

// SignIn authenticates and stores the resulting session.
func (s *Store) SignIn(creds *models.SignIn) bool {
	return s.run(func() error {
		user, token, err := s.svc.SignIn(creds)
		if err != nil {
			return err
		}
		s.setSession(user, token)
		return nil
	})
}

// SignUp registers, then stores the resulting session.
func (s *Store) SignUp(creds *models.SignUp) bool {
	return s.run(func() error {
		user, token, err := s.svc.SignUp(creds)
		if err != nil {
			return err
		}
		s.setSession(user, token)
		return nil
	})
}

// SignOut ends the session and clears the stored user.
func (s *Store) SignOut() bool {
	return s.run(func() error {
		if err := s.svc.SignOut(s.Token()); err != nil {
			return err
		}
		s.setSession(nil, "")
		return nil
	})
}

// ForgotPassword requests a reset mail; the session is untouched.
func (s *Store) ForgotPassword(creds *models.ForgotPassword) bool {
	return s.run(func() error {
		return s.svc.ForgotPassword(creds.Email)
	})
}

// UpdatePassword changes the signed-in user's password.
func (s *Store) UpdatePassword(creds *models.UpdatePassword) bool {
	return s.run(func() error {
		user := s.User()
		if user == nil {
			return errors.New("not signed in")
		}
		return s.svc.UpdatePassword(user.ID, creds.Password)
	})
}

// GetCurrentUser refreshes the stored user from the current session.
func (s *Store) GetCurrentUser() bool {
	return s.run(func() error {
		token := s.Token()
		if token == "" {
			return errors.New("no active session")
		}
		user, err := s.svc.CurrentUser(token)
		if err != nil {
			return err
		}
		s.setSession(user, token)
		return nil
	})
}

// Initialize restores the session from the persisted token, if any.
// No token is not a failure: the store settles in ready(none).
func (s *Store) Initialize() bool {
	ok := s.run(func() error {
		token := s.Token()
		if token == "" {
			s.setSession(nil, "")
			return nil
		}
		user, err := s.svc.CurrentUser(token)
		if err != nil {
			return err
		}
		s.setSession(user, token)
		return nil
	})

	s.mu.Lock()
	s.initialized = ok
	s.mu.Unlock()
	return ok
}

// run wraps one collaborator call with the store lifecycle: loading
// set and error cleared before, loading always cleared after, error
// message captured on failure.
func (s *Store) run(fn func() error) bool {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.state = StateInitializing
	s.mu.Unlock()

	err := fn()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.state = StateReady
	if err != nil {
		s.errMsg = err.Error()
		return false
	}
	return true
}

func (s *Store) setSession(user *models.User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.token = token
}

// User returns the signed-in user, or nil.
func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// CurrentUserID returns the signed-in user's identifier, or "". It is
// the value the cache layer keys by.
func (s *Store) CurrentUserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

// Token returns the current session token, or "".
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Loading reports whether an action is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last action's error message, or "".
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// State returns the store's lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Initialized reports whether Initialize has completed successfully.
func (s *Store) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}
