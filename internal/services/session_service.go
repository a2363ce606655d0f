package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/Dnicola11/repuestos/internal/backend"
	"github.com/Dnicola11/repuestos/internal/models"
	"github.com/Dnicola11/repuestos/internal/store"
)

// SessionService exposes the authentication actions. Every action sets the
// general loading flag, clears the previous error, calls the auth adapter and
// maps failures to a fixed user-facing message which is both stored in the
// error slot and returned to the caller.
//
// The user in the store is written only by the auth adapter's subscription:
// sign-in and sign-out trigger the backend change and wait for the
// notification to land, they never dispatch SetUser themselves.
type SessionService struct {
	store *store.Store
	auth  AuthService
	log   *zap.Logger
}

func NewSessionService(st *store.Store, auth AuthService, log *zap.Logger) *SessionService {
	s := &SessionService{store: st, auth: auth, log: log}
	auth.Subscribe(s.onSessionChange)
	return s
}

// onSessionChange is the sole writer of SetUser. A vanished session also
// drops the in-memory inventory.
func (s *SessionService) onSessionChange(user *models.User) {
	s.store.Apply(store.SetUser{User: user})
	if user == nil {
		s.store.Apply(store.SetParts{})
		s.store.Apply(store.SetCategories{})
	}
}

func (s *SessionService) SignIn(ctx context.Context, email, password string) error {
	s.store.Apply(store.SetLoading{Value: true})
	s.store.Apply(store.ClearError{})
	defer s.store.Apply(store.SetLoading{Value: false})

	if err := s.auth.SignIn(ctx, email, password); err != nil {
		return s.fail("sign in", signInMessage(err), err)
	}
	return nil
}

func (s *SessionService) Register(ctx context.Context, email, password string) error {
	s.store.Apply(store.SetLoading{Value: true})
	s.store.Apply(store.ClearError{})
	defer s.store.Apply(store.SetLoading{Value: false})

	if err := s.auth.CreateAccount(ctx, email, password); err != nil {
		return s.fail("register", registerMessage(err), err)
	}
	return nil
}

func (s *SessionService) SignOut(ctx context.Context) error {
	s.store.Apply(store.SetLoading{Value: true})
	s.store.Apply(store.ClearError{})
	defer s.store.Apply(store.SetLoading{Value: false})

	if err := s.auth.SignOut(ctx); err != nil {
		return s.fail("sign out", "Could not sign out", err)
	}
	return nil
}

func (s *SessionService) RequestPasswordReset(ctx context.Context, email string) error {
	s.store.Apply(store.SetLoading{Value: true})
	s.store.Apply(store.ClearError{})
	defer s.store.Apply(store.SetLoading{Value: false})

	if err := s.auth.SendPasswordReset(ctx, email); err != nil {
		return s.fail("password reset", resetMessage(err), err)
	}
	return nil
}

// ClearError empties the shared error slot; consumers call it after showing
// the message.
func (s *SessionService) ClearError() {
	s.store.Apply(store.ClearError{})
}

func (s *SessionService) fail(action, msg string, cause error) error {
	s.store.Apply(store.SetError{Message: msg})
	s.log.Warn(action+" failed", zap.Error(cause))
	return backend.Wrap(backend.KindOf(cause), msg, cause)
}

func signInMessage(err error) string {
	switch backend.KindOf(err) {
	case backend.KindUserNotFound:
		return "No account exists for this email address"
	case backend.KindInvalidCredentials:
		return "Incorrect password"
	case backend.KindInvalidEmail:
		return "The email address is not valid"
	case backend.KindRateLimited:
		return "Too many failed attempts. Try again later"
	default:
		return err.Error()
	}
}

func registerMessage(err error) string {
	switch backend.KindOf(err) {
	case backend.KindEmailInUse:
		return "This email address is already registered"
	case backend.KindInvalidEmail:
		return "The email address is not valid"
	case backend.KindWeakPassword:
		return "The password is too weak"
	default:
		return err.Error()
	}
}

func resetMessage(err error) string {
	switch backend.KindOf(err) {
	case backend.KindUserNotFound:
		return "No account exists for this email address"
	case backend.KindInvalidEmail:
		return "The email address is not valid"
	default:
		return err.Error()
	}
}
