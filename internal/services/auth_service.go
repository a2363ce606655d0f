package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/mail"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dnicola11/repuestos/internal/backend"
	"github.com/Dnicola11/repuestos/internal/caching"
	"github.com/Dnicola11/repuestos/internal/models"
	"github.com/Dnicola11/repuestos/internal/repositories"
)

const (
	minPasswordLength   = 6
	signInAttemptLimit  = 5
	signInAttemptWindow = 15 * time.Minute
	resetTokenTTL       = time.Hour
)

// SessionCallback receives the current user, or nil when the session ended.
type SessionCallback func(user *models.User)

// AuthService is the authentication adapter: credential storage in the
// document database, HS256 session tokens, and session-change notifications.
// The subscription is the only channel through which the client core learns
// about the session; sign-in and sign-out merely trigger the change.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) error
	CreateAccount(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	SendPasswordReset(ctx context.Context, email string) error

	// Subscribe registers a session observer. The callback fires immediately
	// with the current user (or nil), then again on every session change.
	Subscribe(cb SessionCallback)

	CurrentUser() *models.User
	// SessionToken returns the active session's bearer token, or "".
	SessionToken() string
	ValidateToken(ctx context.Context, token string) (*models.User, error)
}

type authService struct {
	users    repositories.UserRepository
	cache    caching.SessionCache
	log      *zap.Logger
	secret   []byte
	tokenTTL time.Duration

	mu        sync.Mutex
	current   *models.User
	token     string
	sessionID string
	subs      []SessionCallback
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func NewAuthService(users repositories.UserRepository, cache caching.SessionCache, log *zap.Logger, jwtSecret string, tokenTTL time.Duration) AuthService {
	return &authService{
		users:    users,
		cache:    cache,
		log:      log,
		secret:   []byte(jwtSecret),
		tokenTTL: tokenTTL,
	}
}

func (s *authService) SignIn(ctx context.Context, email, password string) error {
	const op = "services.auth.SignIn"

	if _, err := mail.ParseAddress(email); err != nil {
		return backend.Wrap(backend.KindInvalidEmail, fmt.Sprintf("%s: malformed email", op), err)
	}

	limited, err := s.cache.IsRateLimited(ctx, signInFailureKey(email), signInAttemptLimit)
	if err != nil {
		// A broken rate limiter must not lock everyone out.
		s.log.Warn("rate limit check failed", zap.Error(err))
	} else if limited {
		return backend.New(backend.KindRateLimited, fmt.Sprintf("%s: too many failed attempts", op))
	}

	account, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if backend.KindOf(err) == backend.KindNotFound {
			s.recordSignInFailure(ctx, email)
			return backend.Wrap(backend.KindUserNotFound, fmt.Sprintf("%s: no account for email", op), err)
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		s.recordSignInFailure(ctx, email)
		return backend.Wrap(backend.KindInvalidCredentials, fmt.Sprintf("%s: wrong password", op), err)
	}

	// Successful authentication forgives earlier failures; only consecutive
	// failures within the window count toward the limit.
	if err := s.cache.ResetFailures(ctx, signInFailureKey(email)); err != nil {
		s.log.Warn("failure counter reset failed", zap.Error(err))
	}

	return s.openSession(ctx, account)
}

func signInFailureKey(email string) string {
	return "signin:" + email
}

// recordSignInFailure is best-effort: a broken counter weakens the limiter
// but never turns a credential error into something else.
func (s *authService) recordSignInFailure(ctx context.Context, email string) {
	if err := s.cache.RecordFailure(ctx, signInFailureKey(email), signInAttemptWindow); err != nil {
		s.log.Warn("failure counter update failed", zap.Error(err))
	}
}

func (s *authService) CreateAccount(ctx context.Context, email, password string) error {
	const op = "services.auth.CreateAccount"

	if _, err := mail.ParseAddress(email); err != nil {
		return backend.Wrap(backend.KindInvalidEmail, fmt.Sprintf("%s: malformed email", op), err)
	}
	if len(password) < minPasswordLength {
		return backend.New(backend.KindWeakPassword, fmt.Sprintf("%s: password shorter than %d characters", op, minPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return backend.Wrap(backend.KindUnknown, fmt.Sprintf("%s: hash password", op), err)
	}

	account := models.Account{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	id, err := s.users.Insert(ctx, account)
	if err != nil {
		// The unique email index surfaces duplicates as KindEmailInUse.
		return err
	}
	account.ID = id

	// Registration opens a session, matching the managed-auth behavior the
	// mobile client was built against.
	return s.openSession(ctx, &account)
}

func (s *authService) SignOut(ctx context.Context) error {
	const op = "services.auth.SignOut"

	s.mu.Lock()
	sessionID := s.sessionID
	s.mu.Unlock()

	if sessionID != "" {
		if err := s.cache.Delete(ctx, "session:"+sessionID); err != nil {
			return backend.Wrap(backend.KindUnknown, fmt.Sprintf("%s: revoke session", op), err)
		}
	}

	s.setSession(nil, "", "")
	return nil
}

func (s *authService) SendPasswordReset(ctx context.Context, email string) error {
	const op = "services.auth.SendPasswordReset"

	if _, err := mail.ParseAddress(email); err != nil {
		return backend.Wrap(backend.KindInvalidEmail, fmt.Sprintf("%s: malformed email", op), err)
	}

	account, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if backend.KindOf(err) == backend.KindNotFound {
			return backend.Wrap(backend.KindUserNotFound, fmt.Sprintf("%s: no account for email", op), err)
		}
		return err
	}

	token := secureToken()
	if err := s.cache.SetString(ctx, "reset:"+hashToken(token), account.ID, resetTokenTTL); err != nil {
		return backend.Wrap(backend.KindUnavailable, fmt.Sprintf("%s: store reset token", op), err)
	}

	// Delivery belongs to the mail provider; the token is ready for it.
	s.log.Info("password reset token issued", zap.String("email", email))
	return nil
}

func (s *authService) Subscribe(cb SessionCallback) {
	s.mu.Lock()
	s.subs = append(s.subs, cb)
	current := cloneUser(s.current)
	s.mu.Unlock()

	// Fire at least once so subscribers start from the actual session state.
	cb(current)
}

func (s *authService) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneUser(s.current)
}

func (s *authService) SessionToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	const op = "services.auth.ValidateToken"

	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, backend.Wrap(backend.KindUnauthenticated, fmt.Sprintf("%s: invalid token", op), err)
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok {
		return nil, backend.New(backend.KindUnauthenticated, fmt.Sprintf("%s: invalid claims", op))
	}

	// The session must still be live server-side.
	userID, err := s.cache.GetString(ctx, "session:"+claims.ID)
	if err != nil {
		return nil, backend.Wrap(backend.KindUnavailable, fmt.Sprintf("%s: session lookup", op), err)
	}
	if userID == "" {
		return nil, backend.New(backend.KindUnauthenticated, fmt.Sprintf("%s: session revoked or expired", op))
	}

	return &models.User{ID: claims.Subject, Email: claims.Email}, nil
}

func (s *authService) openSession(ctx context.Context, account *models.Account) error {
	const op = "services.auth.openSession"

	now := time.Now()
	sessionID := uuid.NewString()
	claims := sessionClaims{
		Email: account.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "repuestos-auth",
			Subject:   account.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        sessionID,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return backend.Wrap(backend.KindUnknown, fmt.Sprintf("%s: sign token", op), err)
	}

	if err := s.cache.SetString(ctx, "session:"+sessionID, account.ID, s.tokenTTL); err != nil {
		return backend.Wrap(backend.KindUnavailable, fmt.Sprintf("%s: store session", op), err)
	}

	user := account.User()
	s.setSession(&user, token, sessionID)
	return nil
}

// setSession swaps the in-memory session and notifies every subscriber.
func (s *authService) setSession(user *models.User, token, sessionID string) {
	s.mu.Lock()
	s.current = user
	s.token = token
	s.sessionID = sessionID
	subs := make([]SessionCallback, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, cb := range subs {
		cb(cloneUser(user))
	}
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// secureToken generates a cryptographically secure random token.
func secureToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return base64.URLEncoding.EncodeToString(bytes)
}

// hashToken creates a SHA-256 hash of the token for storage.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
