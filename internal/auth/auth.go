// Package auth keeps local TaskCade accounts and the signed-in session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"taskcade/internal/engine"
	"taskcade/internal/storage"
)

const (
	MinUsernameLen = 3
	MaxUsernameLen = 20
	MinPasswordLen = 6
)

// ErrInvalidCredentials is returned for any failed sign-in.
var ErrInvalidCredentials = errors.New("invalid username or password")

type SignupInput struct {
	Username string
	Email    string
	Password string
	Confirm  string
}

type Service struct {
	kv     storage.KV
	users  *storage.UserRepo
	logger *log.Logger
	now    func() time.Time
	cost   int
}

type Option func(*Service)

// WithClock overrides the time source used for createdAt and loginTime.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func NewService(kv storage.KV, logger *log.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Service{
		kv:     kv,
		users:  storage.NewUserRepo(kv, logger),
		logger: logger,
		now:    time.Now,
		cost:   bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup validates in, creates the account and signs it in.
func (s *Service) Signup(ctx context.Context, in SignupInput) (storage.CurrentUser, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if err := validateSignup(username, email, in.Password, in.Confirm); err != nil {
		return storage.CurrentUser{}, err
	}

	users, err := s.users.Users(ctx)
	if err != nil {
		return storage.CurrentUser{}, err
	}
	if _, taken := users[username]; taken {
		return storage.CurrentUser{}, engine.ValidationError{Field: "username", Message: "already exists, please choose a different one"}
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return storage.CurrentUser{}, engine.ValidationError{Field: "email", Message: "already registered, please use a different email"}
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return storage.CurrentUser{}, fmt.Errorf("hash password: %w", err)
	}
	now := s.now().UTC()
	users[username] = storage.User{Email: email, Password: string(hash), CreatedAt: now}
	cu := storage.CurrentUser{Username: username, Email: email, LoginTime: now}
	if err := s.users.CreateWithSession(ctx, users, cu); err != nil {
		return storage.CurrentUser{}, err
	}
	s.logger.Printf("account created: %s", username)
	return cu, nil
}

func validateSignup(username, email, password, confirm string) error {
	if username == "" || email == "" || password == "" || confirm == "" {
		return engine.ValidationError{Message: "please fill in all fields"}
	}
	if n := len([]rune(username)); n < MinUsernameLen || n > MaxUsernameLen {
		return engine.ValidationError{Field: "username", Message: fmt.Sprintf("must be between %d and %d characters", MinUsernameLen, MaxUsernameLen)}
	}
	for _, r := range username {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return engine.ValidationError{Field: "username", Message: "can only contain letters and numbers"}
		}
	}
	if !strings.Contains(email, "@") {
		return engine.ValidationError{Field: "email", Message: "must be a valid address"}
	}
	if len(password) < MinPasswordLen {
		return engine.ValidationError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", MinPasswordLen)}
	}
	if password != confirm {
		return engine.ValidationError{Field: "password", Message: "passwords do not match"}
	}
	return nil
}

// Signin checks the password and records a new session.
func (s *Service) Signin(ctx context.Context, username, password string) (storage.CurrentUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return storage.CurrentUser{}, engine.ValidationError{Message: "please fill in all fields"}
	}
	users, err := s.users.Users(ctx)
	if err != nil {
		return storage.CurrentUser{}, err
	}
	u, ok := users[username]
	if !ok {
		return storage.CurrentUser{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return storage.CurrentUser{}, ErrInvalidCredentials
	}
	cu := storage.CurrentUser{Username: username, Email: u.Email, LoginTime: s.now().UTC()}
	if err := s.users.SetCurrent(ctx, cu); err != nil {
		return storage.CurrentUser{}, err
	}
	s.logger.Printf("signed in: %s", username)
	return cu, nil
}

// Current returns the signed-in user or nil.
func (s *Service) Current(ctx context.Context) (*storage.CurrentUser, error) {
	return s.users.Current(ctx)
}

// IsSignedIn treats a storage failure as signed out.
func (s *Service) IsSignedIn(ctx context.Context) bool {
	cu, err := s.users.Current(ctx)
	if err != nil {
		s.logger.Printf("session check failed: %v", err)
		return false
	}
	return cu != nil
}

func (s *Service) SignOutWith(ctx context.Context, w storage.Writer) error {
	return s.users.ClearCurrentWith(ctx, w)
}

// SignOut clears only the session; the engine's Logout also resets progress.
func (s *Service) SignOut(ctx context.Context) error {
	return s.kv.Update(ctx, func(w storage.Writer) error {
		return s.SignOutWith(ctx, w)
	})
}
