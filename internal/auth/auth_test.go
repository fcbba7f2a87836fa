package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"taskcade/internal/engine"
	"taskcade/internal/storage"
)

var fixedNow = time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "auth.db")
	kv, err := storage.Open(context.Background(), storage.BackendBolt, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return NewService(kv, nil, WithCost(bcrypt.MinCost), WithClock(func() time.Time { return fixedNow }))
}

func validSignup() SignupInput {
	return SignupInput{Username: "player1", Email: "p1@example.com", Password: "secret1", Confirm: "secret1"}
}

func TestSignupSignsIn(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if s.IsSignedIn(ctx) {
		t.Fatalf("signed in before signup")
	}
	cu, err := s.Signup(ctx, validSignup())
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if cu.Username != "player1" || cu.Email != "p1@example.com" || !cu.LoginTime.Equal(fixedNow) {
		t.Fatalf("current=%+v", cu)
	}
	if !s.IsSignedIn(ctx) {
		t.Fatalf("not signed in after signup")
	}

	users, err := s.users.Users(ctx)
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if users["player1"].Password == "secret1" {
		t.Fatalf("password stored in clear text")
	}
}

func TestSignupValidation(t *testing.T) {
	cases := map[string]func(in *SignupInput){
		"empty field":    func(in *SignupInput) { in.Email = "" },
		"short username": func(in *SignupInput) { in.Username = "ab" },
		"long username":  func(in *SignupInput) { in.Username = "abcdefghijklmnopqrstu" },
		"symbols":        func(in *SignupInput) { in.Username = "bad_name" },
		"short password": func(in *SignupInput) { in.Password, in.Confirm = "12345", "12345" },
		"mismatch":       func(in *SignupInput) { in.Confirm = "secret2" },
	}
	for name, mutate := range cases {
		s := newTestService(t)
		in := validSignup()
		mutate(&in)
		_, err := s.Signup(context.Background(), in)
		var verr engine.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: err=%v, want ValidationError", name, err)
		}
		if s.IsSignedIn(context.Background()) {
			t.Fatalf("%s: signed in after rejected signup", name)
		}
	}
}

func TestSignupRejectsDuplicates(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	if _, err := s.Signup(ctx, validSignup()); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	var verr engine.ValidationError
	if _, err := s.Signup(ctx, validSignup()); !errors.As(err, &verr) || verr.Field != "username" {
		t.Fatalf("duplicate username err=%v", err)
	}
	in := validSignup()
	in.Username = "player2"
	in.Email = "P1@example.com"
	if _, err := s.Signup(ctx, in); !errors.As(err, &verr) || verr.Field != "email" {
		t.Fatalf("duplicate email err=%v", err)
	}
}

func TestSigninAndSignOut(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	if _, err := s.Signup(ctx, validSignup()); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if err := s.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if s.IsSignedIn(ctx) {
		t.Fatalf("signed in after sign out")
	}

	if _, err := s.Signin(ctx, "player1", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err=%v, want ErrInvalidCredentials", err)
	}
	if _, err := s.Signin(ctx, "nobody", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err=%v, want ErrInvalidCredentials", err)
	}
	cu, err := s.Signin(ctx, " player1 ", "secret1")
	if err != nil {
		t.Fatalf("Signin: %v", err)
	}
	if cu.Email != "p1@example.com" {
		t.Fatalf("email=%q", cu.Email)
	}
	cur, err := s.Current(ctx)
	if err != nil || cur == nil || cur.Username != "player1" {
		t.Fatalf("Current=%+v,%v", cur, err)
	}
}
