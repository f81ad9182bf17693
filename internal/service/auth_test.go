package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sakif/training-journal/internal/apperror"
	"github.com/sakif/training-journal/internal/auth"
)

// =========================================================================
// Register TESTS
// =========================================================================

func TestRegister_NewUser(t *testing.T) {
	store := newFakeStore()
	svc := newTestAuthService(t, store)

	result, err := svc.Register(context.Background(), Credentials{
		Email:    "  Runner@Example.COM ",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if result.User == nil {
		t.Fatal("Register() returned nil User")
	}
	if result.Token == "" {
		t.Fatal("Register() returned empty Token")
	}
	if result.User.Email != "runner@example.com" {
		t.Errorf("User.Email = %q, want trimmed lower-case %q", result.User.Email, "runner@example.com")
	}
	if result.User.PasswordHash == "" || result.User.PasswordHash == "hunter22" {
		t.Error("password should be stored as a bcrypt hash")
	}
	if len(store.users) != 1 {
		t.Errorf("store has %d users, want 1", len(store.users))
	}
}

func TestRegister_TokenEncodesUserID(t *testing.T) {
	store := newFakeStore()
	svc := newTestAuthService(t, store)

	result, err := svc.Register(context.Background(), Credentials{Email: "a@b.io", Password: "secret"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, err := svc.tokens.Validate(result.Token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got != result.User.ID {
		t.Errorf("token subject = %q, want %q", got, result.User.ID)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := newFakeStore()
	svc := newTestAuthService(t, store)
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Email: "dup@example.com", Password: "first"}); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	// Differs only in case and whitespace; normalization makes it a duplicate.
	_, err := svc.Register(ctx, Credentials{Email: " DUP@example.com", Password: "second"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Register() error = %v, want ErrConflict", err)
	}
	wantAppError(t, err, apperror.CodeUserExists, "")
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name  string
		in    Credentials
		field string
	}{
		{"missing email", Credentials{Password: "pw"}, "email"},
		{"blank email", Credentials{Email: "   ", Password: "pw"}, "email"},
		{"malformed email", Credentials{Email: "not-an-email", Password: "pw"}, "email"},
		{"missing password", Credentials{Email: "a@b.io"}, "password"},
		{"password too long", Credentials{Email: "a@b.io", Password: strings.Repeat("x", 73)}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			svc := newTestAuthService(t, store)

			_, err := svc.Register(context.Background(), tt.in)
			wantAppError(t, err, apperror.CodeValidation, tt.field)
			if len(store.users) != 0 {
				t.Error("no user should be stored on validation failure")
			}
		})
	}
}

func TestRegister_RepositoryError(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("disk full")
	svc := newTestAuthService(t, store)

	_, err := svc.Register(context.Background(), Credentials{Email: "a@b.io", Password: "pw"})
	if err == nil {
		t.Fatal("Register() should fail when the repository fails")
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		t.Errorf("a database failure should not be an AppError, got code %q", appErr.Code)
	}
}

// =========================================================================
// Login TESTS
// =========================================================================

func TestLogin_Success(t *testing.T) {
	store := newFakeStore()
	svc := newTestAuthService(t, store)
	ctx := context.Background()

	reg, err := svc.Register(ctx, Credentials{Email: "me@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	result, err := svc.Login(ctx, Credentials{Email: "ME@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.User.ID != reg.User.ID {
		t.Errorf("Login() user = %q, want %q", result.User.ID, reg.User.ID)
	}
	if result.Token == "" {
		t.Error("Login() returned empty Token")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	store := newFakeStore()
	svc := newTestAuthService(t, store)
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Email: "me@example.com", Password: "right"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name string
		in   Credentials
	}{
		{"wrong password", Credentials{Email: "me@example.com", Password: "wrong"}},
		{"unknown email", Credentials{Email: "nobody@example.com", Password: "right"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.in)
			if !errors.Is(err, apperror.ErrUnauthorized) {
				t.Fatalf("Login() error = %v, want ErrUnauthorized", err)
			}
			wantAppError(t, err, apperror.CodeInvalidCredentials, "")
		})
	}
}

func TestLogin_MissingFields(t *testing.T) {
	svc := newTestAuthService(t, newFakeStore())

	_, err := svc.Login(context.Background(), Credentials{Email: "me@example.com"})
	wantAppError(t, err, apperror.CodeValidation, "password")
}

// =========================================================================
// GetUserByID TESTS
// =========================================================================

func TestGetUserByID(t *testing.T) {
	store := newFakeStore()
	svc := newTestAuthService(t, store)
	ctx := context.Background()

	reg, err := svc.Register(ctx, Credentials{Email: "me@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, err := svc.GetUserByID(ctx, reg.User.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if user.Email != "me@example.com" {
		t.Errorf("Email = %q", user.Email)
	}

	if _, err := svc.GetUserByID(ctx, "missing"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetUserByID(ctx, ""); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("GetUserByID(\"\") error = %v, want ErrUnauthorized", err)
	}
}

func TestPasswordLimitMatchesBcrypt(t *testing.T) {
	// The struct tag and the hasher must agree, or a 72-rune multi-byte
	// password would pass validation and then fail hashing.
	if auth.MaxPasswordBytes != 72 {
		t.Fatalf("MaxPasswordBytes = %d, Credentials tag assumes 72", auth.MaxPasswordBytes)
	}

	svc := newTestAuthService(t, newFakeStore())
	_, err := svc.Register(context.Background(), Credentials{
		Email:    "multi@example.com",
		Password: strings.Repeat("é", 40), // 40 runes, 80 bytes
	})
	wantAppError(t, err, apperror.CodeValidation, "password")
}
