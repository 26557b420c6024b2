package auth

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/findosh/stockpulse/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return NewService(Config{
		SecretKey:       "test-secret",
		PasswordHash:    string(hash),
		SessionDuration: time.Hour,
	}, storage.NewSessionRepository(db))
}

func TestLoginAndValidate(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Login("wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}

	result, err := svc.Login("hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" || result.Expires.Before(time.Now()) {
		t.Errorf("Unexpected login result %+v", result)
	}

	jti, err := svc.ValidateToken(result.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if err := svc.Logout(jti); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.ValidateToken(result.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected revoked token to be invalid, got %v", err)
	}
}

func TestValidateToken_Errors(t *testing.T) {
	svc := newTestService(t)
	result, err := svc.Login("hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	other := NewService(Config{SecretKey: "other-secret", PasswordHash: "x"}, nil)
	if _, err := other.ValidateToken(result.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for wrong key, got %v", err)
	}

	if _, err := svc.ValidateToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.ValidateToken(result.Token); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Expected ErrSessionExpired, got %v", err)
	}
}

func TestDisabled(t *testing.T) {
	svc := NewService(Config{SecretKey: "k"}, nil)

	if svc.Enabled() {
		t.Error("Expected auth to be disabled without a password hash")
	}
	if _, err := svc.Login("anything"); !errors.Is(err, ErrDisabled) {
		t.Errorf("Expected ErrDisabled, got %v", err)
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")) != nil {
		t.Error("Expected hash to match password")
	}
	if _, err := HashPassword(""); err == nil {
		t.Error("Expected error for empty password")
	}
}
