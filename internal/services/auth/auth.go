// Package auth provides operator authentication for the API
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/findosh/stockpulse/internal/models"
	"github.com/findosh/stockpulse/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid password")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidToken       = errors.New("invalid token")
	ErrDisabled           = errors.New("authentication is not configured")
)

// Subject is the only principal; the service has a single operator
const Subject = "operator"

// Config holds auth settings
type Config struct {
	SecretKey       string
	PasswordHash    string
	SessionDuration time.Duration
}

// Service handles authentication operations
type Service struct {
	cfg         Config
	sessionRepo *storage.SessionRepository
	now         func() time.Time
}

// NewService creates a new auth service. sessionRepo may be nil, in which
// case tokens cannot be revoked before they expire.
func NewService(cfg Config, sessionRepo *storage.SessionRepository) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = 24 * time.Hour
	}
	return &Service{
		cfg:         cfg,
		sessionRepo: sessionRepo,
		now:         time.Now,
	}
}

// Enabled reports whether a password is configured
func (s *Service) Enabled() bool {
	return s.cfg.PasswordHash != ""
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// Login checks the operator password and issues a session token
func (s *Service) Login(password string) (*LoginResult, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	expires := now.Add(s.cfg.SessionDuration)
	jti := generateJTI()

	token, err := s.createToken(jti, now, expires)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	if s.sessionRepo != nil {
		session := &models.Session{
			ID:        jti,
			Subject:   Subject,
			ExpiresAt: expires,
			CreatedAt: now,
		}
		if err := s.sessionRepo.Create(session); err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}
	}

	return &LoginResult{Token: token, Expires: expires}, nil
}

// ValidateToken verifies a JWT token and returns its token id
func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SecretKey), nil
	}, jwt.WithTimeFunc(s.now))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return "", ErrSessionExpired
	}
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	if sub, _ := claims["sub"].(string); sub != Subject {
		return "", ErrInvalidToken
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return "", ErrInvalidToken
	}

	if s.sessionRepo != nil {
		session, err := s.sessionRepo.GetByID(jti)
		if err != nil || session == nil {
			return "", ErrInvalidToken
		}
	}

	return jti, nil
}

// Logout revokes the session behind a token id
func (s *Service) Logout(jti string) error {
	if s.sessionRepo == nil {
		return nil
	}
	return s.sessionRepo.Delete(jti)
}

// CleanupExpiredSessions removes expired sessions from the database
func (s *Service) CleanupExpiredSessions() error {
	if s.sessionRepo == nil {
		return nil
	}
	return s.sessionRepo.DeleteExpired()
}

// HashPassword produces a bcrypt hash for auth.password_hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *Service) createToken(jti string, issued, expires time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": Subject,
		"exp": expires.Unix(),
		"iat": issued.Unix(),
		"jti": jti,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.SecretKey))
}

func generateJTI() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
