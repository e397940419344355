package auth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken      = errors.New("no session token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are the JWT claims carried by a storefront session token. The
// client does not hold the signing secret, so claims are decoded without
// verification and used for display decisions only (expiry, admin menus);
// the service remains the authority on every request.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Session owns the single opaque auth token the client is allowed to
// persist. It is injected into the API client at construction; there is no
// ambient token singleton.
type Session struct {
	mu        sync.RWMutex
	token     string
	tokenFile string
}

// NewSession creates a session. If tokenFile is non-empty and exists, the
// stored token is loaded.
func NewSession(tokenFile string) *Session {
	s := &Session{tokenFile: tokenFile}
	if tokenFile != "" {
		if data, err := os.ReadFile(tokenFile); err == nil {
			s.token = strings.TrimSpace(string(data))
		}
	}
	return s
}

// Token returns the current token, or the empty string when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken stores a freshly issued token and persists it when a token file
// is configured.
func (s *Session) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if s.tokenFile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.tokenFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.tokenFile, []byte(token), 0o600)
}

// Clear forgets the token and removes the persisted copy.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	if s.tokenFile == "" {
		return nil
	}
	if err := os.Remove(s.tokenFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Claims decodes the token claims without signature verification.
func (s *Session) Claims() (*Claims, error) {
	token := s.Token()
	if token == "" {
		return nil, ErrNoToken
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IsAdmin reports whether the token carries the admin role.
func (s *Session) IsAdmin() bool {
	claims, err := s.Claims()
	if err != nil {
		return false
	}
	return claims.Role == "admin"
}

// Expired reports whether the token has an expiry in the past. A token
// without expiry is treated as live; the service rejects it if not.
func (s *Session) Expired() bool {
	claims, err := s.Claims()
	if err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}
