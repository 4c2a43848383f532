package app

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"docquery/internal/pkg/jwtutil"
)

// AuthService issues admin access tokens for the mutating endpoints. There
// is a single shared credential; its bcrypt hash lives in configuration.
type AuthService struct {
	adminPasswordHash string
	jwtSecret         string
	jwtExpiration     time.Duration
}

func NewAuthService(adminPasswordHash, jwtSecret string, jwtExpiration time.Duration) *AuthService {
	return &AuthService{
		adminPasswordHash: adminPasswordHash,
		jwtSecret:         jwtSecret,
		jwtExpiration:     jwtExpiration,
	}
}

func (s *AuthService) IssueToken(password string) (string, error) {
	password = strings.TrimSpace(password)
	if password == "" || s.adminPasswordHash == "" {
		return "", ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.adminPasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredential
	}
	return jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, "admin")
}

// HashPassword produces a bcrypt hash suitable for the config file. Used
// by cmd/token.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
