// Package tokenstore implements the server side of the app-token protocol
// for the development backend: secret generation, digest storage and the
// create/list/delete operations the panel client talks to.
package tokenstore

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/mschlachter/ocis-app-tokens/internal/expiry"
	"github.com/mschlachter/ocis-app-tokens/internal/models"
)

// ErrInvalidExpiry marks a create request with a malformed wire duration.
var ErrInvalidExpiry = errors.New("invalid expiry parameter")

// Service is the app-token business logic layer.
type Service struct {
	repo *Repository
	now  func() time.Time
}

// NewService creates a Service instance.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// GenerateSecret produces a new plaintext token secret.
func GenerateSecret() (string, error) {
	bytes := make([]byte, 24)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// DigestSecret derives the stored token value from a plaintext secret. Only
// the digest is persisted; listings show it and deletes address it.
func DigestSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// Create issues a new token. expiryStr is the wire duration ("72h", "30m");
// label falls back to the fixed backend label when empty. The returned token
// carries the plaintext secret, which is never stored or shown again.
func (s *Service) Create(expiryStr, label string) (*models.AppToken, error) {
	duration, err := expiry.ParseExpiryString(expiryStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpiry, err)
	}

	if label == "" {
		label = models.DefaultLabel
	}

	var secret string
	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		secret, err = GenerateSecret()
		if err != nil {
			return nil, err
		}

		exists, err := s.repo.CheckValueExists(DigestSecret(secret))
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
		if i == maxRetries-1 {
			return nil, ErrTokenValueExists
		}
	}

	now := s.now().UTC()
	record := models.AppToken{
		Token:          DigestSecret(secret),
		Label:          label,
		CreatedDate:    now.Truncate(time.Second),
		ExpirationDate: now.Add(duration),
	}
	if err := s.repo.Create(&record); err != nil {
		return nil, err
	}

	created := record
	created.Token = secret
	return &created, nil
}

// List returns all stored tokens in creation order, digest form.
func (s *Service) List() ([]models.AppToken, error) {
	return s.repo.FindAll()
}

// Delete revokes the token identified by its stored value.
func (s *Service) Delete(value string) error {
	return s.repo.DeleteByValue(value)
}
