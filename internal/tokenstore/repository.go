package tokenstore

import (
	"errors"

	"github.com/mschlachter/ocis-app-tokens/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrTokenNotFound is returned when no stored token matches.
	ErrTokenNotFound = errors.New("app token not found")
	// ErrTokenValueExists is returned on a digest collision.
	ErrTokenValueExists = errors.New("app token value already exists")
)

// Repository is the data access layer for stored app tokens.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a Repository instance.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a token record.
func (r *Repository) Create(token *models.AppToken) error {
	return r.db.Create(token).Error
}

// FindAll returns all tokens in creation order, matching the order the
// backend presents listings in.
func (r *Repository) FindAll() ([]models.AppToken, error) {
	var tokens []models.AppToken
	err := r.db.Order("created_date ASC, id ASC").Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// DeleteByValue removes the token whose stored value matches.
func (r *Repository) DeleteByValue(value string) error {
	result := r.db.Where("token = ?", value).Delete(&models.AppToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// CheckValueExists reports whether a stored token value is already taken.
func (r *Repository) CheckValueExists(value string) (bool, error) {
	var count int64
	err := r.db.Model(&models.AppToken{}).Where("token = ?", value).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
