package models

import "time"

// DefaultLabel is assigned by the backend when no custom label is provided.
const DefaultLabel = "Generated via API"

// AppToken is one issued credential as it appears on the wire.
// Listings carry the stored digest in Token; the plaintext secret is
// returned exactly once, in the create response.
type AppToken struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	Token          string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"token"`
	Label          string    `gorm:"type:varchar(100);not null" json:"label"`
	ExpirationDate time.Time `json:"expiration_date"`
	CreatedDate    time.Time `json:"created_date"`
}

// TableName sets the table used by the development backend.
func (AppToken) TableName() string {
	return "app_tokens"
}
