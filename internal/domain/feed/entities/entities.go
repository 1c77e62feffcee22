// Package entities contains domain entities
package entities

import (
	"time"

	"github.com/google/uuid"
)

// User represents a Telegram user building a personal feed
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TelegramID string    `gorm:"not null;uniqueIndex"`
	Username   string
	CreatedAt  time.Time `gorm:"autoCreateTime"`

	Subscriptions []Subscription `gorm:"constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// Channel represents a Telegram channel referenced by at least one user.
// TelegramID is the stable platform identity; Username is a mutable public
// handle and must not be used as a key.
type Channel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TelegramID string    `gorm:"not null;uniqueIndex"`
	Username   string
	Title      string `gorm:"not null"`
	// LastMessageID is maintained by the fetcher side, not by this service
	LastMessageID string
	CreatedAt     time.Time `gorm:"autoCreateTime"`

	Subscriptions []Subscription `gorm:"constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Channel
func (Channel) TableName() string {
	return "channels"
}

// Subscription links a user to a channel, unique per pair
type Subscription struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_user_channel,unique"`
	ChannelID uuid.UUID `gorm:"type:uuid;not null;index:idx_user_channel,unique"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Channel Channel `gorm:"foreignKey:ChannelID"`
}

// TableName returns the table name for Subscription
func (Subscription) TableName() string {
	return "subscriptions"
}
