package types

import (
	"time"

	"github.com/google/uuid"
)

type UserStatus string

const (
	UserStatusActive  UserStatus = "ACTIVE"
	UserStatusBlocked UserStatus = "BLOCKED"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	PasswordHash string     `gorm:"not null;column:password_hash" json:"-"`
	Status       UserStatus `gorm:"not null;default:ACTIVE;column:status" json:"status"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}
