package types

import (
	"time"

	"github.com/google/uuid"
)

// Session is the server-side record behind the "sid" cookie. The cookie
// value is the session ID itself; nothing is signed or derived from it.
type Session struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	ExpiresAt      time.Time  `gorm:"not null;index" json:"expires_at"`
	LastActivityAt time.Time  `gorm:"not null" json:"last_activity_at"`
	RevokedAt      *time.Time `gorm:"column:revoked_at" json:"revoked_at,omitempty"`
	IPHash         string     `gorm:"column:ip_hash" json:"-"`
	UAHash         string     `gorm:"column:ua_hash" json:"-"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
}

func (Session) TableName() string {
	return "session"
}
