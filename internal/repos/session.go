package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casalabia/realtor-backend/internal/logger"
	"github.com/casalabia/realtor-backend/internal/types"
)

type SessionStats struct {
	Total   int64
	Active  int64
	Expired int64
}

type SessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, session *types.Session) (*types.Session, error)
	GetByID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.Session, error)
	GetActiveByID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.Session, error)
	Touch(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, lastActivityAt, expiresAt time.Time) error
	Revoke(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) error
	RevokeAllForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, tx *gorm.DB) (int64, error)
	Stats(ctx context.Context, tx *gorm.DB) (SessionStats, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (sr *sessionRepo) Create(ctx context.Context, tx *gorm.DB, session *types.Session) (*types.Session, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if err := transaction.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (sr *sessionRepo) GetByID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.Session, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var session types.Session
	if err := transaction.WithContext(ctx).
		Where("id = ?", sessionID).
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (sr *sessionRepo) GetActiveByID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.Session, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var session types.Session
	if err := transaction.WithContext(ctx).
		Where("id = ? AND revoked_at IS NULL AND expires_at > ?", sessionID, time.Now()).
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (sr *sessionRepo) Touch(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, lastActivityAt, expiresAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Session{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"last_activity_at": lastActivityAt,
			"expires_at":       expiresAt,
		}).Error
}

func (sr *sessionRepo) Revoke(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Session{}).
		Where("id = ?", sessionID).
		Update("revoked_at", time.Now()).Error
}

func (sr *sessionRepo) RevokeAllForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Session{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now()).Error
}

func (sr *sessionRepo) DeleteExpired(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	res := transaction.WithContext(ctx).
		Where("expires_at < ? OR revoked_at IS NOT NULL", time.Now()).
		Delete(&types.Session{})
	return res.RowsAffected, res.Error
}

func (sr *sessionRepo) Stats(ctx context.Context, tx *gorm.DB) (SessionStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var stats SessionStats
	now := time.Now()

	if err := transaction.WithContext(ctx).
		Model(&types.Session{}).
		Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Session{}).
		Where("revoked_at IS NULL AND expires_at > ?", now).
		Count(&stats.Active).Error; err != nil {
		return stats, err
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Session{}).
		Where("expires_at < ? OR revoked_at IS NOT NULL", now).
		Count(&stats.Expired).Error; err != nil {
		return stats, err
	}
	return stats, nil
}
