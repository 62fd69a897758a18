package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/casalabia/realtor-backend/internal/config"
	"github.com/casalabia/realtor-backend/internal/logger"
	"github.com/casalabia/realtor-backend/internal/repos"
	"github.com/casalabia/realtor-backend/internal/types"
)

// SessionService owns the lifetime of the opaque cookie sessions: a sliding
// idle window renewed on every authenticated request, capped by an absolute
// lifetime counted from creation.
type SessionService interface {
	Issue(ctx context.Context, userID uuid.UUID, ip, userAgent string) (*types.Session, error)
	Validate(ctx context.Context, sessionID uuid.UUID) (*types.Session, error)
	Revoke(ctx context.Context, sessionID uuid.UUID) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
}

type sessionService struct {
	log  *logger.Logger
	repo repos.SessionRepo
	cfg  config.SessionConfig
}

func NewSessionService(repo repos.SessionRepo, cfg config.SessionConfig, baseLog *logger.Logger) SessionService {
	return &sessionService{
		log:  baseLog.With("service", "SessionService"),
		repo: repo,
		cfg:  cfg,
	}
}

func (ss *sessionService) Issue(ctx context.Context, userID uuid.UUID, ip, userAgent string) (*types.Session, error) {
	now := time.Now()
	session := &types.Session{
		ID:             uuid.New(),
		UserID:         userID,
		ExpiresAt:      ss.capExpiry(now, now),
		LastActivityAt: now,
		IPHash:         fingerprint(ss.cfg.IPSalt, ip),
		UAHash:         fingerprint(ss.cfg.UASalt, userAgent),
		CreatedAt:      now,
	}
	created, err := ss.repo.Create(ctx, nil, session)
	if err != nil {
		return nil, err
	}
	ss.log.Info("Session issued", "session_id", created.ID, "user_id", userID, "expires_at", created.ExpiresAt)
	return created, nil
}

// Validate loads an active session and renews its idle window. A session
// past its absolute lifetime is revoked on the spot even if the idle window
// would still admit it.
func (ss *sessionService) Validate(ctx context.Context, sessionID uuid.UUID) (*types.Session, error) {
	session, err := ss.repo.GetActiveByID(ctx, nil, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	now := time.Now()
	if now.After(session.CreatedAt.Add(ss.cfg.AbsoluteTTL)) {
		ss.log.Info("Session past absolute lifetime - revoking", "session_id", session.ID)
		if err := ss.repo.Revoke(ctx, nil, session.ID); err != nil {
			ss.log.Error("Failed to revoke exhausted session", "session_id", session.ID, "error", err)
		}
		return nil, nil
	}

	newExpiry := ss.capExpiry(now, session.CreatedAt)
	if err := ss.repo.Touch(ctx, nil, session.ID, now, newExpiry); err != nil {
		ss.log.Error("Failed to renew session", "session_id", session.ID, "error", err)
		return session, nil
	}
	session.LastActivityAt = now
	session.ExpiresAt = newExpiry
	return session, nil
}

func (ss *sessionService) Revoke(ctx context.Context, sessionID uuid.UUID) error {
	return ss.repo.Revoke(ctx, nil, sessionID)
}

func (ss *sessionService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return ss.repo.RevokeAllForUser(ctx, nil, userID)
}

// capExpiry returns now+idle, clipped to createdAt+absolute.
func (ss *sessionService) capExpiry(now, createdAt time.Time) time.Time {
	expiry := now.Add(ss.cfg.IdleTTL)
	if limit := createdAt.Add(ss.cfg.AbsoluteTTL); expiry.After(limit) {
		return limit
	}
	return expiry
}

// fingerprint stores a salted hash rather than the raw IP or user agent.
func fingerprint(salt, value string) string {
	if value == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(salt + ":" + value))
	return hex.EncodeToString(sum[:])
}
