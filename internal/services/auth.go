package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/casalabia/realtor-backend/internal/logger"
	"github.com/casalabia/realtor-backend/internal/repos"
	"github.com/casalabia/realtor-backend/internal/types"
)

const minPasswordLength = 8

type AuthService interface {
	Register(ctx context.Context, email, password string) (*types.User, error)
	Login(ctx context.Context, email, password, ip, userAgent string) (*types.User, *types.Session, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
	LogoutAll(ctx context.Context, userID uuid.UUID) error
	Me(ctx context.Context, userID uuid.UUID) (*types.User, error)
}

type authService struct {
	log      *logger.Logger
	users    repos.UserRepo
	sessions SessionService
}

func NewAuthService(users repos.UserRepo, sessions SessionService, baseLog *logger.Logger) AuthService {
	return &authService{
		log:      baseLog.With("service", "AuthService"),
		users:    users,
		sessions: sessions,
	}
}

func (as *authService) Register(ctx context.Context, email, password string) (*types.User, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	exists, err := as.users.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := as.users.Create(ctx, nil, &types.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Status:       types.UserStatusActive,
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("User registered", "user_id", user.ID)
	return user, nil
}

// Login deliberately answers unknown-email and wrong-password identically.
func (as *authService) Login(ctx context.Context, email, password, ip, userAgent string) (*types.User, *types.Session, error) {
	user, err := as.users.GetByEmail(ctx, nil, normalizeEmail(email))
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if user.Status == types.UserStatusBlocked {
		return nil, nil, ErrUserBlocked
	}

	session, err := as.sessions.Issue(ctx, user.ID, ip, userAgent)
	if err != nil {
		return nil, nil, err
	}
	as.log.Info("User logged in", "user_id", user.ID, "session_id", session.ID)
	return user, session, nil
}

func (as *authService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return as.sessions.Revoke(ctx, sessionID)
}

func (as *authService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	as.log.Info("Revoking all sessions", "user_id", userID)
	return as.sessions.RevokeAllForUser(ctx, userID)
}

func (as *authService) Me(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := as.users.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
