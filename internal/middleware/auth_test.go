package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casalabia/realtor-backend/internal/config"
	"github.com/casalabia/realtor-backend/internal/logger"
	"github.com/casalabia/realtor-backend/internal/types"
)

type fakeSessionService struct {
	sessions map[uuid.UUID]*types.Session
}

func (f *fakeSessionService) Issue(ctx context.Context, userID uuid.UUID, ip, ua string) (*types.Session, error) {
	session := &types.Session{
		ID:        uuid.New(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}
	f.sessions[session.ID] = session
	return session, nil
}

func (f *fakeSessionService) Validate(ctx context.Context, sessionID uuid.UUID) (*types.Session, error) {
	return f.sessions[sessionID], nil
}

func (f *fakeSessionService) Revoke(ctx context.Context, sessionID uuid.UUID) error {
	delete(f.sessions, sessionID)
	return nil
}

func (f *fakeSessionService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	for id, s := range f.sessions {
		if s.UserID == userID {
			delete(f.sessions, id)
		}
	}
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*types.User
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error) {
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error) {
	return f.users[userID], nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	u, _ := f.GetByEmail(ctx, tx, email)
	return u != nil, nil
}

func authTestRouter(sessions *fakeSessionService, users *fakeUserRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.SessionConfig{CookieName: "sid"}
	am := NewAuthMiddleware(sessions, users, cfg, logger.NewNop())

	router := gin.New()
	router.GET("/protected", am.RequireAuth(), func(c *gin.Context) {
		userID, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return router
}

func activeUser(users *fakeUserRepo) *types.User {
	user := &types.User{ID: uuid.New(), Status: types.UserStatusActive}
	users.users[user.ID] = user
	return user
}

func TestRequireAuth(t *testing.T) {
	fake := &fakeSessionService{sessions: map[uuid.UUID]*types.Session{}}
	users := &fakeUserRepo{users: map[uuid.UUID]*types.User{}}
	user := activeUser(users)
	session, _ := fake.Issue(context.Background(), user.ID, "", "")
	router := authTestRouter(fake, users)

	cases := []struct {
		name   string
		cookie string
		want   int
	}{
		{"valid session", session.ID.String(), http.StatusOK},
		{"no cookie", "", http.StatusUnauthorized},
		{"malformed cookie", "not-a-uuid", http.StatusUnauthorized},
		{"unknown session", uuid.NewString(), http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "sid", Value: tc.cookie})
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestRequireAuthRevokedSession(t *testing.T) {
	fake := &fakeSessionService{sessions: map[uuid.UUID]*types.Session{}}
	users := &fakeUserRepo{users: map[uuid.UUID]*types.User{}}
	user := activeUser(users)
	session, _ := fake.Issue(context.Background(), user.ID, "", "")
	router := authTestRouter(fake, users)
	_ = fake.Revoke(context.Background(), session.ID)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: session.ID.String()})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 after revocation", rec.Code)
	}
}

// A user blocked mid-session must lose access on the next request, not when
// the session expires.
func TestRequireAuthBlockedUser(t *testing.T) {
	fake := &fakeSessionService{sessions: map[uuid.UUID]*types.Session{}}
	users := &fakeUserRepo{users: map[uuid.UUID]*types.User{}}
	user := activeUser(users)
	session, _ := fake.Issue(context.Background(), user.ID, "", "")
	router := authTestRouter(fake, users)

	user.Status = types.UserStatusBlocked

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: session.ID.String()})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for a blocked user", rec.Code)
	}
}
