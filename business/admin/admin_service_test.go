//go:build !integration

package admin

import (
	"context"
	"testing"
	"time"

	"wildNest/domain"
	"wildNest/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdminRepo struct {
	items  map[uint]domain.AdminUser
	nextID uint
}

func (r *fakeAdminRepo) Create(ctx context.Context, a *domain.AdminUser) error {
	r.nextID++
	a.ID = r.nextID
	r.items[a.ID] = *a
	return nil
}

func (r *fakeAdminRepo) FindByID(ctx context.Context, id uint) (domain.AdminUser, error) {
	a, ok := r.items[id]
	if !ok {
		return domain.AdminUser{}, domain.ErrAdminNotFound
	}
	return a, nil
}

func (r *fakeAdminRepo) FindByUsername(ctx context.Context, username string) (domain.AdminUser, error) {
	for _, a := range r.items {
		if a.Username == username {
			return a, nil
		}
	}
	return domain.AdminUser{}, domain.ErrAdminNotFound
}

func (r *fakeAdminRepo) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	a := r.items[id]
	a.LastLoginAt = &at
	r.items[id] = a
	return nil
}

type fakeTokenStore struct {
	tokens map[string]domain.TokenData
	ttl    time.Duration
}

func (f *fakeTokenStore) StoreToken(ctx context.Context, userID, token string, data domain.TokenData, ttl time.Duration) error {
	f.tokens[userID] = data
	f.ttl = ttl
	return nil
}

func (f *fakeTokenStore) RevokeToken(ctx context.Context, userID string) error {
	delete(f.tokens, userID)
	return nil
}

func newTestAdminService(t *testing.T) (*adminService, *fakeAdminRepo, *fakeTokenStore) {
	t.Helper()
	utils.InitJWT("admin-test-secret", time.Hour)

	repo := &fakeAdminRepo{items: map[uint]domain.AdminUser{}}
	store := &fakeTokenStore{tokens: map[string]domain.TokenData{}}
	svc := NewAdminService(repo, store)
	require.NoError(t, svc.EnsureAdmin(context.Background(), "root", "hunter2"))
	return svc, repo, store
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	svc, repo, _ := newTestAdminService(t)

	require.NoError(t, svc.EnsureAdmin(context.Background(), "root", "other"))
	require.NoError(t, svc.EnsureAdmin(context.Background(), "", ""))
	assert.Len(t, repo.items, 1)
	assert.Equal(t, domain.RoleAdmin, repo.items[1].Role)
	assert.NotEqual(t, "hunter2", repo.items[1].Password)
}

func TestLoginIssuesStoredToken(t *testing.T) {
	svc, repo, store := newTestAdminService(t)

	token, admin, err := svc.Login(context.Background(), "root", "hunter2", "127.0.0.1", "curl")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "root", admin.Username)
	assert.NotNil(t, repo.items[admin.ID].LastLoginAt)

	stored, ok := store.tokens["1"]
	require.True(t, ok)
	assert.Equal(t, token, stored.Token)
	assert.Equal(t, "127.0.0.1", stored.IPAddress)
	assert.Equal(t, time.Hour, store.ttl)

	claims, err := utils.ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newTestAdminService(t)

	_, _, err := svc.Login(context.Background(), "root", "wrong", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)

	_, _, err = svc.Login(context.Background(), "nobody", "hunter2", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)
}

func TestLogoutAndMe(t *testing.T) {
	svc, _, store := newTestAdminService(t)

	_, admin, err := svc.Login(context.Background(), "root", "hunter2", "", "")
	require.NoError(t, err)

	me, err := svc.Me(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "root", me.Username)

	require.NoError(t, svc.Logout(context.Background(), admin.ID))
	assert.Empty(t, store.tokens)

	assert.ErrorIs(t, svc.Logout(context.Background(), 0), domain.ErrInvalidID)
	_, err = svc.Me(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrAdminNotFound)
}
