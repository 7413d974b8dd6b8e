package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fittrack/internal/model"
	"github.com/fittrack/internal/repository"
	"github.com/fittrack/internal/storage/memory"
	"github.com/fittrack/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*model.User
	byID    map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*model.User), byID: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.byEmail[u.Email] = &cp
	r.byID[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

const testSecret = "test-secret"

func newTestService() (*AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewAuthService(repo, memory.New(), []byte(testSecret), time.Hour), repo
}

func TestSignUp_StoresHashedPassword(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.SignUp(ctx, "Ann", "a@x.com", "pw1"))

	u, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.Name)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "pw1", u.PasswordHash)
	assert.NotContains(t, u.PasswordHash, "pw1")
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.SignUp(ctx, "Ann", "a@x.com", "pw1"))
	err := svc.SignUp(ctx, "Other Name", "a@x.com", "other-pw")
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestLogin_SingleSessionLifecycle(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.SignUp(ctx, "Ann", "a@x.com", "pw1"))

	t1, user, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.NotEmpty(t, t1)
	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, "a@x.com", user.Email)

	// Second login before logout is rejected; the first session stays live.
	_, _, err = svc.Login(ctx, "a@x.com", "pw1")
	assert.ErrorIs(t, err, ErrSessionConflict)

	userID, err := svc.Authenticate(ctx, t1)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	require.NoError(t, svc.Logout(ctx, t1))

	t2, _, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2)
}

func TestLogin_InvalidCredentialsIndistinguishable(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.SignUp(ctx, "Ann", "a@x.com", "pw1"))

	_, _, wrongPass := svc.Login(ctx, "a@x.com", "wrong")
	_, _, noUser := svc.Login(ctx, "nobody@x.com", "pw1")

	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, noUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), noUser.Error())
}

func TestLogout_Idempotent(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.SignUp(ctx, "Ann", "a@x.com", "pw1"))
	t1, _, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, t1))
	// Logging out again with the same valid token is still success.
	require.NoError(t, svc.Logout(ctx, t1))
}

func TestLogout_InvalidToken(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	err := svc.Logout(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate_Taxonomy(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.SignUp(ctx, "Ann", "a@x.com", "pw1"))
	t1, _, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Well-formed and signed, but the registry holds no entry: the server
	// "restarted" (or the user logged out) while the token stayed valid.
	orphan, err := token.Generate("some-user", []byte(testSecret), time.Hour)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, orphan)
	assert.ErrorIs(t, err, ErrSessionExpired)

	// A token superseded by a newer login is rejected the same way.
	require.NoError(t, svc.Logout(ctx, t1))
	_, _, err = svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, t1)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestGetUser(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.SignUp(ctx, "Ann", "a@x.com", "pw1"))
	_, user, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	got, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, *user, *got)
}
