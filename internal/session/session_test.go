package session

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/access"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/cache"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/security/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastParams = password.Params{Memory: 1024, Time: 1, Parallelism: 1, KeyLen: 32}

type fakeUsers struct {
	repository.UserRepository

	mu    sync.Mutex
	users map[string]*repository.User
	calls atomic.Int32
	block chan struct{}
}

func newFakeUsers(us ...*repository.User) *fakeUsers {
	f := &fakeUsers{users: map[string]*repository.User{}}
	for _, u := range us {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*repository.User, error) {
	f.calls.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func testUser(t *testing.T, id string, role *access.Role, activo bool) *repository.User {
	t.Helper()
	h, err := password.Hash(fastParams, "Secreta-123")
	require.NoError(t, err)
	return &repository.User{ID: id, Email: id + "@mundocomputo.co", Nombre: id, PasswordHash: h, Role: role, Activo: activo}
}

func newManager(t *testing.T, users repository.UserRepository, now func() time.Time) (*Manager, cache.Client) {
	t.Helper()
	c := cache.NewMemory("test:", time.Minute)
	m, err := NewManager(Deps{
		Users:          users,
		Cache:          c,
		Secret:         []byte("0123456789abcdef0123456789abcdef"),
		Issuer:         "mundocomputo",
		AccessTTL:      time.Hour,
		ProvisionalTTL: time.Minute,
		Now:            now,
	})
	require.NoError(t, err)
	return m, c
}

func rolePtr(r access.Role) *access.Role { return &r }

func TestNewManager_RequiresSecret(t *testing.T) {
	_, err := NewManager(Deps{})
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestSignInWithPassword(t *testing.T) {
	u := testUser(t, "ana", rolePtr(access.RoleVentas), true)
	m, _ := newManager(t, newFakeUsers(u), nil)
	ctx := context.Background()

	ff, err := m.SignInWithPassword(ctx, "  ANA@mundocomputo.co ", "Secreta-123")
	require.NoError(t, err)
	assert.Equal(t, "ana", ff.UserID)
	assert.NotEmpty(t, ff.Token)
	assert.True(t, m.Active(ctx, ff))

	require.NoError(t, m.SignOut(ctx, ff))
	assert.False(t, m.Active(ctx, ff))
	// idempotente
	require.NoError(t, m.SignOut(ctx, ff))
	require.NoError(t, m.SignOut(ctx, nil))
}

func TestSignInWithPassword_InvalidCredentials(t *testing.T) {
	u := testUser(t, "ana", nil, true)
	m, _ := newManager(t, newFakeUsers(u), nil)
	ctx := context.Background()

	cases := map[string][2]string{
		"wrong password": {"ana@mundocomputo.co", "otra"},
		"unknown email":  {"nadie@mundocomputo.co", "Secreta-123"},
		"empty email":    {"", "Secreta-123"},
		"empty password": {"ana@mundocomputo.co", ""},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			ff, err := m.SignInWithPassword(ctx, in[0], in[1])
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Nil(t, ff)
		})
	}
}

func TestIssueParseRevoke(t *testing.T) {
	u := testUser(t, "ana", rolePtr(access.RoleAdministrador), true)
	m, _ := newManager(t, newFakeUsers(u), nil)
	ctx := context.Background()

	raw, claims, err := m.Issue(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, "ana", claims.Subject)
	assert.NotEmpty(t, claims.ID)

	got, err := m.Parse(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, claims.ID, got.ID)
	assert.Equal(t, u.Email, got.Email)

	require.NoError(t, m.Revoke(ctx, got))
	_, err = m.Parse(ctx, raw)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestParse_RejectsTamperedAndExpired(t *testing.T) {
	u := testUser(t, "ana", nil, true)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := now
	m, _ := newManager(t, newFakeUsers(u), func() time.Time { return clock })
	ctx := context.Background()

	raw, _, err := m.Issue(ctx, u)
	require.NoError(t, err)

	_, err = m.Parse(ctx, raw+"x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, _ := newManager(t, newFakeUsers(u), func() time.Time { return clock })
	other.secret = []byte("otro-secreto-otro-secreto-otro-se")
	_, err = other.Parse(ctx, raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	clock = now.Add(2 * time.Hour)
	_, err = m.Parse(ctx, raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolver_States(t *testing.T) {
	admin := testUser(t, "admin", rolePtr(access.RoleAdministrador), true)
	sinRol := testUser(t, "sinrol", nil, true)
	inactivo := testUser(t, "inactivo", rolePtr(access.RoleTecnico), false)
	users := newFakeUsers(admin, sinRol, inactivo)
	m, _ := newManager(t, users, nil)
	r := NewResolver(ResolverDeps{Manager: m, Users: users, Timeout: time.Second})
	ctx := context.Background()

	issue := func(u *repository.User) string {
		raw, _, err := m.Issue(ctx, u)
		require.NoError(t, err)
		return raw
	}

	t.Run("no token", func(t *testing.T) {
		st, claims := r.Resolve(ctx, "")
		assert.False(t, st.Loading)
		assert.Nil(t, st.User)
		assert.Nil(t, claims)
	})

	t.Run("garbage token", func(t *testing.T) {
		st, _ := r.Resolve(ctx, "no.es.jwt")
		assert.Nil(t, st.User)
	})

	t.Run("admin", func(t *testing.T) {
		st, claims := r.Resolve(ctx, issue(admin))
		require.NotNil(t, st.User)
		require.NotNil(t, st.Role)
		assert.Equal(t, access.RoleAdministrador, *st.Role)
		assert.Equal(t, "admin", claims.Subject)
	})

	t.Run("user without role", func(t *testing.T) {
		st, _ := r.Resolve(ctx, issue(sinRol))
		require.NotNil(t, st.User)
		assert.Nil(t, st.Role)
	})

	t.Run("inactive user has no session", func(t *testing.T) {
		st, _ := r.Resolve(ctx, issue(inactivo))
		assert.Nil(t, st.User)
	})

	t.Run("deleted user", func(t *testing.T) {
		ghost := testUser(t, "ghost", rolePtr(access.RoleVentas), true)
		st, _ := r.Resolve(ctx, issue(ghost))
		assert.Nil(t, st.User)
	})
}

func TestResolver_SlowRoleLookupIsLoading(t *testing.T) {
	u := testUser(t, "lento", rolePtr(access.RoleVentas), true)
	users := newFakeUsers(u)
	users.block = make(chan struct{})
	defer close(users.block)

	m, _ := newManager(t, users, nil)
	r := NewResolver(ResolverDeps{Manager: m, Users: users, Timeout: 20 * time.Millisecond})

	raw, _, err := m.Issue(context.Background(), u)
	require.NoError(t, err)

	st, _ := r.Resolve(context.Background(), raw)
	assert.True(t, st.Loading)
	assert.Nil(t, st.User)
	assert.Equal(t, access.Loading(), access.Evaluate(st, []access.Role{access.RoleVentas}))
}
