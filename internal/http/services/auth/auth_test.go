package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/access"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/email"
	dto "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/dto/auth"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/session"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUserID   = "11111111-1111-1111-1111-111111111111"
	testEmail    = "tecnico@mundocomputo.co"
	testPassword = "Secreta#2024"
)

var baseNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

// ─── fakes ───

type fakeFirstFactor struct {
	mu        sync.Mutex
	err       error
	signIns   int
	signOuts  int
	lastToken string
}

func (f *fakeFirstFactor) SignInWithPassword(_ context.Context, em, pw string) (*session.FirstFactor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if !strings.EqualFold(em, testEmail) || pw != testPassword {
		return nil, session.ErrInvalidCredentials
	}
	f.signIns++
	f.lastToken = "ff-token"
	return &session.FirstFactor{Token: f.lastToken, UserID: testUserID, Email: testEmail}, nil
}

func (f *fakeFirstFactor) SignOut(ctx context.Context, ff *session.FirstFactor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ff != nil {
		f.signOuts++
	}
	return nil
}

// open indica si quedó alguna sesión provisional sin cerrar.
func (f *fakeFirstFactor) open() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signIns - f.signOuts
}

type fakeChallenges struct {
	mu         sync.Mutex
	items      map[string]*repository.TwoFactorChallenge
	getErr     error
	consumeErr error
	// steal simula otro request que consume el código entre la lectura y el update.
	steal bool
}

func newFakeChallenges(ch *repository.TwoFactorChallenge) *fakeChallenges {
	f := &fakeChallenges{items: map[string]*repository.TwoFactorChallenge{}}
	if ch != nil {
		f.items[ch.UserID] = ch
	}
	return f
}

func (f *fakeChallenges) GetChallenge(_ context.Context, id string) (*repository.TwoFactorChallenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	ch, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *ch
	return &cp, nil
}

func (f *fakeChallenges) StoreCode(_ context.Context, id, code string, exp time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	ch.Code, ch.ExpiresAt, ch.Verified = &code, &exp, false
	return nil
}

func (f *fakeChallenges) ConsumeCode(_ context.Context, id, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.consumeErr != nil {
		return false, f.consumeErr
	}
	ch, ok := f.items[id]
	if !ok || f.steal || ch.Code == nil || *ch.Code != code {
		return false, nil
	}
	ch.Code, ch.ExpiresAt, ch.Verified = nil, nil, true
	return true, nil
}

func (f *fakeChallenges) ConsumeVerification(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.items[id]
	if !ok || !ch.Verified {
		return false, nil
	}
	ch.Verified = false
	return true, nil
}

func (f *fakeChallenges) get(id string) repository.TwoFactorChallenge {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.items[id]
}

type fakeUsers struct {
	repository.UserRepository
	users map[string]*repository.User
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*repository.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeMailer struct {
	err  error
	sent []email.Message
}

func (m *fakeMailer) Send(_ context.Context, msg email.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeTokens struct {
	revoked []string
}

func (t *fakeTokens) Issue(_ context.Context, u *repository.User) (string, *session.Claims, error) {
	return "signed." + u.ID, &session.Claims{
		Email:            u.Email,
		RegisteredClaims: jwtv5.RegisteredClaims{ID: "jti-1", Subject: u.ID},
	}, nil
}

func (t *fakeTokens) Revoke(_ context.Context, c *session.Claims) error {
	t.revoked = append(t.revoked, c.ID)
	return nil
}

func (t *fakeTokens) AccessTTL() time.Duration { return 8 * time.Hour }

// ─── fixture ───

type fixture struct {
	ff     *fakeFirstFactor
	chs    *fakeChallenges
	users  *fakeUsers
	mailer *fakeMailer
	tokens *fakeTokens
	now    time.Time
	svcs   Services
}

func strp(s string) *string { return &s }

func timep(t time.Time) *time.Time { return &t }

func newFixture(t *testing.T, ch *repository.TwoFactorChallenge) *fixture {
	t.Helper()
	rol := access.RoleTecnico
	f := &fixture{
		ff:  &fakeFirstFactor{},
		chs: newFakeChallenges(ch),
		users: &fakeUsers{users: map[string]*repository.User{
			testUserID: {ID: testUserID, Email: testEmail, Nombre: "Tecnico", Role: &rol, Activo: true},
		}},
		mailer: &fakeMailer{},
		tokens: &fakeTokens{},
		now:    baseNow,
	}
	f.svcs = NewServices(Deps{
		FirstFactor: f.ff,
		Tokens:      f.tokens,
		Users:       f.users,
		Challenges:  f.chs,
		Mailer:      f.mailer,
		CodeTTL:     5 * time.Minute,
		Now:         func() time.Time { return f.now },
	})
	return f
}

func pending(code *string, exp *time.Time) *repository.TwoFactorChallenge {
	return &repository.TwoFactorChallenge{
		UserID:    testUserID,
		Email:     testEmail,
		Nombre:    "Tecnico",
		Activo:    true,
		Code:      code,
		ExpiresAt: exp,
	}
}

func verifyReq(code string) dto.VerifyRequest {
	return dto.VerifyRequest{Email: testEmail, Password: testPassword, Code: code}
}

// ─── 2FA verify ───

func TestVerify_Success_ClearsCode(t *testing.T) {
	f := newFixture(t, pending(strp("482913"), timep(baseNow.Add(5*time.Minute))))

	res, err := f.svcs.TwoFactor.Verify(context.Background(), verifyReq("482913"))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Verificación exitosa", res.Message)

	ch := f.chs.get(testUserID)
	assert.Nil(t, ch.Code)
	assert.Nil(t, ch.ExpiresAt)
	assert.True(t, ch.Verified)
	// La sesión provisional se cierra también en el éxito.
	assert.Equal(t, 0, f.ff.open())
	assert.Equal(t, 1, f.ff.signOuts)
}

func TestVerify_Rejections(t *testing.T) {
	exp := baseNow.Add(5 * time.Minute)

	cases := []struct {
		name    string
		ch      *repository.TwoFactorChallenge
		setup   func(f *fixture)
		req     dto.VerifyRequest
		wantErr error
		signIns int
	}{
		{
			name:    "missing fields",
			ch:      pending(strp("482913"), &exp),
			req:     dto.VerifyRequest{Email: testEmail, Password: testPassword},
			wantErr: ErrMissingFields,
		},
		{
			name:    "wrong password",
			ch:      pending(strp("482913"), &exp),
			req:     dto.VerifyRequest{Email: testEmail, Password: "otra", Code: "482913"},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "first factor infra error",
			ch:      pending(strp("482913"), &exp),
			setup:   func(f *fixture) { f.ff.err = errors.New("db down") },
			req:     verifyReq("482913"),
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "challenge missing",
			ch:      nil,
			req:     verifyReq("482913"),
			wantErr: ErrUserNotFound,
			signIns: 1,
		},
		{
			name: "inactive",
			ch: func() *repository.TwoFactorChallenge {
				c := pending(strp("482913"), &exp)
				c.Activo = false
				return c
			}(),
			req:     verifyReq("482913"),
			wantErr: ErrUserInactive,
			signIns: 1,
		},
		{
			name:    "one millisecond past expiry",
			ch:      pending(strp("482913"), &exp),
			setup:   func(f *fixture) { f.now = exp.Add(time.Millisecond) },
			req:     verifyReq("482913"),
			wantErr: ErrCodeExpired,
			signIns: 1,
		},
		{
			name:    "wrong code",
			ch:      pending(strp("482913"), &exp),
			req:     verifyReq("482914"),
			wantErr: ErrCodeIncorrect,
			signIns: 1,
		},
		{
			name:    "case only difference",
			ch:      pending(strp("AbC123"), &exp),
			req:     verifyReq("abc123"),
			wantErr: ErrCodeIncorrect,
			signIns: 1,
		},
		{
			name:    "prefix is not a match",
			ch:      pending(strp("482913"), &exp),
			req:     verifyReq("4829"),
			wantErr: ErrCodeIncorrect,
			signIns: 1,
		},
		{
			name:    "no pending code",
			ch:      pending(nil, nil),
			req:     verifyReq("482913"),
			wantErr: ErrCodeIncorrect,
			signIns: 1,
		},
		{
			name:    "lookup error",
			ch:      pending(strp("482913"), &exp),
			setup:   func(f *fixture) { f.chs.getErr = errors.New("conn reset") },
			req:     verifyReq("482913"),
			wantErr: ErrVerifyFailed,
			signIns: 1,
		},
		{
			name:    "clear fails",
			ch:      pending(strp("482913"), &exp),
			setup:   func(f *fixture) { f.chs.consumeErr = errors.New("conn reset") },
			req:     verifyReq("482913"),
			wantErr: ErrVerifyFailed,
			signIns: 1,
		},
		{
			name:    "consumed concurrently",
			ch:      pending(strp("482913"), &exp),
			setup:   func(f *fixture) { f.chs.steal = true },
			req:     verifyReq("482913"),
			wantErr: ErrCodeIncorrect,
			signIns: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, tc.ch)
			if tc.setup != nil {
				tc.setup(f)
			}

			res, err := f.svcs.TwoFactor.Verify(context.Background(), tc.req)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tc.wantErr)

			assert.Equal(t, tc.signIns, f.ff.signIns)
			assert.Equal(t, 0, f.ff.open(), "la sesión provisional debe cerrarse")
		})
	}
}

func TestVerify_ExpiryBoundaryIsValid(t *testing.T) {
	exp := baseNow.Add(5 * time.Minute)
	f := newFixture(t, pending(strp("482913"), &exp))
	f.now = exp

	res, err := f.svcs.TwoFactor.Verify(context.Background(), verifyReq("482913"))
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestVerify_CodeWithoutExpiryIsExpired(t *testing.T) {
	f := newFixture(t, pending(strp("482913"), nil))

	_, err := f.svcs.TwoFactor.Verify(context.Background(), verifyReq("482913"))
	assert.ErrorIs(t, err, ErrCodeExpired)
	assert.Equal(t, 1, f.ff.signOuts)
	assert.Zero(t, f.ff.open())

	// el código no se consume
	ch := f.chs.get(testUserID)
	require.NotNil(t, ch.Code)
	assert.False(t, ch.Verified)
}

func TestVerify_ReuseAfterClearFails(t *testing.T) {
	f := newFixture(t, pending(strp("482913"), timep(baseNow.Add(5*time.Minute))))

	_, err := f.svcs.TwoFactor.Verify(context.Background(), verifyReq("482913"))
	require.NoError(t, err)

	_, err = f.svcs.TwoFactor.Verify(context.Background(), verifyReq("482913"))
	assert.ErrorIs(t, err, ErrCodeIncorrect)
	assert.Equal(t, 2, f.ff.signOuts)
}

func TestVerify_ConcurrentSameCode_OneWins(t *testing.T) {
	f := newFixture(t, pending(strp("482913"), timep(baseNow.Add(5*time.Minute))))

	var wg sync.WaitGroup
	var mu sync.Mutex
	okCount := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svcs.TwoFactor.Verify(context.Background(), verifyReq("482913")); err == nil {
				mu.Lock()
				okCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, okCount)
	assert.Equal(t, 0, f.ff.open())
}

// ─── login ───

func TestLogin_SendsCodeAndStoresIt(t *testing.T) {
	f := newFixture(t, pending(strp("000000"), nil))

	res, err := f.svcs.Login.Login(context.Background(), dto.LoginRequest{Email: "  " + testEmail, Password: testPassword})
	require.NoError(t, err)
	assert.True(t, res.MFARequired)
	assert.Equal(t, baseNow.Add(5*time.Minute), res.ExpiresAt)

	ch := f.chs.get(testUserID)
	require.NotNil(t, ch.Code)
	assert.Len(t, *ch.Code, 6)
	assert.False(t, ch.Verified)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, testEmail, f.mailer.sent[0].To)
	assert.Contains(t, f.mailer.sent[0].TextBody, *ch.Code)
	assert.Equal(t, 0, f.ff.open())
}

func TestLogin_ThenVerify(t *testing.T) {
	f := newFixture(t, pending(nil, nil))

	_, err := f.svcs.Login.Login(context.Background(), dto.LoginRequest{Email: testEmail, Password: testPassword})
	require.NoError(t, err)
	code := *f.chs.get(testUserID).Code

	res, err := f.svcs.TwoFactor.Verify(context.Background(), verifyReq(code))
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestLogin_Errors(t *testing.T) {
	t.Run("inactive", func(t *testing.T) {
		f := newFixture(t, pending(nil, nil))
		f.users.users[testUserID].Activo = false

		_, err := f.svcs.Login.Login(context.Background(), dto.LoginRequest{Email: testEmail, Password: testPassword})
		assert.ErrorIs(t, err, ErrUserInactive)
		assert.Nil(t, f.chs.get(testUserID).Code)
		assert.Empty(t, f.mailer.sent)
		assert.Equal(t, 0, f.ff.open())
	})

	t.Run("bad password", func(t *testing.T) {
		f := newFixture(t, pending(nil, nil))
		_, err := f.svcs.Login.Login(context.Background(), dto.LoginRequest{Email: testEmail, Password: "x"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture(t, pending(nil, nil))
		_, err := f.svcs.Login.Login(context.Background(), dto.LoginRequest{Email: " "})
		assert.ErrorIs(t, err, ErrMissingCredentials)
	})

	t.Run("smtp down", func(t *testing.T) {
		f := newFixture(t, pending(nil, nil))
		f.mailer.err = errors.New("dial tcp: refused")

		_, err := f.svcs.Login.Login(context.Background(), dto.LoginRequest{Email: testEmail, Password: testPassword})
		assert.ErrorIs(t, err, ErrCodeDelivery)
		assert.Equal(t, 0, f.ff.open())
	})
}

// ─── session ───

func TestSession_RequiresVerification(t *testing.T) {
	f := newFixture(t, pending(strp("482913"), timep(baseNow.Add(time.Minute))))

	_, err := f.svcs.Session.Create(context.Background(), dto.SessionRequest{Email: testEmail, Password: testPassword})
	assert.ErrorIs(t, err, ErrMFARequired)
	assert.Equal(t, 0, f.ff.open())
}

func TestSession_IssueOncePerVerification(t *testing.T) {
	f := newFixture(t, pending(strp("482913"), timep(baseNow.Add(time.Minute))))
	ctx := context.Background()

	_, err := f.svcs.TwoFactor.Verify(ctx, verifyReq("482913"))
	require.NoError(t, err)

	res, err := f.svcs.Session.Create(ctx, dto.SessionRequest{Email: testEmail, Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, "signed."+testUserID, res.AccessToken)
	assert.Equal(t, "Bearer", res.TokenType)
	assert.Equal(t, int64(8*3600), res.ExpiresIn)
	assert.Equal(t, "tecnico", res.User.Rol)
	assert.False(t, f.chs.get(testUserID).Verified)

	_, err = f.svcs.Session.Create(ctx, dto.SessionRequest{Email: testEmail, Password: testPassword})
	assert.ErrorIs(t, err, ErrMFARequired)
}

func TestSession_Logout(t *testing.T) {
	f := newFixture(t, nil)
	claims := &session.Claims{RegisteredClaims: jwtv5.RegisteredClaims{ID: "jti-9"}}

	require.NoError(t, f.svcs.Session.Logout(context.Background(), testUserID, claims))
	require.NoError(t, f.svcs.Session.Logout(context.Background(), testUserID, nil))
	assert.Equal(t, []string{"jti-9"}, f.tokens.revoked)
}
