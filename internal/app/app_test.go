package app

import (
	"context"
	"testing"
	"time"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/cache"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/config"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/rate"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestBuildLimiters(t *testing.T) {
	cfg := testConfig(t)

	cfg.Rate.Enabled = false
	login, mfa := buildLimiters(cfg, cache.NewMemory("", time.Minute))
	assert.Nil(t, login)
	assert.Nil(t, mfa)

	cfg.Rate.Enabled = true
	cfg.Rate.TwoFactor.Limit = 1
	login, mfa = buildLimiters(cfg, cache.NewMemory("", time.Minute))
	require.IsType(t, &rate.LocalLimiter{}, login)
	require.IsType(t, &rate.LocalLimiter{}, mfa)

	ctx := context.Background()
	res, err := mfa.Allow(ctx, "1.1.1.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	res, err = mfa.Allow(ctx, "1.1.1.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
}

func TestBuildLimiters_ZeroLimitDoesNotPanic(t *testing.T) {
	cfg := testConfig(t)
	cfg.Rate.Enabled = true
	cfg.Rate.TwoFactor.Limit = 0

	_, mfa := buildLimiters(cfg, cache.NewMemory("", 0))
	require.NotNil(t, mfa)
	require.NotPanics(t, func() {
		res, err := mfa.Allow(context.Background(), "1.1.1.1|/v1/auth/2fa/verify")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	})
}

func TestPasswordPolicy(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.PasswordPolicy.RequireDigit = true

	p := PasswordPolicy(cfg)
	assert.Equal(t, cfg.Security.PasswordPolicy.MinLength, p.MinLength)
	ok, _ := p.Validate("sinnumerosaqui")
	assert.False(t, ok)
	ok, _ = p.Validate("connumero123")
	assert.True(t, ok)
}

func TestTokenCheck(t *testing.T) {
	m, err := session.NewManager(session.Deps{
		Cache:  cache.NewMemory("", time.Minute),
		Secret: []byte("0123456789abcdef0123456789abcdef"),
		Issuer: "mundocomputo",
	})
	require.NoError(t, err)
	assert.NoError(t, tokenCheck(m)(context.Background()))
}
