package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "dev", c.App.Env)
	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, "memory", c.Cache.Kind)
	assert.Equal(t, "5m", c.Auth.TwoFactor.CodeTTL)
	assert.Equal(t, 6, c.Auth.TwoFactor.CodeDigits)
	assert.Equal(t, 10, c.Security.PasswordPolicy.MinLength)
	assert.Equal(t, "auto", c.SMTP.TLS)
	assert.True(t, c.Rate.Enabled)
}

func TestLoad_RateCanBeDisabled(t *testing.T) {
	p := writeYAML(t, `
rate:
  enabled: false
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.False(t, c.Rate.Enabled)
	assert.Equal(t, 10, c.Rate.Login.Limit)
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	p := writeYAML(t, `
app:
  app_env: staging
server:
  addr: ":9000"
storage:
  dsn: postgres://app@localhost/mc
auth:
  two_factor:
    code_ttl: 10m
`)
	t.Setenv("SERVER_ADDR", ":7000")
	t.Setenv("SERVER_CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")

	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "staging", c.App.Env)
	assert.Equal(t, ":7000", c.Server.Addr)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.Server.CORSAllowedOrigins)
	assert.Equal(t, 10*time.Minute, Dur(c.Auth.TwoFactor.CodeTTL, 0))
}

func TestServiceDSN_FallsBackToDSN(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	c.Storage.DSN = "postgres://app"
	assert.Equal(t, "postgres://app", c.ServiceDSN())

	c.Storage.ServiceDSN = "postgres://service"
	assert.Equal(t, "postgres://service", c.ServiceDSN())
}

func TestValidate_Errors(t *testing.T) {
	t.Run("duración inválida", func(t *testing.T) {
		p := writeYAML(t, "auth:\n  two_factor:\n    code_ttl: cinco\n")
		_, err := Load(p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "auth.two_factor.code_ttl")
	})

	t.Run("redis sin addr", func(t *testing.T) {
		t.Setenv("CACHE_KIND", "redis")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cache.redis.addr")
	})

	t.Run("límite 2fa en cero", func(t *testing.T) {
		t.Setenv("RATE_MFA_LIMIT", "0")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate.two_factor.limit debe ser positivo")
	})

	t.Run("límite login negativo", func(t *testing.T) {
		t.Setenv("RATE_LOGIN_LIMIT", "-3")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate.login.limit debe ser positivo")
	})

	t.Run("límite en cero con rate deshabilitado", func(t *testing.T) {
		t.Setenv("RATE_ENABLED", "false")
		t.Setenv("RATE_MFA_LIMIT", "0")
		_, err := Load("")
		require.NoError(t, err)
	})

	t.Run("prod sin secreto", func(t *testing.T) {
		t.Setenv("APP_ENV", "prod")
		t.Setenv("STORAGE_DSN", "postgres://x")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})
}

func TestDur(t *testing.T) {
	assert.Equal(t, 3*time.Second, Dur("3s", time.Minute))
	assert.Equal(t, time.Minute, Dur("", time.Minute))
	assert.Equal(t, time.Minute, Dur("-1s", time.Minute))
}
