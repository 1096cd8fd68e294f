package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env  string `yaml:"app_env"`
		Name string `yaml:"name"`
		// URL pública del SPA, usada en los emails.
		PublicURL string `yaml:"public_url"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		ReadTimeout        string   `yaml:"read_timeout"`
		WriteTimeout       string   `yaml:"write_timeout"`
		ShutdownTimeout    string   `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Storage struct {
		// DSN de la aplicación (rol con privilegios normales).
		DSN string `yaml:"dsn"`
		// ServiceDSN se usa para operaciones con privilegios elevados
		// (lectura y limpieza del desafío 2FA). Si está vacío se usa DSN.
		ServiceDSN string `yaml:"service_dsn"`
		Postgres   struct {
			MaxOpenConns    int    `yaml:"max_open_conns"`
			MaxIdleConns    int    `yaml:"max_idle_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	JWT struct {
		Secret    string `yaml:"secret"`
		Issuer    string `yaml:"issuer"`
		AccessTTL string `yaml:"access_ttl"`
	} `yaml:"jwt"`

	Auth struct {
		// ProvisionalTTL: vida de la sesión de primer factor.
		ProvisionalTTL string `yaml:"provisional_ttl"`
		// RoleLookupTimeout: si la carga del rol tarda más, el guard responde "loading".
		RoleLookupTimeout string `yaml:"role_lookup_timeout"`
		TwoFactor         struct {
			CodeTTL    string `yaml:"code_ttl"`
			CodeDigits int    `yaml:"code_digits"`
		} `yaml:"two_factor"`
	} `yaml:"auth"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Login   struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`
		TwoFactor struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"two_factor"`
	} `yaml:"rate"`

	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
		FromName string `yaml:"from_name"`
		TLS      string `yaml:"tls"` // auto | starttls | ssl | none
	} `yaml:"smtp"`

	Security struct {
		PasswordPolicy struct {
			MinLength     int  `yaml:"min_length"`
			RequireUpper  bool `yaml:"require_upper"`
			RequireLower  bool `yaml:"require_lower"`
			RequireDigit  bool `yaml:"require_digit"`
			RequireSymbol bool `yaml:"require_symbol"`
		} `yaml:"password_policy"`
	} `yaml:"security"`

	Currency struct {
		Symbol   string `yaml:"symbol"`
		Decimals bool   `yaml:"decimals"`
	} `yaml:"currency"`
}

// Load lee el YAML (si path no es vacío), aplica defaults, overrides por env y valida.
func Load(path string) (*Config, error) {
	var c Config
	// Los bool que arrancan en true se fijan antes del YAML.
	c.Rate.Enabled = true
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: yaml: %w", err)
		}
	}

	c.applyDefaults()
	c.applyEnvOverrides()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.Name == "" {
		c.App.Name = "MundoComputo"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "15s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Storage.Postgres.MaxOpenConns == 0 {
		c.Storage.Postgres.MaxOpenConns = 20
	}
	if c.Storage.Postgres.MaxIdleConns == 0 {
		c.Storage.Postgres.MaxIdleConns = 5
	}
	if c.Storage.Postgres.ConnMaxLifetime == "" {
		c.Storage.Postgres.ConnMaxLifetime = "30m"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "mc:"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "5m"
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "mundocomputo"
	}
	if c.JWT.AccessTTL == "" {
		c.JWT.AccessTTL = "8h"
	}
	if c.Auth.ProvisionalTTL == "" {
		c.Auth.ProvisionalTTL = "2m"
	}
	if c.Auth.RoleLookupTimeout == "" {
		c.Auth.RoleLookupTimeout = "3s"
	}
	if c.Auth.TwoFactor.CodeTTL == "" {
		c.Auth.TwoFactor.CodeTTL = "5m"
	}
	if c.Auth.TwoFactor.CodeDigits == 0 {
		c.Auth.TwoFactor.CodeDigits = 6
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "1m"
	}
	if c.Rate.TwoFactor.Limit == 0 {
		c.Rate.TwoFactor.Limit = 5
	}
	if c.Rate.TwoFactor.Window == "" {
		c.Rate.TwoFactor.Window = "1m"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.SMTP.TLS == "" {
		c.SMTP.TLS = "auto"
	}
	if c.SMTP.FromName == "" {
		c.SMTP.FromName = c.App.Name
	}
	if c.Security.PasswordPolicy.MinLength == 0 {
		c.Security.PasswordPolicy.MinLength = 10
	}
	if c.Currency.Symbol == "" {
		c.Currency.Symbol = "$"
	}
}

func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("APP_PUBLIC_URL"); ok {
		c.App.PublicURL = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvStr("STORAGE_SERVICE_DSN"); ok {
		c.Storage.ServiceDSN = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_OPEN_CONNS"); ok {
		c.Storage.Postgres.MaxOpenConns = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_IDLE_CONNS"); ok {
		c.Storage.Postgres.MaxIdleConns = v
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = strings.ToLower(v)
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}

	// JWT
	if v, ok := getEnvStr("JWT_SECRET"); ok {
		c.JWT.Secret = v
	}
	if v, ok := getEnvStr("JWT_ISSUER"); ok {
		c.JWT.Issuer = v
	}
	if v, ok := getEnvStr("JWT_ACCESS_TTL"); ok {
		c.JWT.AccessTTL = v
	}

	// AUTH
	if v, ok := getEnvStr("MFA_CODE_TTL"); ok {
		c.Auth.TwoFactor.CodeTTL = v
	}
	if v, ok := getEnvStr("AUTH_ROLE_LOOKUP_TIMEOUT"); ok {
		c.Auth.RoleLookupTimeout = v
	}

	// RATE
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvInt("RATE_LOGIN_LIMIT"); ok {
		c.Rate.Login.Limit = v
	}
	if v, ok := getEnvStr("RATE_LOGIN_WINDOW"); ok {
		c.Rate.Login.Window = v
	}
	if v, ok := getEnvInt("RATE_MFA_LIMIT"); ok {
		c.Rate.TwoFactor.Limit = v
	}
	if v, ok := getEnvStr("RATE_MFA_WINDOW"); ok {
		c.Rate.TwoFactor.Window = v
	}

	// SMTP
	if v, ok := getEnvStr("SMTP_HOST"); ok {
		c.SMTP.Host = v
	}
	if v, ok := getEnvInt("SMTP_PORT"); ok {
		c.SMTP.Port = v
	}
	if v, ok := getEnvStr("SMTP_USERNAME"); ok {
		c.SMTP.Username = v
	}
	if v, ok := getEnvStr("SMTP_PASSWORD"); ok {
		c.SMTP.Password = v
	}
	if v, ok := getEnvStr("SMTP_FROM"); ok {
		c.SMTP.From = v
	}
	if v, ok := getEnvStr("SMTP_TLS"); ok {
		c.SMTP.TLS = strings.ToLower(v)
	}

	if v, ok := getEnvInt("SECURITY_PASSWORD_POLICY_MIN_LENGTH"); ok {
		c.Security.PasswordPolicy.MinLength = v
	}
	if v, ok := getEnvStr("CURRENCY_SYMBOL"); ok {
		c.Currency.Symbol = v
	}
}

// Validate verifica duraciones y combinaciones obligatorias.
func (c *Config) Validate() error {
	var errs []error
	durations := map[string]string{
		"server.read_timeout":                c.Server.ReadTimeout,
		"server.write_timeout":               c.Server.WriteTimeout,
		"server.shutdown_timeout":            c.Server.ShutdownTimeout,
		"storage.postgres.conn_max_lifetime": c.Storage.Postgres.ConnMaxLifetime,
		"cache.memory.default_ttl":           c.Cache.Memory.DefaultTTL,
		"jwt.access_ttl":                     c.JWT.AccessTTL,
		"auth.provisional_ttl":               c.Auth.ProvisionalTTL,
		"auth.role_lookup_timeout":           c.Auth.RoleLookupTimeout,
		"auth.two_factor.code_ttl":           c.Auth.TwoFactor.CodeTTL,
		"rate.login.window":                  c.Rate.Login.Window,
		"rate.two_factor.window":             c.Rate.TwoFactor.Window,
	}
	for k, v := range durations {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", k, err))
			continue
		}
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s: debe ser positivo", k))
		}
	}

	switch c.Cache.Kind {
	case "memory":
	case "redis":
		if strings.TrimSpace(c.Cache.Redis.Addr) == "" {
			errs = append(errs, errors.New("cache.redis.addr requerido con cache.kind=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.kind inválido: %q", c.Cache.Kind))
	}

	switch c.SMTP.TLS {
	case "auto", "starttls", "ssl", "none":
	default:
		errs = append(errs, fmt.Errorf("smtp.tls inválido: %q", c.SMTP.TLS))
	}

	if c.Rate.Enabled {
		if c.Rate.Login.Limit <= 0 {
			errs = append(errs, errors.New("rate.login.limit debe ser positivo"))
		}
		if c.Rate.TwoFactor.Limit <= 0 {
			errs = append(errs, errors.New("rate.two_factor.limit debe ser positivo"))
		}
	}

	if c.Auth.TwoFactor.CodeDigits < 4 || c.Auth.TwoFactor.CodeDigits > 10 {
		errs = append(errs, errors.New("auth.two_factor.code_digits fuera de rango (4-10)"))
	}

	if strings.EqualFold(c.App.Env, "prod") {
		if len(c.JWT.Secret) < 32 {
			errs = append(errs, errors.New("jwt.secret requerido (>=32 bytes) en prod"))
		}
		if strings.TrimSpace(c.Storage.DSN) == "" {
			errs = append(errs, errors.New("storage.dsn requerido en prod"))
		}
	}

	return errors.Join(errs...)
}

// ServiceDSN devuelve el DSN de servicio, o el DSN normal si no se configuró.
func (c *Config) ServiceDSN() string {
	if s := strings.TrimSpace(c.Storage.ServiceDSN); s != "" {
		return s
	}
	return c.Storage.DSN
}

// Dur parsea una duración ya validada; devuelve def si está vacía o es inválida.
func Dur(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

func getEnvCSV(key string) ([]string, bool) {
	s, ok := getEnvStr(key)
	if !ok {
		return nil, false
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, true
}
