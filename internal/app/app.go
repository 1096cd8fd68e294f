// Package app arma la aplicación completa a partir de la configuración:
// conexiones, cache, sesiones, services, controllers y router.
package app

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/audit"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/cache"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/config"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/email"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/controllers"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/router"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services"
	healthsvc "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/health"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/money"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/metrics"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/rate"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/security/password"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/session"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/store/pg"
)

// App es la aplicación cableada.
type App struct {
	Config   *config.Config
	Handler  http.Handler
	Store    *pg.Store
	Cache    cache.Client
	Sessions *session.Manager

	serviceDB *sql.DB
}

// OpenStore abre solo el pool de la aplicación (comandos de CLI).
func OpenStore(ctx context.Context, cfg *config.Config) (*pg.Store, error) {
	db, err := pg.Open(ctx, cfg.Storage.DSN, poolConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("app db: %w", err)
	}
	return pg.New(db), nil
}

// PasswordPolicy traduce la sección security.password_policy.
func PasswordPolicy(cfg *config.Config) password.Policy {
	p := cfg.Security.PasswordPolicy
	return password.Policy{
		MinLength:     p.MinLength,
		RequireUpper:  p.RequireUpper,
		RequireLower:  p.RequireLower,
		RequireDigit:  p.RequireDigit,
		RequireSymbol: p.RequireSymbol,
	}
}

func poolConfig(cfg *config.Config) pg.PoolConfig {
	return pg.PoolConfig{
		MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Storage.Postgres.MaxIdleConns,
		ConnMaxLifetime: config.Dur(cfg.Storage.Postgres.ConnMaxLifetime, 30*time.Minute),
	}
}

// New abre las conexiones y arma el handler HTTP. Close libera todo.
func New(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	log := logger.L().With(logger.Component("app"))
	a := &App{Config: cfg}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	metricsHandler, err := metrics.Register(nil)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	// 1. Postgres: pool de la aplicación y pool de servicio (desafíos 2FA)
	if a.Store, err = OpenStore(ctx, cfg); err != nil {
		return nil, err
	}
	if a.serviceDB, err = pg.Open(ctx, cfg.ServiceDSN(), poolConfig(cfg)); err != nil {
		return nil, fmt.Errorf("service db: %w", err)
	}
	challenges := pg.NewChallengeStore(a.serviceDB)

	// 2. Cache
	a.Cache, err = cache.New(ctx, cache.Config{
		Kind:       cfg.Cache.Kind,
		Addr:       cfg.Cache.Redis.Addr,
		Password:   cfg.Cache.Redis.Password,
		DB:         cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: config.Dur(cfg.Cache.Memory.DefaultTTL, 5*time.Minute),
	})
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}

	// 3. Sesiones
	secret := []byte(cfg.JWT.Secret)
	if len(secret) == 0 {
		if strings.EqualFold(cfg.App.Env, "prod") {
			return nil, session.ErrMissingSecret
		}
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, err
		}
		log.Warn("jwt.secret vacío: usando secreto efímero, los tokens no sobreviven un reinicio")
	}
	a.Sessions, err = session.NewManager(session.Deps{
		Users:          a.Store.Users,
		Cache:          a.Cache,
		Secret:         secret,
		Issuer:         cfg.JWT.Issuer,
		AccessTTL:      config.Dur(cfg.JWT.AccessTTL, 8*time.Hour),
		ProvisionalTTL: config.Dur(cfg.Auth.ProvisionalTTL, 2*time.Minute),
	})
	if err != nil {
		return nil, err
	}
	resolver := session.NewResolver(session.ResolverDeps{
		Manager: a.Sessions,
		Users:   a.Store.Users,
		Timeout: config.Dur(cfg.Auth.RoleLookupTimeout, 3*time.Second),
	})

	// 4. Email
	var mailer email.Sender = email.LogSender{}
	if strings.TrimSpace(cfg.SMTP.Host) != "" {
		mailer = email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			FromName: cfg.SMTP.FromName,
			TLSMode:  cfg.SMTP.TLS,
		})
	} else {
		log.Warn("smtp.host vacío: los emails solo se registran en el log")
	}

	// 5. Services, controllers y router
	svcs := services.New(services.Deps{
		Users:          a.Store.Users,
		Challenges:     challenges,
		Orders:         a.Store.Orders,
		Products:       a.Store.Products,
		Sales:          a.Store.Sales,
		Sessions:       a.Sessions,
		Resolver:       resolver,
		Mailer:         mailer,
		Audit:          audit.NewRecorder(a.Store.Audit),
		AppName:        cfg.App.Name,
		CodeTTL:        config.Dur(cfg.Auth.TwoFactor.CodeTTL, 5*time.Minute),
		CodeDigits:     cfg.Auth.TwoFactor.CodeDigits,
		PasswordPolicy: PasswordPolicy(cfg),
		Money:          money.Formatter{Symbol: cfg.Currency.Symbol, Decimals: cfg.Currency.Decimals},
		HealthDeps: healthsvc.Deps{
			DBCheck:        a.Store.Ping,
			ServiceDBCheck: a.serviceDB.PingContext,
			CacheCheck:     a.Cache.Ping,
			TokenCheck:     tokenCheck(a.Sessions),
		},
	})

	loginLimiter, twoFactorLimiter := buildLimiters(cfg, a.Cache)

	a.Handler = router.New(router.Deps{
		Controllers:      controllers.New(svcs),
		Resolver:         resolver,
		LoginLimiter:     loginLimiter,
		TwoFactorLimiter: twoFactorLimiter,
		CORSOrigins:      cfg.Server.CORSAllowedOrigins,
		Metrics:          metricsHandler,
	})
	return a, nil
}

// tokenCheck firma y valida un token descartable.
func tokenCheck(m *session.Manager) healthsvc.CheckFunc {
	probe := &repository.User{ID: "readyz", Email: "readyz@localhost"}
	return func(ctx context.Context) error {
		tok, _, err := m.Issue(ctx, probe)
		if err != nil {
			return err
		}
		_, err = m.Parse(ctx, tok)
		return err
	}
}

// buildLimiters devuelve limiters nil si rate.enabled=false.
// Con cache redis el conteo es compartido entre réplicas.
func buildLimiters(cfg *config.Config, c cache.Client) (login, twoFactor rate.Limiter) {
	if !cfg.Rate.Enabled {
		return nil, nil
	}
	loginWindow := config.Dur(cfg.Rate.Login.Window, time.Minute)
	mfaWindow := config.Dur(cfg.Rate.TwoFactor.Window, time.Minute)

	if rc, ok := c.(*cache.RedisClient); ok {
		prefix := cfg.Cache.Redis.Prefix + "rl:"
		return rate.NewRedisLimiter(rc.Raw(), prefix+"login:", cfg.Rate.Login.Limit, loginWindow),
			rate.NewRedisLimiter(rc.Raw(), prefix+"2fa:", cfg.Rate.TwoFactor.Limit, mfaWindow)
	}
	return rate.NewLocalLimiter(cfg.Rate.Login.Limit, loginWindow),
		rate.NewLocalLimiter(cfg.Rate.TwoFactor.Limit, mfaWindow)
}

// Close cierra conexiones en orden inverso.
func (a *App) Close() error {
	var errs []error
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	if a.serviceDB != nil {
		errs = append(errs, a.serviceDB.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}
