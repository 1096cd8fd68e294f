// Package logger expone un logger Zap singleton con scoping por contexto.
//
// Inicialización (una vez en main):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
//	defer logger.Sync()
//
// En handlers y services:
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("auth.login"))
//	log.Info("codigo 2fa enviado", logger.UserID(id))
package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config configura el logger.
type Config struct {
	// Env: "dev" (consola con colores) o "prod" (JSON). Default "dev".
	Env string
	// Level: "debug", "info", "warn", "error". Default "info".
	Level string
	// ServiceName se agrega como campo "service" si no está vacío.
	ServiceName string
	Version     string
}

var (
	once     sync.Once
	mu       sync.RWMutex
	instance *zap.Logger
)

// Init inicializa el singleton. Solo la primera llamada tiene efecto.
func Init(cfg Config) {
	once.Do(func() {
		l := build(cfg)
		mu.Lock()
		instance = l
		mu.Unlock()
	})
}

// L retorna el logger singleton; si Init no fue llamado usa dev/info.
func L() *zap.Logger {
	mu.RLock()
	l := instance
	mu.RUnlock()
	if l == nil {
		Init(Config{Env: "dev", Level: "info"})
		mu.RLock()
		l = instance
		mu.RUnlock()
	}
	return l
}

// Sync flushea buffers pendientes.
func Sync() error {
	mu.RLock()
	l := instance
	mu.RUnlock()
	if l != nil {
		return l.Sync()
	}
	return nil
}

func build(cfg Config) *zap.Logger {
	level := parseLevel(cfg.Level)

	var zcfg zap.Config
	opts := []zap.Option{zap.AddCaller()}
	if strings.EqualFold(strings.TrimSpace(cfg.Env), "prod") {
		zcfg = zap.NewProductionConfig()
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zcfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		zcfg.DisableStacktrace = true
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	l, err := zcfg.Build(opts...)
	if err != nil {
		l, _ = zap.NewProduction()
	}

	if cfg.ServiceName != "" {
		l = l.With(zap.String("service", cfg.ServiceName))
	}
	if cfg.Version != "" {
		l = l.With(zap.String("version", cfg.Version))
	}
	return l
}

func parseLevel(lvl string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
