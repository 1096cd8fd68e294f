package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/app"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/bootstrap"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/config"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/server"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/migrate"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
	migrations "github.com/Breyner-sq/mundocomputo-access-hub-sub001/migrations/postgres"
	"github.com/spf13/cobra"
)

func newServeCmd(cfg func() *config.Config) *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta la API HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			log := logger.L().With(logger.Component("serve"))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, c)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					log.Warn("close failed", logger.Err(err))
				}
			}()

			if autoMigrate {
				applied, err := migrate.NewManager(a.Store.DB(), migrations.FS, migrations.Dir).Up(ctx)
				if err != nil {
					return err
				}
				log.Info("migrations applied", logger.Count(len(applied)))
			}

			// Primer administrador, solo si se configuró.
			if email := os.Getenv("ADMIN_EMAIL"); email != "" {
				created, err := bootstrap.EnsureAdmin(ctx, bootstrap.AdminBootstrapConfig{
					Users:    a.Store.Users,
					Email:    email,
					Password: os.Getenv("ADMIN_PASSWORD"),
					Nombre:   os.Getenv("ADMIN_NOMBRE"),
					Policy:   app.PasswordPolicy(c),
				})
				switch {
				case err != nil:
					log.Error("admin bootstrap failed", logger.Err(err))
				case created:
					log.Info("admin bootstrap completed")
				}
			}

			srv := server.New(server.Config{
				Addr:            c.Server.Addr,
				ReadTimeout:     config.Dur(c.Server.ReadTimeout, 15*time.Second),
				WriteTimeout:    config.Dur(c.Server.WriteTimeout, 30*time.Second),
				ShutdownTimeout: config.Dur(c.Server.ShutdownTimeout, 10*time.Second),
			}, a.Handler)

			if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			log.Info("bye")
			return nil
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "Aplicar migraciones pendientes antes de servir")
	return cmd
}
