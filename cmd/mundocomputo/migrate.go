package main

import (
	"fmt"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/app"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/config"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/migrate"
	migrations "github.com/Breyner-sq/mundocomputo-access-hub-sub001/migrations/postgres"
	"github.com/spf13/cobra"
)

func newMigrateCmd(cfg func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones de Postgres (up|down|status)",
	}

	run := func(fn func(cmd *cobra.Command, m *migrate.Manager) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			st, err := app.OpenStore(cmd.Context(), cfg())
			if err != nil {
				return err
			}
			defer st.Close()
			return fn(cmd, migrate.NewManager(st.DB(), migrations.FS, migrations.Dir))
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Aplica las migraciones pendientes",
			RunE: run(func(cmd *cobra.Command, m *migrate.Manager) error {
				applied, err := m.Up(cmd.Context())
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					fmt.Println("Nada que aplicar.")
				}
				for _, name := range applied {
					fmt.Println("applied", name)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revierte la última migración aplicada",
			RunE: run(func(cmd *cobra.Command, m *migrate.Manager) error {
				name, err := m.Down(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Println("reverted", name)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Lista las migraciones aplicadas",
			RunE: run(func(cmd *cobra.Command, m *migrate.Manager) error {
				names, err := m.Status(cmd.Context())
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Println(name)
				}
				fmt.Printf("%d migración(es) aplicada(s)\n", len(names))
				return nil
			}),
		},
	)
	return cmd
}
