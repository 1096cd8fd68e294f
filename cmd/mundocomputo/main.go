package main

import (
	"fmt"
	"os"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/config"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	var (
		configPath = envOr("CONFIG_PATH", "")
		cfg        *config.Config
	)

	root := &cobra.Command{
		Use:           "mundocomputo",
		Short:         "Back office de MundoComputo (API, migraciones y usuarios)",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env es opcional; las variables del sistema tienen prioridad.
			_ = godotenv.Load()

			c, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			cfg = c
			logger.Init(logger.Config{
				Env:         cfg.App.Env,
				Level:       cfg.Log.Level,
				ServiceName: "mundocomputo",
				Version:     os.Getenv("SERVICE_VERSION"),
			})
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", configPath, "Ruta del YAML de configuración (env CONFIG_PATH)")

	getCfg := func() *config.Config { return cfg }
	root.AddCommand(
		newServeCmd(getCfg),
		newMigrateCmd(getCfg),
		newUserCmd(getCfg),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
