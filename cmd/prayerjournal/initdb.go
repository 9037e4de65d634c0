package main

import (
	"github.com/spf13/cobra"

	"github.com/jeefy/prayerjournal/internal/app"
)

func newInitDBCmd() *cobra.Command {
	var flags serveFlags
	cmd := &cobra.Command{
		Use:   "init-db",
		Short: "Create the prayers table in the configured database and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if err := app.InitDB(cmd.Context(), cfg); err != nil {
				return err
			}
			cmd.Printf("schema ready: %s\n", app.Describe(cfg))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
