package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jeefy/prayerjournal/internal/app"
	"github.com/jeefy/prayerjournal/internal/config"
)

// serveFlags override values loaded from the environment when set.
type serveFlags struct {
	port       int
	publicDir  string
	sqlitePath string
}

func (f *serveFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.port, "port", "p", 0, "HTTP port (overrides PORT)")
	cmd.Flags().StringVar(&f.publicDir, "public-dir", "", "static file root (overrides PRAYERS_PUBLIC_DIR)")
	cmd.Flags().StringVar(&f.sqlitePath, "sqlite-path", "", "SQLite database file (overrides PRAYERS_SQLITE_PATH)")
}

// overrides maps the flags that were set to the environment variables they
// replace.
func (f serveFlags) overrides(cmd *cobra.Command) map[string]string {
	out := make(map[string]string)
	if cmd.Flags().Changed("port") {
		out["PORT"] = strconv.Itoa(f.port)
	}
	if cmd.Flags().Changed("public-dir") {
		out["PRAYERS_PUBLIC_DIR"] = f.publicDir
	}
	if cmd.Flags().Changed("sqlite-path") {
		out["PRAYERS_SQLITE_PATH"] = f.sqlitePath
	}
	return out
}

func newServeCmd() *cobra.Command {
	var flags serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and static file server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func loadConfig(cmd *cobra.Command, flags serveFlags) (config.Config, error) {
	return config.LoadWithOverrides(flags.overrides(cmd))
}

func runServe(cmd *cobra.Command, flags serveFlags) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	svc, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	return svc.Run(cmd.Context())
}
