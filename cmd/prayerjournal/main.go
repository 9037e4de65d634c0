// Package main provides the entry point for the prayer journal service.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	log.SetPrefix("[PRAYERS] ")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := newRootCmd()
	return rootCmd.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var flags serveFlags
	rootCmd := &cobra.Command{
		Use:           "prayerjournal",
		Short:         "Record and read prayers for a fixed group of people",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}
	flags.register(rootCmd)

	rootCmd.AddCommand(
		newServeCmd(),
		newInitDBCmd(),
	)
	return rootCmd
}
