// Package main implements careerctl, the operator CLI for CareerLink.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gcccs/careerlink/internal/config"
	"gcccs/careerlink/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "careerctl",
	Short: "CareerLink operator tools",
	Long:  "careerctl manages CareerLink data outside the API: local users, tokens and the semantic job index.",
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		cfg = config.Load()
		logger.Init(logger.Config{
			Level:  cfg.Log.Level,
			Format: "pretty",
		})
	},
}

var cfg *config.Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
