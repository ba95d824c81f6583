package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "pdf2claims",
		Short:         "Extract insurance claims from PDF loss runs as JSON",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file (default: $CONFIG_PATH or ./pdf2claims.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logger.level: debug|info|warn|error")

	root.AddCommand(
		serveCmd(opts),
		extractCmd(opts),
		textCmd(opts),
		parseCmd(),
		configCmd(opts),
		versionCmd(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
