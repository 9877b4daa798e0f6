package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sitemapgen/internal/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, newRootCmd()); err != nil {
		stop()
		os.Exit(1)
	}
}

// execute runs the command tree and logs a failure once, tagged with the
// subcommand that returned it.
func execute(ctx context.Context, root *cobra.Command) error {
	cmd, err := root.ExecuteContextC(ctx)
	if err != nil {
		name := root.Name()
		if cmd != nil {
			name = cmd.Name()
		}
		logger := log.Base()
		logger.Error().Err(err).Str("command", name).Msg("command failed")
	}
	return err
}
