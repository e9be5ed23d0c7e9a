package cli

import (
	"context"
	"os"

	"github.com/gabapcia/txlens/internal/txresolve"

	"github.com/urfave/cli/v3"
)

// Run initializes and executes the txlens CLI application.
//
// It registers all available commands, including:
//
//   - `resolve`: Looks up a transaction hash and prints the normalized record.
//   - `networks`: Lists the networks with a configured resolver.
//
// Parameters:
//   - ctx: Context used to control the lifecycle of the CLI application.
//   - svc: The txresolve service implementation backing the commands.
//
// This function sets up shell completion and invokes the CLI framework to parse and run commands.
func Run(ctx context.Context, svc txresolve.Service) error {
	app := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "txlens",
		Description:           "Command-line interface for resolving blockchain transactions into a canonical record.",
		Usage:                 "txlens [command] [flags]",
		Commands: []*cli.Command{
			resolveCommand(svc),
			listNetworksCommand(svc),
		},
	}

	return app.Run(ctx, os.Args)
}
