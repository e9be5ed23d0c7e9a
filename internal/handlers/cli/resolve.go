package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gabapcia/txlens/internal/txresolve"

	"github.com/urfave/cli/v3"
)

// errTransactionNotFound is reported when no network could resolve the hash.
var errTransactionNotFound = errors.New("transaction not found")

// resolveCommand returns a CLI command that looks up a transaction hash on a
// specific network, or across every plausible network when none is given, and
// prints the normalized record as JSON.
//
// Usage example:
//
//	txlens resolve --network ethereum --hash 0x88df01...
//	txlens resolve --hash 0x88df01...
func resolveCommand(svc txresolve.Service) *cli.Command {
	return &cli.Command{
		Name:        "resolve",
		Description: "Resolve a transaction hash into the canonical normalized record.",
		Usage:       "Looks up the transaction and prints it as JSON. Without --network, candidate networks are tried in order.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "hash",
				Usage:    "Transaction hash to resolve",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "network",
				Usage: "Blockchain network name (e.g., ethereum, bitcoin, tron)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			var (
				hash    = c.String("hash")
				network = c.String("network")
			)

			var tx *txresolve.NormalizedTransaction
			if network != "" {
				resolved, err := svc.Resolve(ctx, txresolve.Network(network), hash)
				if err != nil {
					return err
				}
				tx = resolved
			} else {
				tx = svc.ResolveAuto(ctx, hash)
			}

			if tx == nil {
				return errTransactionNotFound
			}

			out, err := json.MarshalIndent(tx, "", "  ")
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(c.Writer, string(out))
			return err
		},
	}
}

// listNetworksCommand returns a CLI command that prints the networks with a
// configured resolver, one per line, in the canonical order.
//
// Usage example:
//
//	txlens networks
func listNetworksCommand(svc txresolve.Service) *cli.Command {
	return &cli.Command{
		Name:        "networks",
		Description: "List the blockchain networks available for transaction resolution.",
		Usage:       "Prints one supported network name per line.",
		Action: func(ctx context.Context, c *cli.Command) error {
			for _, network := range svc.SupportedNetworks() {
				if _, err := fmt.Fprintln(c.Writer, network); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
