package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gabapcia/txlens/internal/config"
	"github.com/gabapcia/txlens/internal/handlers/cli"
	"github.com/gabapcia/txlens/internal/infra/blockchain/bitcoin"
	"github.com/gabapcia/txlens/internal/infra/blockchain/eos"
	"github.com/gabapcia/txlens/internal/infra/blockchain/evm"
	"github.com/gabapcia/txlens/internal/infra/blockchain/tron"
	"github.com/gabapcia/txlens/internal/infra/blockchain/xrp"
	"github.com/gabapcia/txlens/internal/infra/storage/redis"
	"github.com/gabapcia/txlens/internal/pkg/logger"
	"github.com/gabapcia/txlens/internal/pkg/telemetry"
	transporthttp "github.com/gabapcia/txlens/internal/pkg/transport/http"
	"github.com/gabapcia/txlens/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/txlens/internal/txresolve"
)

// serviceName identifies this process in the observability backend.
const serviceName = "txlens"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading configuration: %v\n", err)
		os.Exit(1)
	}

	shutdownTelemetry, err := telemetry.Init(ctx, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing telemetry: %v\n", err)
		os.Exit(1)
	}
	defer shutdownTelemetry(context.Background())

	if err := logger.Init(logger.WithLevel(cfg.LogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	svc, cleanup, err := buildService(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "building resolver service", "error", err)
	}
	defer cleanup()

	if err := cli.Run(ctx, svc); err != nil {
		logger.Error(ctx, "command failed", "error", err)
		os.Exit(1)
	}
}

// buildService wires the per-chain resolvers behind the dispatcher service.
// The returned cleanup releases the token cache connection, when one is
// configured.
func buildService(ctx context.Context, cfg config.Config) (txresolve.Service, func(), error) {
	httpClient := transporthttp.NewStandardClient()

	var (
		tokenCache txresolve.TokenCache
		cleanup    = func() {}
	)
	if cfg.Redis.Address != "" {
		cache, err := redis.NewClient(ctx, cfg.Redis.Address, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		tokenCache = cache
		cleanup = func() { _ = cache.Close() }
	}

	evmResolver := func(rpc config.RPC, params evm.ChainParams) txresolve.Resolver {
		var connOpts []jsonrpc.Option
		if rpc.APIKey != "" {
			connOpts = append(connOpts, jsonrpc.WithHeader("x-api-key", rpc.APIKey))
		}

		var opts []evm.Option
		if tokenCache != nil {
			opts = append(opts, evm.WithTokenCache(tokenCache))
		}

		return evm.NewClient(jsonrpc.NewClient(httpClient, rpc.Endpoint, connOpts...), params, opts...)
	}

	tronOpts := []tron.Option{tron.WithHTTPClient(httpClient)}
	if cfg.Tron.APIKey != "" {
		tronOpts = append(tronOpts, tron.WithAPIKey(cfg.Tron.APIKey))
	}

	resolvers := map[txresolve.Network]txresolve.Resolver{
		txresolve.NetworkBitcoin:  bitcoin.NewClient(cfg.Bitcoin.Endpoint, bitcoin.WithHTTPClient(httpClient)),
		txresolve.NetworkEthereum: evmResolver(cfg.Ethereum, evm.Ethereum()),
		txresolve.NetworkBSC:      evmResolver(cfg.BSC, evm.BinanceSmartChain()),
		txresolve.NetworkPolygon:  evmResolver(cfg.Polygon, evm.Polygon()),
		txresolve.NetworkTron:     tron.NewClient(cfg.Tron.Endpoint, tronOpts...),
		txresolve.NetworkXRP:      xrp.NewClient(httpClient, cfg.XRP.Endpoints),
		txresolve.NetworkEOS:      eos.NewClient(cfg.EOS.Endpoints, eos.WithHTTPClient(httpClient)),
	}

	return txresolve.New(resolvers), cleanup, nil
}
