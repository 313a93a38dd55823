// Package main runs the proportional airdrop distributor:
// - Scan (per cycle): token accounts of the tracked mint
// - Distribute (per cycle): pro-rata allocation → sequential transfers
// - Record: cycle history and transfer outcomes to the selected stores
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"solana-airdrop-bot/internal/executor"
	"solana-airdrop-bot/internal/observability"
	"solana-airdrop-bot/internal/scheduler"
	"solana-airdrop-bot/internal/solana"
	"solana-airdrop-bot/internal/storage"
	chstore "solana-airdrop-bot/internal/storage/clickhouse"
	"solana-airdrop-bot/internal/storage/memory"
	"solana-airdrop-bot/internal/storage/migrations"
	pgstore "solana-airdrop-bot/internal/storage/postgres"
	"solana-airdrop-bot/internal/transfer"
	"solana-airdrop-bot/internal/wallet"
)

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	rpcEndpoint := flag.String("rpc-endpoint", os.Getenv("SOLANA_RPC_ENDPOINT"), "Solana RPC HTTP endpoint")
	wsEndpoint := flag.String("ws-endpoint", os.Getenv("SOLANA_WS_ENDPOINT"), "Solana WebSocket endpoint (required with --confirm)")
	privateKey := flag.String("private-key", os.Getenv("AIRDROP_PRIVATE_KEY"), "Sender keypair (base58 or hex)")
	mint := flag.String("mint", os.Getenv("AIRDROP_MINT"), "Tracked token mint address")
	budget := flag.Float64("budget", envFloat("AIRDROP_BUDGET", 0.2), "Amount distributed per cycle")
	minHolding := flag.Float64("min-holding", 1000, "Minimum token balance for eligibility (inclusive)")
	maxHolding := flag.Float64("max-holding", 10_000_000, "Maximum token balance for eligibility (inclusive)")
	interval := flag.Duration("interval", scheduler.DefaultCycleInterval, "Delay between distribution cycles")
	pacing := flag.Duration("pacing", executor.DefaultPacingDelay, "Delay between consecutive transfers")
	confirm := flag.Bool("confirm", false, "Wait for WebSocket signature confirmation per transfer")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string (optional)")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (optional)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty disables)")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[airdrop] ", log.LstdFlags)

	// Validate required flags
	if *rpcEndpoint == "" {
		logger.Fatal("--rpc-endpoint is required")
	}
	if *privateKey == "" {
		logger.Fatal("--private-key (or AIRDROP_PRIVATE_KEY) is required")
	}
	if *mint == "" {
		logger.Fatal("--mint is required")
	}
	if *confirm && *wsEndpoint == "" {
		logger.Fatal("--ws-endpoint is required with --confirm")
	}

	keypair, err := wallet.Load(*privateKey)
	if err != nil {
		logger.Fatalf("Failed to load keypair: %v", err)
	}
	logger.Printf("Sender wallet: %s", keypair.Pubkey())

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())

	rpc := solana.NewHTTPClient(*rpcEndpoint)

	if err := checkSenderBalance(ctx, rpc, keypair.Pubkey(), *mint, *budget, logger); err != nil {
		logger.Fatalf("Balance check failed: %v", err)
	}

	// Create stores
	cycleStore, transferStore, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, logger)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	// Optional WS client for confirmation waits
	var ws solana.WSClient
	if *confirm {
		wsClient, err := solana.NewWSClient(ctx, *wsEndpoint, nil)
		if err != nil {
			logger.Fatalf("Failed to create websocket client: %v", err)
		}
		defer wsClient.Close()
		ws = wsClient
	}

	// Optional Prometheus endpoint
	var m *observability.Metrics
	if *metricsAddr != "" {
		m = observability.NewMetrics("")
		go startHTTPServer(*metricsAddr, logger)
	}

	sender := transfer.NewSender(transfer.Options{
		RPC:     rpc,
		WS:      ws,
		Keypair: keypair,
		Logger:  logger,
	})

	exec := executor.New(executor.Options{
		Sender:      sender,
		PacingDelay: *pacing,
		Logger:      logger,
	})

	sched := scheduler.New(scheduler.Options{
		Scanner:       rpc,
		Executor:      exec,
		Mint:          *mint,
		Budget:        *budget,
		MinHolding:    *minHolding,
		MaxHolding:    *maxHolding,
		CycleInterval: *interval,
		CycleStore:    cycleStore,
		TransferStore: transferStore,
		Metrics:       m,
		Logger:        logger,
	})

	// Channel to signal completion
	done := make(chan error, 1)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(2 * time.Minute):
			logger.Println("Graceful shutdown timed out, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	err = sched.Run(ctx)
	done <- err
	cancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Distributor error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// checkSenderBalance verifies the sender can fund at least one cycle:
// a non-zero SOL balance for fees and enough of the reward asset to
// cover the per-cycle budget.
func checkSenderBalance(ctx context.Context, rpc *solana.HTTPClient, pubkey, mint string, budget float64, logger *log.Logger) error {
	lamports, err := rpc.GetBalance(ctx, pubkey)
	if err != nil {
		return fmt.Errorf("fetch SOL balance: %w", err)
	}
	if lamports == 0 {
		return fmt.Errorf("sender %s has zero SOL balance", pubkey)
	}
	logger.Printf("Sender SOL balance: %.6f", float64(lamports)/transfer.LamportsPerUnit)

	tokenBalance, err := rpc.GetTokenBalance(ctx, pubkey, mint)
	if err != nil {
		return fmt.Errorf("fetch token balance: %w", err)
	}
	if tokenBalance < budget {
		return fmt.Errorf("sender token balance %.6f below per-cycle budget %.6f", tokenBalance, budget)
	}
	logger.Printf("Sender token balance: %.6f (budget %.6f)", tokenBalance, budget)

	return nil
}

// createStores selects persistence backends. Cycle history goes to
// PostgreSQL when a DSN is given; transfer outcomes prefer ClickHouse,
// then PostgreSQL. Everything else stays in memory.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, logger *log.Logger) (storage.CycleRecordStore, storage.TransferRecordStore, func(), error) {
	var (
		cycleStore    storage.CycleRecordStore    = memory.NewCycleRecordStore()
		transferStore storage.TransferRecordStore = memory.NewTransferRecordStore()
		cleanups      []func()
	)
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	if postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		cleanups = append(cleanups, pool.Close)

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("run postgres migrations: %w", err)
		}

		cycleStore = pgstore.NewCycleRecordStore(pool)
		transferStore = pgstore.NewTransferRecordStore(pool)
		logger.Println("Using PostgreSQL storage")
	}

	if clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
		cleanups = append(cleanups, func() { conn.Close() })

		transferStore = chstore.NewTransferRecordStore(conn)
		logger.Println("Using ClickHouse transfer storage")
	}

	return cycleStore, transferStore, cleanup, nil
}

// startHTTPServer serves health and Prometheus metrics.
func startHTTPServer(addr string, logger *log.Logger) {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", observability.Handler())

	logger.Printf("Starting HTTP server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		logger.Printf("HTTP server error: %v", err)
	}
}

// envFloat reads a float env var, falling back to def.
func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
