package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tickswap/internal/config"
	"tickswap/internal/dex"
	"tickswap/internal/ledger"
	"tickswap/internal/ledger/postgres"
)

func main() {
	root := &cobra.Command{
		Use:          "dexd",
		Short:        "Concentrated-liquidity AMM ledger engine",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("backend", config.BackendMemory, "ledger backend (memory, bbolt, postgres)")
	root.PersistentFlags().String("bbolt-path", "./data/ledger.db", "bbolt database path")
	root.PersistentFlags().String("pg-dsn", "", "Postgres DSN")
	root.PersistentFlags().StringSlice("authority", nil, "protocol fee authorities (comma-separated)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("caller", "", "calling principal, e.g. client|alice")

	registerTokenCmd := &cobra.Command{
		Use:   "register-token",
		Short: "Register a token class",
		RunE:  runRegisterToken,
	}
	registerTokenCmd.Flags().String("token", "", "token class key, e.g. GALA|Unit|none|none")
	registerTokenCmd.Flags().String("symbol", "", "token symbol")
	registerTokenCmd.Flags().Int32("decimals", 8, "token decimals")
	registerTokenCmd.Flags().String("image", "", "token image URL")
	registerTokenCmd.Flags().StringSlice("token-authority", nil, "token class authorities")
	registerTokenCmd.Flags().String("supply", "0", "initial supply")
	registerTokenCmd.Flags().String("supply-to", "", "account credited with the initial supply")
	root.AddCommand(registerTokenCmd)

	createPoolCmd := &cobra.Command{
		Use:   "create-pool",
		Short: "Create a pool for a token pair and fee tier",
		RunE:  runCreatePool,
	}
	addPairFlags(createPoolCmd)
	createPoolCmd.Flags().String("sqrt-price", "1", "initial square-root price")
	createPoolCmd.Flags().String("protocol-fee", "0", "protocol fee fraction in [0,1]")
	root.AddCommand(createPoolCmd)

	addLiquidityCmd := &cobra.Command{
		Use:   "add-liquidity",
		Short: "Deposit liquidity into a tick range",
		RunE:  runAddLiquidity,
	}
	addPairFlags(addLiquidityCmd)
	addRangeFlags(addLiquidityCmd)
	addLiquidityCmd.Flags().String("amount0", "0", "desired token0 amount")
	addLiquidityCmd.Flags().String("amount1", "0", "desired token1 amount")
	addLiquidityCmd.Flags().String("amount0-min", "0", "minimum realized token0 amount")
	addLiquidityCmd.Flags().String("amount1-min", "0", "minimum realized token1 amount")
	addLiquidityCmd.Flags().String("position-id", "", "existing position id")
	addLiquidityCmd.Flags().String("unique-key", "", "idempotency key for position creation")
	root.AddCommand(addLiquidityCmd)

	removeLiquidityCmd := &cobra.Command{
		Use:   "remove-liquidity",
		Short: "Burn liquidity from a position",
		RunE:  runRemoveLiquidity,
	}
	addPairFlags(removeLiquidityCmd)
	addRangeFlags(removeLiquidityCmd)
	removeLiquidityCmd.Flags().String("liquidity", "0", "liquidity to burn")
	removeLiquidityCmd.Flags().String("position-id", "", "position id")
	root.AddCommand(removeLiquidityCmd)

	collectCmd := &cobra.Command{
		Use:   "collect",
		Short: "Withdraw owed amounts from a position",
		RunE:  runCollect,
	}
	addPairFlags(collectCmd)
	addRangeFlags(collectCmd)
	collectCmd.Flags().String("amount0", "0", "requested token0 amount")
	collectCmd.Flags().String("amount1", "0", "requested token1 amount")
	collectCmd.Flags().String("position-id", "", "position id")
	root.AddCommand(collectCmd)

	swapCmd := &cobra.Command{
		Use:   "swap",
		Short: "Trade against a pool",
		RunE:  runSwap,
	}
	addPairFlags(swapCmd)
	addSwapFlags(swapCmd)
	root.AddCommand(swapCmd)

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a swap without executing it",
		RunE:  runQuote,
	}
	addPairFlags(quoteCmd)
	addSwapFlags(quoteCmd)
	root.AddCommand(quoteCmd)

	poolCmd := &cobra.Command{
		Use:   "pool",
		Short: "Show a pool's state",
		RunE:  runPool,
	}
	addPairFlags(poolCmd)
	root.AddCommand(poolCmd)

	positionsCmd := &cobra.Command{
		Use:   "positions",
		Short: "List an owner's positions",
		RunE:  runPositions,
	}
	positionsCmd.Flags().String("owner", "", "position owner")
	positionsCmd.Flags().String("bookmark", "", "continuation bookmark")
	positionsCmd.Flags().Int("limit", 50, "page size")
	root.AddCommand(positionsCmd)

	collectProtocolFeesCmd := &cobra.Command{
		Use:   "collect-protocol-fees",
		Short: "Withdraw accrued protocol fees",
		RunE:  runCollectProtocolFees,
	}
	addPairFlags(collectProtocolFeesCmd)
	collectProtocolFeesCmd.Flags().String("recipient", "", "fee recipient account")
	root.AddCommand(collectProtocolFeesCmd)

	setProtocolFeeCmd := &cobra.Command{
		Use:   "set-protocol-fee",
		Short: "Update a pool's protocol fee fraction",
		RunE:  runSetProtocolFee,
	}
	addPairFlags(setProtocolFeeCmd)
	setProtocolFeeCmd.Flags().String("protocol-fee", "0", "protocol fee fraction in [0,1]")
	root.AddCommand(setProtocolFeeCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPairFlags(cmd *cobra.Command) {
	cmd.Flags().String("token0", "", "token0 class key")
	cmd.Flags().String("token1", "", "token1 class key")
	cmd.Flags().Int32("fee", 3000, "fee tier (500, 3000, 10000)")
}

func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().Int32("tick-lower", 0, "lower tick of the range")
	cmd.Flags().Int32("tick-upper", 0, "upper tick of the range")
}

func addSwapFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("zero-for-one", true, "swap token0 for token1")
	cmd.Flags().String("amount", "0", "amount, positive for exact input, negative for exact output")
	cmd.Flags().String("sqrt-price-limit", "0", "price limit, 0 for the direction's extreme")
	cmd.Flags().String("amount-out-min", "0", "minimum output for exact input swaps")
	cmd.Flags().String("amount-in-max", "0", "maximum input for exact output swaps")
}

// withEngine loads config, builds the logger, opens the configured ledger
// backend, and hands the wired engine to the command body.
func withEngine(cmd *cobra.Command, fn func(ctx context.Context, eng *dex.Engine, caller string) error) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	caller, _ := cmd.Flags().GetString("caller")
	return fn(ctx, dex.NewEngine(store, cfg.Authorities, logger), caller)
}

func openStore(ctx context.Context, cfg config.Config) (ledger.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return ledger.NewMemoryStore(), nil
	case config.BackendBBolt:
		return ledger.NewBoltStore(cfg.BBoltPath)
	case config.BackendPostgres:
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func decFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("flag --%s: %w", name, err)
	}
	return value, nil
}

func printJSON(v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}
