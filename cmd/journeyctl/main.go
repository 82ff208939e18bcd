// Command journeyctl runs maintenance jobs against the journey database:
// migrations, seeding, data generation, diagnostics and dev tooling.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"startup_journey/internal/config"
	"startup_journey/internal/database"
	"startup_journey/internal/logger"
	"startup_journey/internal/repositories"
)

var (
	// jsonOutput switches reports from text to JSON
	jsonOutput bool
	version    = "dev"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	logger.Flush()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "journeyctl",
	Short: "Maintenance commands for the startup journey backend",
	Long: `journeyctl manages the startup journey database and its derived data.

Configuration is read the same way as the API server: .env, the YAML file
named by JOURNEY_CONFIG, then JOURNEY_* environment variables.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print reports as JSON")
}

// setup loads the configuration and installs the logger.
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.IsDevelopment(), cfg.Sentry.DSN)
	return cfg, nil
}

// connect is setup followed by opening the database pool. Callers close
// the pool.
func connect(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	cfg, err := setup()
	if err != nil {
		return nil, nil, err
	}
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, pool, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// openCache returns the Redis cache when one is configured so that jobs
// which rewrite cached data can invalidate it.
func openCache(ctx context.Context, cfg *config.Config) (repositories.Cache, func(), error) {
	if cfg.Redis.Addr == "" {
		return repositories.NoopCache{}, func() {}, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.Addr, err)
	}
	return repositories.NewRedisRepository(rdb, cfg.Redis.TTL), func() { _ = rdb.Close() }, nil
}
