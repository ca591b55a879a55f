package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"trojsten-graph/backend/internal/graph"
	"trojsten-graph/backend/pkg/config"
	"trojsten-graph/backend/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&app{open: openRepository}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openRepository loads config, initializes logging and connects to Neo4j
func openRepository(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := logger.InitWithOptions(logger.Options{Env: cfg.Env, Level: cfg.LogLevel, File: cfg.LogFile,
		MaxSizeMB: cfg.LogMaxSizeMB, MaxBackups: cfg.LogMaxBackups, MaxAgeDays: cfg.LogMaxAgeDays, Compress: cfg.LogCompress}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.Get()

	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify Neo4j connectivity: %w", err)
	}

	log.Debug("Connected to Neo4j", zap.String("uri", cfg.Neo4jURI))
	return &env{
		cfg:   cfg,
		log:   log,
		store: graph.NewRepository(driver).WithDatabase(cfg.Neo4jDatabase),
		close: func() {
			driver.Close(context.Background())
			logger.Sync()
		},
	}, nil
}
