package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/dmehra2102/todo-api/internal/domain"
	"github.com/dmehra2102/todo-api/internal/infrastructure/config"
	"github.com/dmehra2102/todo-api/internal/infrastructure/logging"
	"github.com/dmehra2102/todo-api/internal/infrastructure/sqlstore"
	"go.uber.org/zap"
)

var (
	verbs = []string{"Buy", "Call", "Clean", "Fix", "Plan", "Read", "Review", "Schedule", "Write", "Pay"}
	nouns = []string{"milk", "the dentist", "the garage", "the bike", "a trip", "a book", "the report", "a meeting", "emails", "rent"}
)

func main() {
	count := flag.Int("n", 100, "number of todo items to insert")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.GetObservabilityConfig())
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *count < 1 {
		logger.Fatal("Item count must be positive", zap.Int("n", *count))
	}

	ctx := context.Background()
	dbCfg := cfg.GetDatabaseConfig()

	db, dialect, err := sqlstore.Open(ctx, dbCfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := sqlstore.Migrate(ctx, db, dialect); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Large batches can outlive the per-query timeout.
	dbCfg.Timeout = max(dbCfg.Timeout, time.Duration(*count)*10*time.Millisecond)
	repo := sqlstore.NewRepository(db, dialect, dbCfg)

	items := sampleItems(*count, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	if err := repo.AddBatch(ctx, items); err != nil {
		logger.Fatal("Failed to generate sample data", zap.Error(err))
	}

	logger.Info("Generated sample todo items", zap.Int("count", len(items)))
}

func sampleItems(n int, rng *rand.Rand) []*domain.TodoItem {
	items := make([]*domain.TodoItem, 0, n)
	for i := 0; i < n; i++ {
		value := fmt.Sprintf("%s %s #%d", verbs[rng.IntN(len(verbs))], nouns[rng.IntN(len(nouns))], i+1)
		items = append(items, &domain.TodoItem{
			Value:       value,
			IsCompleted: rng.IntN(2) == 1,
		})
	}
	return items
}
