package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/tom-jt/Diviners-Gambit/internal/config"
	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
	"github.com/tom-jt/Diviners-Gambit/internal/storage"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to configuration file")
	force := flag.Bool("force", false, "replace existing cards without asking")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	if !cfg.Database.Enabled() {
		log.Fatal("No database configured: set database.url, GAMBIT_DATABASE_URL or DATABASE_URL")
	}

	fmt.Println("=== Diviner's Gambit Catalog Seed ===")
	fmt.Printf("Connecting to database...\n")
	store, err := storage.Open(ctx, cfg.Database, zap.NewNop())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()
	fmt.Println("✓ Database connection established")

	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	existing, err := store.CardCount(ctx)
	if err != nil {
		log.Fatalf("Failed to check existing cards: %v", err)
	}
	if existing > 0 && !*force {
		fmt.Printf("Warning: Database already contains %d cards\n", existing)
		fmt.Print("Do you want to clear and reseed? (yes/no): ")
		var response string
		fmt.Scanln(&response)
		if response != "yes" {
			fmt.Println("Seed cancelled")
			return
		}
	}

	cat := catalog.Default()
	start := time.Now()
	n, err := store.SeedCatalog(ctx, cat)
	if err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}
	fmt.Printf("✓ Seeded %d cards in %s\n", n, time.Since(start).Round(time.Millisecond))
}
