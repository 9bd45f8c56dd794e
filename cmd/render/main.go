package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"holocard-renderer/internal/batch"
	"holocard-renderer/internal/card"
	"holocard-renderer/internal/cardstore"
	"holocard-renderer/internal/config"
	"holocard-renderer/internal/preset"
	"holocard-renderer/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	testN := flag.Int("test", 0, "Render only first N cards for testing")
	cardID := flag.String("card", "", "Render only the card with this id")
	importFile := flag.String("import", "", "JSON array of card records to add to the database first")
	presetID := flag.String("preset", "", "Apply this preset to every card instead of its saved effects")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	baseDir := flag.String("data", "", "Base directory for relative paths")
	dbPath := flag.String("db", "", "Card database (default: <data>/cards.db)")
	outputDir := flag.String("output", "", "Output directory (default: <data>/renders)")
	width := flag.Int("width", 0, "Thumbnail width (default: 250)")
	height := flag.Int("height", 0, "Thumbnail height (default: 350)")
	sceneID := flag.String("scene", "", "Lighting scene (default: studio)")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		BaseDir:   *baseDir,
		Database:  *dbPath,
		OutputDir: *outputDir,
		Width:     *width,
		Height:    *height,
		Workers:   *workers,
		Scene:     *sceneID,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := cardstore.Open(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if *importFile != "" {
		n, err := importRecords(ctx, store, *importFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing cards: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Imported: %d cards\n", n)
	}

	// Load card list
	var records []card.Record
	if *cardID != "" {
		rec, err := store.Get(ctx, *cardID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		records = []card.Record{rec}
	} else {
		records, err = store.List(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading cards: %v\n", err)
			os.Exit(1)
		}
	}

	// Limit for testing
	if *testN > 0 && *testN < len(records) {
		records = records[:*testN]
	}

	if len(records) == 0 {
		fmt.Println("No cards to render.")
		os.Exit(0)
	}

	catalog := preset.DefaultCatalog()
	if cfg.PresetsFile != "" {
		if err := catalog.LoadFile(cfg.PresetsFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: presets: %v\n", err)
		}
	}
	if *presetID != "" {
		if _, ok := catalog.Combo(*presetID); !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown preset %q\n", *presetID)
			os.Exit(1)
		}
	}

	// Build content index
	texIndex := texture.BuildIndex(cfg.ContentDir)
	texCache := texture.NewCache(texIndex)
	fmt.Printf("Content: %d images indexed\n", texIndex.Len())

	// Print summary
	mode := ""
	if *cardID != "" {
		mode = fmt.Sprintf(" (card %s)", *cardID)
	} else if *testN > 0 {
		mode = fmt.Sprintf(" (TEST: first %d)", *testN)
	}

	fmt.Printf("Holocard thumbnails → WebP%s\n", mode)
	fmt.Printf("Cards: %d, Workers: %d, Size: %dx%d\n", len(records), cfg.Workers, cfg.Width, cfg.Height)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	// Run batch
	batchCfg := batch.Config{
		OutputDir:   cfg.OutputDir,
		Resolver:    texCache,
		Catalog:     catalog,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Supersample: cfg.Supersample,
		Workers:     cfg.Workers,
		FillRatio:   cfg.FillRatio,
		Transparent: cfg.Transparent,
		SceneID:     cfg.Scene,
		Preset:      *presetID,
	}

	results := batch.Run(ctx, batchCfg, records)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(records))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := min(20, len(errors))
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.ID, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func importRecords(ctx context.Context, store *cardstore.Store, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var recs []card.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, r := range recs {
		if err := store.Put(ctx, r); err != nil {
			return 0, err
		}
	}
	return len(recs), nil
}
