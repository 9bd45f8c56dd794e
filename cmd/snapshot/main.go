package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"holocard-renderer/internal/card"
	"holocard-renderer/internal/cardstore"
	"holocard-renderer/internal/clock"
	"holocard-renderer/internal/config"
	"holocard-renderer/internal/preset"
	"holocard-renderer/internal/texture"
	"holocard-renderer/internal/viewer"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	cardID := flag.String("card", "", "Card id to load from the database")
	imageRef := flag.String("image", "", "Image reference (used when -card is not given)")
	rarity := flag.String("rarity", "", "Rarity for the fallback face")
	presetID := flag.String("preset", "", "Preset to apply")
	sceneID := flag.String("scene", "", "Lighting scene")
	at := flag.Float64("t", 0, "Animation time in seconds")
	rotX := flag.Float64("rx", -10, "Pitch in degrees")
	rotY := flag.Float64("ry", 20, "Yaw in degrees")
	zoom := flag.Float64("zoom", 1, "Zoom (0.5-3)")
	flip := flag.Bool("flip", false, "Show the back")
	width := flag.Int("width", 0, "Image width")
	height := flag.Int("height", 0, "Image height")
	out := flag.String("o", "snapshot.webp", "Output WebP path")

	flag.Parse()

	cfg, err := config.LoadOptional(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg.Resolve(config.Flags{Width: *width, Height: *height, Scene: *sceneID})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rec := card.Record{ID: "snapshot", ImageRef: *imageRef, Rarity: *rarity}
	if *cardID != "" {
		store, err := cardstore.Open(cfg.Database)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}
		rec, err = store.Get(ctx, *cardID)
		store.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	catalog := preset.DefaultCatalog()
	if cfg.PresetsFile != "" {
		if err := catalog.LoadFile(cfg.PresetsFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: presets: %v\n", err)
		}
	}

	motion := clock.DefaultMotion()
	if cfg.Motion != nil {
		motion = clock.Motion(*cfg.Motion)
	}
	// The pose comes from the flags; idle spin would move it.
	motion.Rotate = false

	v := viewer.New(viewer.Options{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Supersample: cfg.Supersample,
		Interactive: true,
		Transparent: cfg.Transparent,
		Motion:      motion,
		SceneID:     cfg.Scene,
		Catalog:     catalog,
		Resolver:    texture.NewCache(texture.BuildIndex(cfg.ContentDir)),
	})
	defer v.Close()

	v.SetCard(rec)
	if *presetID != "" && !v.ApplyPreset(*presetID) {
		fmt.Fprintf(os.Stderr, "Error: unknown preset %q\n", *presetID)
		os.Exit(1)
	}
	if err := v.WaitImage(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: image load: %v\n", err)
	}

	ctrl := v.Controller()
	ctrl.SetRotation(*rotX, *rotY)
	ctrl.SetZoom(*zoom)
	if *flip {
		ctrl.Flip()
	}
	v.Clock().Start()

	img, err := v.Frame(*at)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "Error encoding WebP: %v\n", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	m := v.Material()
	fmt.Printf("%s: %dx%d t=%.2fs preset=%s metalness=%.2f roughness=%.2f\n",
		*out, img.Bounds().Dx(), img.Bounds().Dy(), *at, v.Classification(), m.Metalness, m.Roughness)
}
