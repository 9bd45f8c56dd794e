// Package batch renders static thumbnails for many cards with a worker
// pool.
package batch

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"holocard-renderer/internal/card"
	"holocard-renderer/internal/clock"
	"holocard-renderer/internal/material"
	"holocard-renderer/internal/postprocess"
	"holocard-renderer/internal/preset"
	"holocard-renderer/internal/raster"
	"holocard-renderer/internal/texture"
	"holocard-renderer/internal/viewer"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir   string
	Resolver    texture.Resolver
	Catalog     *preset.Catalog
	Width       int
	Height      int
	Supersample int
	Workers     int
	FillRatio   float64
	Transparent bool
	SceneID     string
	// Preset, when set, is applied to every card in place of its saved
	// effects.
	Preset string
	// LoadTimeout bounds each card's image load.
	LoadTimeout time.Duration
}

// Result holds the outcome of rendering one card.
type Result struct {
	ID       string
	Title    string
	Rarity   string
	Image    string // path relative to OutputDir
	Preset   string
	Material material.State
	Success  bool
	Error    string
}

// Run renders all records using a worker pool. Each worker owns its own
// static viewer; textures are shared through cfg.Resolver.
func Run(ctx context.Context, cfg Config, records []card.Record) []Result {
	total := len(records)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()
	workers := max(1, cfg.Workers)

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f cards/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	recChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := newStaticViewer(cfg)
			defer v.Close()
			for idx := range recChan {
				if ctx.Err() != nil {
					results[idx] = failed(records[idx], ctx.Err().Error())
				} else {
					results[idx] = processCard(ctx, cfg, v, records[idx])
				}
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range records {
		recChan <- i
	}
	close(recChan)

	wg.Wait()
	close(done)

	return results
}

func newStaticViewer(cfg Config) *viewer.Viewer {
	return viewer.New(viewer.Options{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Supersample: cfg.Supersample,
		Transparent: cfg.Transparent,
		Motion:      clock.Motion{},
		SceneID:     cfg.SceneID,
		Catalog:     cfg.Catalog,
		Resolver:    cfg.Resolver,
	})
}

func failed(rec card.Record, msg string) Result {
	return Result{ID: rec.ID, Title: rec.Title, Rarity: rec.Rarity, Error: msg}
}

func processCard(ctx context.Context, cfg Config, v *viewer.Viewer, rec card.Record) Result {
	v.SetCard(rec)
	if cfg.Preset != "" && !v.ApplyPreset(cfg.Preset) {
		return failed(rec, fmt.Sprintf("unknown preset %q", cfg.Preset))
	}

	timeout := cfg.LoadTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	lctx, cancel := context.WithTimeout(ctx, timeout)
	err := v.WaitImage(lctx)
	cancel()
	if err != nil {
		// The fallback face is still a usable thumbnail.
		fmt.Printf("  %s: image load: %v\n", rec.ID, err)
	}

	img, err := v.Frame(0)
	if err != nil {
		return failed(rec, err.Error())
	}
	if cfg.Transparent {
		if raster.Coverage(img) == 0 {
			return failed(rec, "empty render")
		}
		img = postprocess.CropAndCenter(img, cfg.Width, cfg.Height, cfg.FillRatio)
	}

	rel := FileName(rec.ID)
	if err := writeWebP(filepath.Join(cfg.OutputDir, rel), img); err != nil {
		return failed(rec, err.Error())
	}

	res := failed(rec, "")
	res.Image = rel
	res.Preset = v.Classification()
	res.Material = v.Material()
	res.Success = true
	return res
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName maps a card id to its thumbnail file name.
func FileName(id string) string {
	name := unsafeChars.ReplaceAllString(id, "_")
	if name == "" || name == "." || name == ".." {
		name = "_"
	}
	return name + ".webp"
}

func writeWebP(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("WebP encode: %w", err)
	}
	return f.Close()
}
