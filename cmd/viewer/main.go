package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"holocard-renderer/internal/card"
	"holocard-renderer/internal/cardstore"
	"holocard-renderer/internal/clock"
	"holocard-renderer/internal/config"
	"holocard-renderer/internal/preset"
	"holocard-renderer/internal/termview"
	"holocard-renderer/internal/texture"
	"holocard-renderer/internal/viewer"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	baseDir := flag.String("data", "", "Base directory for relative paths")
	dbPath := flag.String("db", "", "Card database (default: <data>/cards.db)")
	cardID := flag.String("card", "", "Card id (default: first card in the database)")
	imageRef := flag.String("image", "", "Open this image, or with -card replace that card's image")
	presetID := flag.String("preset", "", "Preset to apply on open")
	sceneID := flag.String("scene", "", "Lighting scene")
	logFile := flag.String("log", "", "Log file (default: <data>/viewer.log)")

	flag.Parse()

	cfg, err := config.LoadOptional(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg.Resolve(config.Flags{BaseDir: *baseDir, Database: *dbPath, Scene: *sceneID})

	// The terminal belongs to the viewer; logs go to a file.
	if *logFile == "" {
		*logFile = filepath.Join(cfg.BaseDir, "viewer.log")
	}
	if err := os.MkdirAll(filepath.Dir(*logFile), 0755); err == nil {
		if f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			log.SetOutput(f)
			defer f.Close()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := cardstore.Open(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	rec, err := pickCard(ctx, store, *cardID, *imageRef)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	catalog := preset.DefaultCatalog()
	if cfg.PresetsFile != "" {
		if err := catalog.LoadFile(cfg.PresetsFile); err != nil {
			log.Printf("[VIEWER] Presets: %v", err)
		}
	}

	motion := clock.DefaultMotion()
	if cfg.Motion != nil {
		motion = clock.Motion(*cfg.Motion)
	}

	var screen *termview.Screen
	var v *viewer.Viewer
	v = viewer.New(viewer.Options{
		Supersample: 1,
		Interactive: true,
		Autoplay:    true,
		Motion:      motion,
		Sensitivity: cfg.Sensitivity,
		SceneID:     cfg.Scene,
		RevealStep:  0.12,
		Catalog:     catalog,
		Resolver:    texture.NewCache(texture.BuildIndex(cfg.ContentDir)),
		Surface: func() (viewer.Surface, error) {
			s, err := termview.Open()
			if err != nil {
				return nil, err
			}
			screen = s
			return s, nil
		},
		OnImageUpdated: func(ref string) {
			log.Printf("[VIEWER] Image updated: %s", ref)
			err := store.SetImage(ctx, v.Record().ID, ref)
			if err != nil && !errors.Is(err, cardstore.ErrNotFound) {
				log.Printf("[VIEWER] Store image: %v", err)
			}
		},
		OnPresetApplied: func(id string) {
			log.Printf("[VIEWER] Preset: %s", id)
		},
	})

	if err := openWithRetry(v); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	v.SetCard(rec)
	if *cardID != "" && *imageRef != "" {
		v.ReplaceImage(*imageRef)
	}
	if *presetID != "" && !v.ApplyPreset(*presetID) {
		log.Printf("[VIEWER] Unknown preset %q", *presetID)
	}

	in := &termview.Input{
		Quit: cancel,
		Save: func() {
			if err := save(ctx, store, v); err != nil {
				log.Printf("[VIEWER] Save failed: %v", err)
				screen.SetStatus(" save failed: " + err.Error())
				return
			}
			log.Printf("[VIEWER] Saved effects for %s", v.Record().ID)
		},
	}

	// Event loop: events are applied at the start of the next frame.
	go func() {
		for {
			ev := screen.Events().PollEvent()
			if ev == nil {
				return
			}
			if _, ok := ev.(*tcell.EventResize); ok {
				screen.Events().Sync()
				continue
			}
			v.Post(func(v *viewer.Viewer) { in.Handle(ev, v) })
		}
	}()

	fps := max(1, cfg.FPS)
	frames := 0
	start := time.Now()
	clock.Run(ctx, time.Second/time.Duration(fps), func(dt float64) bool {
		screen.SetStatus(termview.Status(v))
		if _, err := v.Frame(dt); err != nil {
			log.Printf("[VIEWER] Frame: %v", err)
		}
		frames++
		return true
	})

	v.Close()
	elapsed := time.Since(start)
	fmt.Printf("Rendered %d frames in %v (%.1f FPS)\n", frames, elapsed.Round(time.Millisecond), float64(frames)/elapsed.Seconds())
}

func pickCard(ctx context.Context, store *cardstore.Store, id, imageRef string) (card.Record, error) {
	if id != "" {
		return store.Get(ctx, id)
	}
	if imageRef != "" {
		return card.Record{ID: "scratch", Title: filepath.Base(imageRef), ImageRef: imageRef}, nil
	}
	recs, err := store.List(ctx)
	if err != nil {
		return card.Record{}, err
	}
	if len(recs) == 0 {
		return card.Record{}, fmt.Errorf("no cards in database; use -image or import cards with the render tool")
	}
	return recs[0], nil
}

// openWithRetry creates the surface, offering a retry on stdin while it
// keeps failing.
func openWithRetry(v *viewer.Viewer) error {
	err := v.Open()
	stdin := bufio.NewReader(os.Stdin)
	for err != nil {
		fmt.Fprintf(os.Stderr, "%v\nRetry? [y/N] ", err)
		answer, _ := stdin.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
			return err
		}
		err = v.Retry()
	}
	return nil
}

// save writes the effect state into the card's record, creating the record
// when the card was opened from a bare image.
func save(ctx context.Context, store *cardstore.Store, v *viewer.Viewer) error {
	st := v.Snapshot()
	rec := v.Record()
	err := store.SaveEffectState(ctx, rec.ID, st)
	if !errors.Is(err, cardstore.ErrNotFound) {
		return err
	}
	rec, werr := rec.WithEffectState(st)
	if werr != nil {
		return werr
	}
	return store.Put(ctx, rec)
}
