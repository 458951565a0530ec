package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"namespotter.com/namespotter-go/internal/config"
	"namespotter.com/namespotter-go/internal/cv"
	"namespotter.com/namespotter-go/internal/database"
	"namespotter.com/namespotter-go/internal/events"
	"namespotter.com/namespotter-go/internal/logging"
	"namespotter.com/namespotter-go/internal/ocr"
	"namespotter.com/namespotter-go/internal/scroll"
	"namespotter.com/namespotter-go/internal/tracker"
	"namespotter.com/namespotter-go/internal/watcher"
)

func main() {
	configPath := flag.String("config", "settings.ini", "path to settings file")
	profilesPath := flag.String("profiles", "regions.yaml", "path to region profiles file")
	profileName := flag.String("profile", "", "region profile to use instead of the configured region")
	once := flag.Bool("once", false, "run a single scan and exit")
	clear := flag.Bool("clear", false, "wipe all tracked names and exit")
	flag.Parse()

	if *clear {
		if err := clearDatabase(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*configPath, *profilesPath, *profileName, *once); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, profilesPath, profileName string, once bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if profileName != "" {
		profiles, err := config.LoadProfiles(profilesPath)
		if err != nil {
			return err
		}
		profile, ok := config.FindProfile(profiles, profileName)
		if !ok {
			return fmt.Errorf("region profile %q not found in %s", profileName, profilesPath)
		}
		cfg.Region = profile.Region()
	}

	logger := logging.NewLogger("main").SetMinLevel(logging.ParseLevel(cfg.LogLevel))

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	store := database.NewNameStore(db)
	logger.InfoWithContext("Session started", map[string]interface{}{
		"session": store.SessionID(),
		"region": fmt.Sprintf("%d,%d %dx%d",
			cfg.Region.X, cfg.Region.Y, cfg.Region.Width, cfg.Region.Height),
	})

	capturer, err := cv.NewScreenCapturer(cfg.Region)
	if err != nil {
		return fmt.Errorf("failed to set up capture: %w", err)
	}

	scrollCfg := scroll.DefaultDetectorConfig()
	scrollCfg.ScrollThreshold = cfg.ScrollThreshold
	scrollCfg.CorrelationThreshold = cfg.CorrelationThreshold

	bus := events.NewBus(64)
	defer bus.Stop()

	orch := watcher.NewOrchestrator(
		capturer,
		cv.NewChangeDetector(cfg.HashThreshold),
		scroll.NewDetector(scrollCfg),
		ocr.NewTesseractExtractor(cfg.OCRMinConfidence, cfg.OCRLanguage),
		tracker.NewLedger(store),
		bus,
		logger,
		time.Duration(cfg.ScanIntervalSeconds)*time.Second,
	)

	orch.OnMarkersUpdated = printMarkers
	orch.OnScrollDetected = func(ev scroll.Event) {
		fmt.Printf("scroll %s by %dpx (confidence %.2f)\n",
			ev.Direction, ev.Magnitude, ev.Confidence)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if once {
		orch.ScanNow(ctx)
		return printStatistics(orch)
	}

	if err := orch.Start(ctx); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	orch.Stop()
	return printStatistics(orch)
}

func clearDatabase(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := database.NewNameStore(db).ClearAll(); err != nil {
		return err
	}
	if err := db.Vacuum(); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}

	fmt.Println("all tracked names cleared")
	return nil
}

// loadConfig falls back to defaults when no settings file exists yet.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := config.NewDefaultConfig()
		if err := config.SaveToINI(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
		return cfg, nil
	}
	return config.LoadFromINI(path)
}

func printMarkers(markers []tracker.Marker) {
	for _, m := range markers {
		if m.Classification == tracker.ClassFirstSeen {
			continue
		}
		fmt.Printf("duplicate %q at (%d,%d) seen %d times [%s]\n",
			m.Name, m.Rect.X, m.Rect.Y, m.Count, m.Classification)
	}
}

func printStatistics(orch *watcher.Orchestrator) error {
	stats, err := orch.Statistics()
	if err != nil {
		return fmt.Errorf("failed to read statistics: %w", err)
	}
	fmt.Printf("session: %d names, %d occurrences; database: %d names, %d occurrences\n",
		stats.SessionNames, stats.SessionOccurrences,
		stats.DatabaseNames, stats.DatabaseOccurrences)
	return nil
}
