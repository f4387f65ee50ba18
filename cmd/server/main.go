package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/depp1024/living/internal/domain"
	"github.com/depp1024/living/internal/engine"
	"github.com/depp1024/living/internal/infrastructure/geocache"
	"github.com/depp1024/living/internal/infrastructure/storage"
	"github.com/depp1024/living/internal/server"
	"github.com/depp1024/living/internal/source"
	"github.com/depp1024/living/internal/version"
	"github.com/depp1024/living/pkg/geo"
	"github.com/depp1024/living/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var (
		configPath  string
		seed        int64
		lat, lng    float64
		port        string
		journalPath string
	)
	flag.StringVar(&configPath, "config", "", "Path to YAML config (optional)")
	flag.Int64Var(&seed, "seed", 0, "Master seed (0 keeps config or random)")
	flag.Float64Var(&lat, "lat", 0, "Initial center latitude")
	flag.Float64Var(&lng, "lng", 0, "Initial center longitude")
	flag.StringVar(&port, "port", "", "HTTP port (overrides config and LIVING_PORT)")
	flag.StringVar(&journalPath, "replay", "", "Path to .lvj journal to summarize and exit")
	flag.Parse()

	logger.Log.Info("Starting Living...")
	logger.Log.Info(version.String())

	// РЕЖИМ ЖУРНАЛА
	if journalPath != "" {
		summarizeJournal(journalPath)
		return
	}

	cfg := engine.NewConfig()
	if configPath != "" {
		loaded, err := engine.LoadConfig(configPath)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to load config")
		}
		cfg = loaded
	}
	if seed != 0 {
		cfg.Seed = seed
		logger.Log.Infof("🎲 Using explicit Master Seed: %d", seed)
	} else {
		logger.Log.Infof("🎲 Using Master Seed: %d", cfg.Seed)
	}
	if lat != 0 || lng != 0 {
		c := geo.LatLng{Lat: lat, Lng: lng}
		cfg.Center = &c
	}
	if env := os.Getenv("LIVING_PORT"); env != "" {
		cfg.Port = env
	}
	if port != "" {
		cfg.Port = port
	}

	// 2. Источники данных
	var overpassOpts []source.OverpassOption
	if cfg.CachePath != "" {
		cache, err := geocache.Open(cfg.CachePath, cfg.CacheTTL)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to open geo cache")
		}
		defer cache.Close()
		if n, err := cache.Prune(context.Background()); err != nil {
			logger.Log.WithError(err).Warn("Geo cache prune failed")
		} else if n > 0 {
			logger.Log.Infof("Geo cache: pruned %d stale responses", n)
		}
		overpassOpts = append(overpassOpts, source.WithCache(cache))
	}
	overpass, err := source.NewOverpass(cfg.OverpassURL, cfg.RequestTimeout, overpassOpts...)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to init Overpass client")
	}
	roster := source.NewRosterTable(cfg.RosterSource, cfg.RequestTimeout)
	dialogue := source.NewDialogueFile(cfg.DialogueSource, cfg.RequestTimeout)

	var opts []engine.ServiceOption
	if cfg.JournalDir != "" {
		journals, err := storage.NewJournalService(cfg.JournalDir)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to init journal storage")
		}
		opts = append(opts, engine.WithJournalOpener(func(h domain.JournalHeader) (engine.Journal, error) {
			w, err := journals.Open(h)
			if err != nil {
				return nil, err
			}
			return w, nil
		}))
	}

	// 3. Ядро и первая область
	svc := engine.NewService(cfg, overpass, roster, dialogue, opts...)
	go func() {
		if _, err := svc.LoadArea(context.Background(), svc.Center()); err != nil {
			logger.Log.WithError(err).Error("Initial area load failed")
		}
	}()

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 4. Запуск сервера
	srv := server.New(svc, cfg.Port)
	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error:", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Warn("HTTP shutdown")
	}
	// Останавливает области и закрывает журналы
	svc.Shutdown()

	logger.Log.Info("Done.")
}

// summarizeJournal печатает сводку записанного журнала области.
func summarizeJournal(path string) {
	session, err := (&storage.JournalService{}).Load(path)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load journal")
	}
	counts := make(map[domain.EventKind]int)
	for _, ev := range session.Events {
		counts[ev.Kind]++
	}
	logger.Log.WithField("area", session.Header.Area).
		WithField("seed", session.Header.Seed).
		WithField("events", len(session.Events)).
		Info("Journal loaded")
	for kind, n := range counts {
		logger.Log.Infof("  %-14s %d", kind, n)
	}
}
