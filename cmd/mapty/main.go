package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cli/browser"
	// Autoloads .env file to supply environment variables
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/lildude/mapty/internal/cache"
	"github.com/lildude/mapty/internal/config"
	"github.com/lildude/mapty/internal/database"
	"github.com/lildude/mapty/internal/geolocation"
	"github.com/lildude/mapty/internal/handlers/workouts"
	"github.com/lildude/mapty/internal/listview"
	"github.com/lildude/mapty/internal/logger"
	"github.com/lildude/mapty/internal/mapview"
	"github.com/lildude/mapty/internal/persist"
	"github.com/lildude/mapty/internal/tracker"
)

func main() {
	cfg := config.Load()
	log := logger.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("opening workout store")
	}
	defer closeStore()

	view, list, notices := mapview.New(), listview.New(), &workouts.Notices{}
	t := tracker.New(view, list, persist.New(store, cfg.StoreKey, log), notices, log, tracker.WithZoom(cfg.MapZoom))
	t.Init(ctx)

	go locate(ctx, cfg, t, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           workouts.New(t, view, list, notices, log).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	if cfg.OpenBrowser {
		if err := browser.OpenURL(fmt.Sprintf("http://localhost:%s/", cfg.Port)); err != nil {
			log.WithError(err).Warn("could not open browser")
		}
	}

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutting down server")
	}
}

// openStore picks Redis, then PostgreSQL, then SQLite.
func openStore(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (persist.Store, func(), error) {
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL, "mapty:")
		if err != nil {
			return nil, nil, err
		}
		log.Info("using redis store")
		return rc, func() { rc.Close() }, nil
	}

	db, err := database.Open(cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("getting database handle: %w", err)
	}
	log.WithField("dialect", db.Dialector.Name()).Info("using database store")
	return database.NewBlobStore(db), func() { sqlDB.Close() }, nil
}

// locate asks for the starting position once. The map stays unavailable when
// no position can be found.
func locate(ctx context.Context, cfg config.Config, t *tracker.Tracker, log logrus.FieldLogger) {
	providers := geolocation.Chain{geolocation.NewStatic(cfg.GeoLat, cfg.GeoLng)}
	if cfg.GeolocationURL != "" {
		p, err := geolocation.NewHTTPProvider(cfg.GeolocationURL)
		if err != nil {
			log.WithError(err).Warn("ignoring geolocation url")
		} else {
			providers = append(providers, p)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.GeoTimeout)
	defer cancel()
	pos, err := providers.CurrentPosition(ctx)
	if err != nil {
		t.MapUnavailable(err)
		return
	}
	t.MapReady(pos)
}
