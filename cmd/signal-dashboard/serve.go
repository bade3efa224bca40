package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/banshee-data/signal.report/internal/api"
	"github.com/banshee-data/signal.report/internal/config"
	"github.com/banshee-data/signal.report/internal/db"
	"github.com/banshee-data/signal.report/internal/fsutil"
	"github.com/banshee-data/signal.report/internal/version"
)

// newHandler mounts the dashboard and, when a database is configured, the
// admin routes under /debug/.
func newHandler(srv *api.Server, database *db.DB) (http.Handler, error) {
	mux := srv.ServeMux()
	if database != nil {
		if err := database.AttachAdminRoutes(mux); err != nil {
			return nil, err
		}
	}
	return api.LoggingMiddleware(mux), nil
}

func runServe(ctx context.Context, cfg *config.Config, fsys fsutil.FileSystem) error {
	log.Printf("starting %s", version.Get())

	tables, err := loadIntersections(ctx, cfg, fsys)
	if err != nil {
		return err
	}

	var database *db.DB
	if p := cfg.GetDBPath(); p != "" {
		if database, err = db.OpenDB(p); err != nil {
			return err
		}
		defer database.Close()
	}

	handler, err := newHandler(api.NewServer(tables, cfg), database)
	if err != nil {
		return err
	}
	server := &http.Server{
		Addr:    cfg.GetListen(),
		Handler: handler,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		wg.Wait()
		return err
	case <-ctx.Done():
	}
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		// Force close the server if graceful shutdown fails
		if err := server.Close(); err != nil {
			log.Printf("HTTP server force close error: %v", err)
		}
	}

	wg.Wait()
	log.Printf("Graceful shutdown complete")
	return nil
}
