// Command blockfall-server hosts game rooms over websockets.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plus3/blockfall/server"
	"github.com/plus3/blockfall/session"
	"github.com/plus3/blockfall/settings"
)

func main() {
	addr := flag.String("addr", "", "Listen address; defaults to :$PORT or :8080.")
	settingsPath := flag.String("settings", "", "Settings file.")
	idle := flag.Duration("idle", 5*time.Minute, "Close rooms without clients after this long.")
	verbose := flag.Bool("verbose", false, "Log room and game events.")
	flag.Parse()

	if *verbose {
		server.SetLogger(slog.Default())
		session.SetLogger(slog.Default())
	}

	if *addr == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		*addr = ":" + port
	}

	s := settings.Default()
	if *settingsPath != "" {
		var err error
		if s, err = settings.Load(*settingsPath); err != nil {
			log.Fatalf("Failed to load settings: %v", err)
		}
	}
	cfg, err := s.Config()
	if err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := server.NewHub(ctx, cfg, server.WithIdleTimeout(*idle))
	srv := &http.Server{
		Addr:              *addr,
		Handler:           hub.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown: %v", err)
		}
	}()

	log.Printf("Server listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}

	// Hijacked websocket connections are not tracked by Shutdown.
	hub.Close()
	log.Println("Server stopped.")
}
