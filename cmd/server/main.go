package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/kushgupta-hiver/quarto/internal/ai"
	"github.com/kushgupta-hiver/quarto/internal/config"
	"github.com/kushgupta-hiver/quarto/internal/httpapi"
	"github.com/kushgupta-hiver/quarto/internal/match"
	"github.com/kushgupta-hiver/quarto/internal/transport/ws"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Create ONE ws handler instance; it owns the lobby
	wsHandler := ws.NewServer(ws.Config{
		Lobby: match.LobbyOptions{
			GracePeriod: cfg.GracePeriod,
			Room:        match.Options{AdvancedRules: cfg.AdvancedRules, WinCheck: cfg.WinCheck},
		},
	})
	defer wsHandler.Close()

	router := httpapi.NewRouter(httpapi.Deps{
		Thinker:  ai.NewThinker(cfg.AIMinThink, cfg.AITimeout),
		Defaults: httpapi.Defaults{AdvancedRules: cfg.AdvancedRules, WinCheck: cfg.WinCheck},
		Expiry:   httpapi.Expiry{Idle: cfg.SessionIdle, Finished: cfg.FinishedIdle},
		WS:       wsHandler,
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		log.Printf("listening on %s ...", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
