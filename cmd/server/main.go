package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"dungeondelve/internal/api"
	"dungeondelve/internal/config"
	"dungeondelve/internal/game"
	"dungeondelve/internal/images"
	"dungeondelve/internal/puzzle"
	"dungeondelve/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("env_file_skipped error=%q", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config_load_failed error=%q", err)
	}
	mode, err := game.ParseMode(cfg.PuzzleMode)
	if err != nil {
		log.Fatalf("config_invalid error=%q", err)
	}

	db, err := store.NewSQLiteDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("database_open_failed path=%s error=%q", cfg.DatabasePath, err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		log.Fatalf("migrate_failed error=%q", err)
	}

	var imgs game.ImageGenerator
	if cfg.AIGateway != "" || cfg.AIGatewayKey != "" {
		imgs = images.NewClient(images.Config{
			Gateway: cfg.AIGateway,
			Token:   cfg.AIGatewayKey,
			Model:   cfg.ImageModel,
			Size:    cfg.ImageSize,
		})
	} else {
		log.Printf("image_generation_disabled reason=no_gateway_configured")
	}

	engine := game.New(db, puzzle.NewCatalog(nil), imgs, mode)
	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: api.NewServer(engine).Routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("server_started addr=%s puzzle_mode=%s database=%s", cfg.Addr(), mode, cfg.DatabasePath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server_failed error=%q", err)
		}
	}()

	<-ctx.Done()
	log.Printf("server_stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server_shutdown_error error=%q", err)
	}
}
