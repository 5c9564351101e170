package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightprofit/config"
	"github.com/Domenick1991/flightprofit/internal/bootstrap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := bootstrap.NewServices(ctx, cfg)
	if err != nil {
		log.Fatalf("init services: %v", err)
	}
	defer services.Close()

	log.Printf("listening on %s (database: %s)", cfg.HTTP.Address, cfg.Database.Driver)
	if err := bootstrap.Run(ctx, cfg, services.Catalog, services.Planner); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
