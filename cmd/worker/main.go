package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightprofit/config"
	"github.com/Domenick1991/flightprofit/internal/bootstrap"
	"github.com/Domenick1991/flightprofit/internal/kafka"
	"github.com/Domenick1991/flightprofit/internal/notify"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	services, err := bootstrap.NewServices(ctx, cfg)
	if err != nil {
		log.Fatalf("init services: %v", err)
	}
	defer services.Close()

	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.NotificationsTopic != "" {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
		defer consumer.Close()

		sender := notify.NewSender()
		go func() {
			if err := consumer.Consume(ctx, kafka.FlightPlanEvents(sender.Send)); err != nil {
				log.Printf("consumer stopped: %v", err)
			}
		}()
	}

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.RecomputeSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			changed, err := services.Planner.RecomputeAll(ctx)
			if err != nil {
				log.Printf("recompute flight plans error: %v", err)
				continue
			}
			if changed > 0 {
				log.Printf("recomputed %d flight plans", changed)
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
