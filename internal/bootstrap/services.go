package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/Domenick1991/flightprofit/config"
	"github.com/Domenick1991/flightprofit/internal/cache"
	"github.com/Domenick1991/flightprofit/internal/kafka"
	"github.com/Domenick1991/flightprofit/internal/service/catalog"
	"github.com/Domenick1991/flightprofit/internal/service/planner"
	"github.com/redis/go-redis/v9"
)

// Services wires the storage, Redis and Kafka dependencies into the
// catalog and planner services. Redis and Kafka are optional.
type Services struct {
	Catalog  *catalog.CatalogService
	Planner  *planner.PlannerService
	Producer *kafka.Producer

	storage *Storage
	redis   *redis.Client
}

func NewServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	storage, err := OpenStorage(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	s := &Services{storage: storage}

	var catalogCache catalog.Cache
	plannerOpts := []planner.PlannerServiceOption{
		planner.WithMaxPlansPerUser(cfg.Planner.MaxPlansPerUser),
	}

	if cfg.Redis.Addr != "" {
		s.redis = cache.NewRedisClient(cfg.Redis)
		catalogCache = cache.NewRedisCache(s.redis, time.Duration(cfg.Catalog.CacheTTLSeconds)*time.Second)
		plannerOpts = append(plannerOpts, planner.WithLocker(
			cache.NewPlanLocker(s.redis, time.Duration(cfg.Planner.LockTTLSeconds)*time.Second),
		))
	} else {
		log.Println("WARNING: redis is not configured, running without catalog cache and plan locks")
	}

	if len(cfg.Kafka.Brokers) > 0 {
		s.Producer = kafka.NewProducer(cfg.Kafka.Brokers)
		if err := s.Producer.CheckConnection(ctx); err != nil {
			log.Printf("WARNING: %v", err)
		}
		plannerOpts = append(plannerOpts,
			planner.WithProducer(s.Producer, cfg.Kafka.FlightPlanEventsTopic),
			planner.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		)
	}

	s.Catalog = catalog.NewCatalogService(storage.Catalog, catalogCache)
	s.Planner = planner.NewPlannerService(storage.FlightPlans, s.Catalog, plannerOpts...)
	return s, nil
}

func (s *Services) Close() {
	if s.Producer != nil {
		_ = s.Producer.Close()
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
	s.storage.Close()
}
