package planner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/flightprofit/internal/domain"
	"github.com/Domenick1991/flightprofit/internal/kafka"
	"github.com/Domenick1991/flightprofit/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PlannerUseCase interface {
	Create(ctx context.Context, userID int64, saveName string) (*domain.FlightPlan, error)
	Get(ctx context.Context, userID, planID int64) (*domain.FlightPlan, error)
	List(ctx context.Context, userID int64) ([]domain.FlightPlan, error)
	Rename(ctx context.Context, userID, planID int64, saveName string) (*domain.FlightPlan, error)
	Delete(ctx context.Context, userID, planID int64) error
	SetRoute(ctx context.Context, userID, planID int64, input RouteInput) (*domain.FlightPlan, error)
	SetAircraft(ctx context.Context, userID, planID int64, input AircraftInput) (*domain.FlightPlan, error)
	SetPrices(ctx context.Context, userID, planID int64, input PricesInput) (*domain.FlightPlan, error)
	Profit(ctx context.Context, userID, planID int64) (*domain.FlightPlan, domain.Figures, error)
	RecomputeAll(ctx context.Context) (int, error)
}

// Catalog resolves the references an edit points at.
type Catalog interface {
	GetAirport(ctx context.Context, code string) (*domain.Airport, error)
	GetAircraft(ctx context.Context, id int64) (*domain.Aircraft, error)
}

// Locker serialises edits to one flight plan. The returned func releases
// the lock.
type Locker interface {
	Lock(ctx context.Context, flightPlanID int64) (func(), error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type RouteInput struct {
	UKAirport      string `json:"uk_airport"`
	ForeignAirport string `json:"foreign_airport"`
}

type AircraftInput struct {
	AircraftID    int64 `json:"aircraft_id"`
	NumFirstClass int   `json:"num_first_class"`
}

type PricesInput struct {
	StandardClassPrice decimal.Decimal `json:"standard_class_price"`
	FirstClassPrice    decimal.Decimal `json:"first_class_price"`
}

type PlannerService struct {
	plans              repository.FlightPlanRepository
	catalog            Catalog
	locker             Locker
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	maxPlansPerUser    int
	now                func() time.Time
}

type PlannerServiceOption func(*PlannerService)

func WithLocker(locker Locker) PlannerServiceOption {
	return func(s *PlannerService) {
		s.locker = locker
	}
}

func WithProducer(producer Producer, eventsTopic string) PlannerServiceOption {
	return func(s *PlannerService) {
		s.producer = producer
		s.eventsTopic = eventsTopic
	}
}

func WithNotificationsTopic(topic string) PlannerServiceOption {
	return func(s *PlannerService) {
		s.notificationsTopic = topic
	}
}

// WithMaxPlansPerUser caps how many plans one user may keep. Zero disables
// the cap.
func WithMaxPlansPerUser(n int) PlannerServiceOption {
	return func(s *PlannerService) {
		s.maxPlansPerUser = n
	}
}

func WithClock(now func() time.Time) PlannerServiceOption {
	return func(s *PlannerService) {
		s.now = now
	}
}

func NewPlannerService(
	plans repository.FlightPlanRepository,
	catalog Catalog,
	opts ...PlannerServiceOption,
) *PlannerService {
	service := &PlannerService{
		plans:   plans,
		catalog: catalog,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *PlannerService) Create(ctx context.Context, userID int64, saveName string) (*domain.FlightPlan, error) {
	plan, err := domain.NewFlightPlan(userID, saveName, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.plans.Create(ctx, plan, s.maxPlansPerUser); err != nil {
		if errors.Is(err, repository.ErrPlanLimitReached) {
			return nil, &domain.ValidationError{
				Field:   "save_name",
				Message: fmt.Sprintf("you already have %d saved flight plans, delete one first", s.maxPlansPerUser),
			}
		}
		return nil, fmt.Errorf("create flight plan: %w", err)
	}
	plan.FinalizeCreation()

	s.publish(ctx, kafka.EventFlightPlanCreated, plan, planState{})
	return plan, nil
}

// Get re-derives the figures against the catalog rows it loaded, so a
// response never shows figures older than the catalog.
func (s *PlannerService) Get(ctx context.Context, userID, planID int64) (*domain.FlightPlan, error) {
	plan, err := s.load(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	plan.Recompute()
	return plan, nil
}

func (s *PlannerService) List(ctx context.Context, userID int64) ([]domain.FlightPlan, error) {
	plans, err := s.plans.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list flight plans: %w", err)
	}
	for i := range plans {
		plans[i].Recompute()
	}
	return plans, nil
}

func (s *PlannerService) Rename(ctx context.Context, userID, planID int64, saveName string) (*domain.FlightPlan, error) {
	return s.edit(ctx, userID, planID, func(plan *domain.FlightPlan) error {
		return plan.Rename(saveName)
	})
}

func (s *PlannerService) Delete(ctx context.Context, userID, planID int64) error {
	unlock, err := s.lock(ctx, planID)
	if err != nil {
		return err
	}
	defer unlock()

	plan, err := s.load(ctx, userID, planID)
	if err != nil {
		return err
	}
	if err := s.plans.Delete(ctx, planID); err != nil {
		return fmt.Errorf("delete flight plan %d: %w", planID, err)
	}

	s.publish(ctx, kafka.EventFlightPlanDeleted, plan, stateOf(plan))
	return nil
}

func (s *PlannerService) SetRoute(ctx context.Context, userID, planID int64, input RouteInput) (*domain.FlightPlan, error) {
	var foreign *domain.Airport
	if code := strings.TrimSpace(input.ForeignAirport); code != "" {
		airport, err := s.catalog.GetAirport(ctx, code)
		if err != nil {
			return nil, err
		}
		foreign = airport
	}

	uk := domain.UKAirport(strings.ToUpper(strings.TrimSpace(input.UKAirport)))
	return s.edit(ctx, userID, planID, func(plan *domain.FlightPlan) error {
		return plan.SetRoute(uk, foreign)
	})
}

func (s *PlannerService) SetAircraft(ctx context.Context, userID, planID int64, input AircraftInput) (*domain.FlightPlan, error) {
	var aircraft *domain.Aircraft
	if input.AircraftID != 0 {
		found, err := s.catalog.GetAircraft(ctx, input.AircraftID)
		if err != nil {
			return nil, err
		}
		aircraft = found
	}

	return s.edit(ctx, userID, planID, func(plan *domain.FlightPlan) error {
		return plan.SetAircraft(aircraft, input.NumFirstClass)
	})
}

func (s *PlannerService) SetPrices(ctx context.Context, userID, planID int64, input PricesInput) (*domain.FlightPlan, error) {
	return s.edit(ctx, userID, planID, func(plan *domain.FlightPlan) error {
		return plan.SetPrices(input.StandardClassPrice, input.FirstClassPrice)
	})
}

func (s *PlannerService) Profit(ctx context.Context, userID, planID int64) (*domain.FlightPlan, domain.Figures, error) {
	plan, err := s.Get(ctx, userID, planID)
	if err != nil {
		return nil, domain.Figures{}, err
	}
	figures, err := plan.Profit()
	if err != nil {
		return plan, domain.Figures{}, err
	}
	return plan, figures, nil
}

// RecomputeAll re-derives every stored plan and saves the ones whose
// figures moved. A plan that fails is logged and skipped.
func (s *PlannerService) RecomputeAll(ctx context.Context) (int, error) {
	ids, err := s.plans.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list flight plan ids: %w", err)
	}

	changed := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		ok, err := s.recomputeOne(ctx, id)
		if err != nil {
			log.Printf("WARNING: recompute of flight plan %d failed: %v", id, err)
			continue
		}
		if ok {
			changed++
		}
	}
	return changed, nil
}

func (s *PlannerService) recomputeOne(ctx context.Context, planID int64) (bool, error) {
	unlock, err := s.lock(ctx, planID)
	if err != nil {
		return false, err
	}
	defer unlock()

	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, domain.ErrFlightPlanNotFound) {
			return false, nil
		}
		return false, err
	}

	before := plan.PricingPlan
	previous := stateOf(plan)
	plan.Recompute()
	if before.DerivedEqual(plan.PricingPlan) {
		return false, nil
	}
	if err := s.plans.Save(ctx, plan); err != nil {
		return false, fmt.Errorf("save flight plan %d: %w", planID, err)
	}

	s.publish(ctx, kafka.EventFlightPlanUpdated, plan, previous)
	return true, nil
}

// edit runs one change on the aggregate under the plan lock and persists
// it. The domain setters recompute before they return.
func (s *PlannerService) edit(ctx context.Context, userID, planID int64, apply func(*domain.FlightPlan) error) (*domain.FlightPlan, error) {
	unlock, err := s.lock(ctx, planID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	plan, err := s.load(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	previous := stateOf(plan)
	if err := apply(plan); err != nil {
		return nil, err
	}
	if err := s.plans.Save(ctx, plan); err != nil {
		return nil, fmt.Errorf("save flight plan %d: %w", planID, err)
	}

	s.publish(ctx, kafka.EventFlightPlanUpdated, plan, previous)
	return plan, nil
}

// load returns ErrFlightPlanNotFound for plans owned by someone else.
func (s *PlannerService) load(ctx context.Context, userID, planID int64) (*domain.FlightPlan, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, domain.ErrFlightPlanNotFound
	}
	return plan, nil
}

func (s *PlannerService) lock(ctx context.Context, planID int64) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	unlock, err := s.locker.Lock(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("lock flight plan %d: %w", planID, err)
	}
	return unlock, nil
}

// planState is a plan's status and profitability as last persisted.
type planState struct {
	status     domain.Status
	profitable *bool
}

// stateOf reads the stored figures of a freshly loaded plan. A plan counts
// as complete only if it was saved with figures.
func stateOf(plan *domain.FlightPlan) planState {
	if profitable, err := plan.PricingPlan.Profitable(); err == nil {
		return planState{status: domain.StatusComplete, profitable: &profitable}
	}
	if status := plan.Status(); status != domain.StatusComplete {
		return planState{status: status}
	}
	return planState{status: domain.StatusPartial}
}

func (s *PlannerService) publish(ctx context.Context, eventType string, plan *domain.FlightPlan, previous planState) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}

	event := newEvent(eventType, plan, previous, s.now())
	key := strconv.FormatInt(plan.ID, 10)
	if err := s.producer.Publish(ctx, s.eventsTopic, key, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for flight plan %d: %v", eventType, plan.ID, err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, key, event); err != nil {
			log.Printf("WARNING: failed to publish %s notification for flight plan %d: %v", eventType, plan.ID, err)
		}
	}
}

func newEvent(eventType string, plan *domain.FlightPlan, previous planState, at time.Time) kafka.FlightPlanEvent {
	event := kafka.FlightPlanEvent{
		EventID:            uuid.NewString(),
		Type:               eventType,
		FlightPlanID:       plan.ID,
		UserID:             plan.UserID,
		SaveName:           plan.SaveName,
		Status:             string(plan.Status()),
		PreviousStatus:     string(previous.status),
		PreviousProfitable: previous.profitable,
		OccurredAt:         at.UTC(),
	}
	if eventType == kafka.EventFlightPlanDeleted {
		return event
	}
	if figures, err := plan.Profit(); err == nil {
		profitable := figures.Profitable()
		event.Profitable = &profitable
		event.Profit = figures.Profit.StringFixed(2)
	}
	return event
}

var _ PlannerUseCase = (*PlannerService)(nil)
