package catalog

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Domenick1991/flightprofit/internal/domain"
	"github.com/Domenick1991/flightprofit/internal/repository"
)

type CatalogUseCase interface {
	ListAirports(ctx context.Context) ([]domain.Airport, error)
	ListAircraft(ctx context.Context) ([]domain.Aircraft, error)
	GetAirport(ctx context.Context, code string) (*domain.Airport, error)
	GetAircraft(ctx context.Context, id int64) (*domain.Aircraft, error)
}

type Cache interface {
	GetAirports(ctx context.Context) ([]domain.Airport, error)
	SetAirports(ctx context.Context, airports []domain.Airport) error
	GetAircraft(ctx context.Context) ([]domain.Aircraft, error)
	SetAircraft(ctx context.Context, aircraft []domain.Aircraft) error
}

type CatalogService struct {
	repo  repository.CatalogRepository
	cache Cache
}

// NewCatalogService accepts a nil cache; lists are then read from the
// repository every time.
func NewCatalogService(repo repository.CatalogRepository, cache Cache) *CatalogService {
	return &CatalogService{repo: repo, cache: cache}
}

func (s *CatalogService) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetAirports(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	airports, err := s.repo.ListAirports(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetAirports(ctx, airports)
	}
	return airports, nil
}

func (s *CatalogService) ListAircraft(ctx context.Context) ([]domain.Aircraft, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetAircraft(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	aircraft, err := s.repo.ListAircraft(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetAircraft(ctx, aircraft)
	}
	return aircraft, nil
}

// GetAirport always reads the repository so edits resolve against current
// catalog rows.
func (s *CatalogService) GetAirport(ctx context.Context, code string) (*domain.Airport, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	airport, err := s.repo.GetAirport(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &domain.ReferentialError{Entity: "airport", Key: code}
		}
		return nil, err
	}
	return airport, nil
}

func (s *CatalogService) GetAircraft(ctx context.Context, id int64) (*domain.Aircraft, error) {
	aircraft, err := s.repo.GetAircraft(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &domain.ReferentialError{Entity: "aircraft", Key: strconv.FormatInt(id, 10)}
		}
		return nil, err
	}
	return aircraft, nil
}

var _ CatalogUseCase = (*CatalogService)(nil)
