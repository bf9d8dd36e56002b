package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/matchbook-app/matchbook/internal/domain/sport"
	"github.com/matchbook-app/matchbook/internal/domain/user"
)

// CatalogService serves the position catalog. Reads are public; writes are
// reserved for administrators.
type CatalogService struct {
	sportRepo sport.Repository
}

func NewCatalogService(sportRepo sport.Repository) *CatalogService {
	return &CatalogService{sportRepo: sportRepo}
}

func (s *CatalogService) ListSports(ctx context.Context) ([]sport.Sport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.ListSports")
	defer span.End()

	items, err := s.sportRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sports: %w", err)
	}

	return items, nil
}

func (s *CatalogService) GetSport(ctx context.Context, code string) (sport.Sport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.GetSport")
	defer span.End()

	code = strings.TrimSpace(code)
	if code == "" {
		return sport.Sport{}, fmt.Errorf("%w: sport code is required", ErrInvalidInput)
	}

	item, exists, err := s.sportRepo.GetByCode(ctx, code)
	if err != nil {
		return sport.Sport{}, fmt.Errorf("get sport by code: %w", err)
	}
	if !exists {
		return sport.Sport{}, fmt.Errorf("%w: sport=%s", ErrNotFound, code)
	}

	return item, nil
}

func (s *CatalogService) UpsertSport(ctx context.Context, actor user.Principal, item sport.Sport) (sport.Sport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.UpsertSport")
	defer span.End()

	if !actor.IsAdmin() {
		return sport.Sport{}, fmt.Errorf("%w: catalog writes are admin-only", ErrForbidden)
	}

	item.Code = strings.TrimSpace(item.Code)
	item.Name = strings.TrimSpace(item.Name)
	if err := item.Validate(); err != nil {
		return sport.Sport{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.sportRepo.Upsert(ctx, item); err != nil {
		return sport.Sport{}, fmt.Errorf("upsert sport: %w", err)
	}

	return item, nil
}
