package match

import "context"

// Repository describes match persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, item Match) error
	Update(ctx context.Context, item Match) error
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	ListPublished(ctx context.Context) ([]Match, error)
	ListByClub(ctx context.Context, clubID string) ([]Match, error)
}
