package club

import "context"

// Repository resolves club ownership.
type Repository interface {
	GetByID(ctx context.Context, clubID string) (Club, bool, error)
}
