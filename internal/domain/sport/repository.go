package sport

import "context"

// Repository exposes the position catalog to the booking path.
type Repository interface {
	List(ctx context.Context) ([]Sport, error)
	GetByCode(ctx context.Context, code string) (Sport, bool, error)
	Upsert(ctx context.Context, item Sport) error
}
