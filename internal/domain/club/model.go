package club

// Club carries the ownership mapping used to authorize host-only operations.
// Full club CRUD lives with the membership service; the booking engine only
// needs to know who the host is.
type Club struct {
	ID          string
	Name        string
	OwnerUserID string
}
