package resource

import "context"

// Repository loads resource rows for tree construction and admin CRUD.
type Repository interface {
	Create(ctx context.Context, res *Resource) error
	Update(ctx context.Context, res *Resource) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*Resource, error)
	// ListAll returns every enabled resource across all clients, ordered by
	// client then sort order; the resolver builds its tree snapshot from it.
	ListAll(ctx context.Context) ([]*Resource, error)
	// ListByClient returns one client's forest.
	ListByClient(ctx context.Context, clientID uint) ([]*Resource, error)
	ExistsByCode(ctx context.Context, clientID uint, code string) (bool, error)
}
