package client

import "context"

type Repository interface {
	Create(ctx context.Context, c *RegisteredClient) error
	GetByClientID(ctx context.Context, clientID string) (*RegisteredClient, error)
	GetByID(ctx context.Context, id uint) (*RegisteredClient, error)
	List(ctx context.Context) ([]*RegisteredClient, error)
	ExistsByClientID(ctx context.Context, clientID string) (bool, error)
}
