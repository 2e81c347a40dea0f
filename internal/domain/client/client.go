// Package client models the downstream systems registered to call the
// permission query surface. Each owns a resource forest and authenticates
// with a client id/secret pair.
package client

import (
	"fmt"
	"time"
)

type RegisteredClient struct {
	id         uint
	clientID   string
	name       string
	secretHash string
	management bool
	enabled    bool
	createdAt  time.Time
	updatedAt  time.Time
}

func NewRegisteredClient(clientID, name, secretHash string, management bool) (*RegisteredClient, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client id is required")
	}
	if name == "" {
		return nil, fmt.Errorf("client name is required")
	}
	if secretHash == "" {
		return nil, fmt.Errorf("client secret hash is required")
	}

	now := time.Now().UTC()
	return &RegisteredClient{
		clientID:   clientID,
		name:       name,
		secretHash: secretHash,
		management: management,
		enabled:    true,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructRegisteredClient(id uint, clientID, name, secretHash string, management, enabled bool, createdAt, updatedAt time.Time) (*RegisteredClient, error) {
	if id == 0 {
		return nil, fmt.Errorf("client ID cannot be zero")
	}
	return &RegisteredClient{
		id:         id,
		clientID:   clientID,
		name:       name,
		secretHash: secretHash,
		management: management,
		enabled:    enabled,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}, nil
}

func (c *RegisteredClient) ID() uint {
	return c.id
}

func (c *RegisteredClient) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("client ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("client ID cannot be zero")
	}
	c.id = id
	return nil
}

func (c *RegisteredClient) ClientID() string {
	return c.clientID
}

func (c *RegisteredClient) Name() string {
	return c.name
}

func (c *RegisteredClient) SecretHash() string {
	return c.secretHash
}

// Management marks clients allowed to call the grant administration API.
func (c *RegisteredClient) Management() bool {
	return c.management
}

func (c *RegisteredClient) Enabled() bool {
	return c.enabled
}

func (c *RegisteredClient) CreatedAt() time.Time {
	return c.createdAt
}

func (c *RegisteredClient) UpdatedAt() time.Time {
	return c.updatedAt
}

func (c *RegisteredClient) Disable() {
	c.enabled = false
	c.updatedAt = time.Now().UTC()
}
