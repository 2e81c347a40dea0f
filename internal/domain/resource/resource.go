package resource

import (
	"fmt"
	"time"
)

// Resource is one node in a client application's protected-resource
// forest. A nil parent marks a root. Resources are reference data from
// the resolver's perspective: maintained through the admin API, read-only
// during permission resolution.
type Resource struct {
	id           uint
	clientID     uint
	code         string
	name         string
	resourceType string
	parentID     *uint
	sortOrder    int
	enabled      bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewResource(clientID uint, code, name, resourceType string, parentID *uint, sortOrder int) (*Resource, error) {
	if clientID == 0 {
		return nil, fmt.Errorf("resource client id is required")
	}
	if code == "" {
		return nil, fmt.Errorf("resource code is required")
	}
	if name == "" {
		return nil, fmt.Errorf("resource name is required")
	}

	now := time.Now().UTC()
	return &Resource{
		clientID:     clientID,
		code:         code,
		name:         name,
		resourceType: resourceType,
		parentID:     parentID,
		sortOrder:    sortOrder,
		enabled:      true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructResource(id, clientID uint, code, name, resourceType string, parentID *uint, sortOrder int, enabled bool, createdAt, updatedAt time.Time) (*Resource, error) {
	if id == 0 {
		return nil, fmt.Errorf("resource ID cannot be zero")
	}
	return &Resource{
		id:           id,
		clientID:     clientID,
		code:         code,
		name:         name,
		resourceType: resourceType,
		parentID:     parentID,
		sortOrder:    sortOrder,
		enabled:      enabled,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (r *Resource) ID() uint {
	return r.id
}

func (r *Resource) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("resource ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("resource ID cannot be zero")
	}
	r.id = id
	return nil
}

func (r *Resource) ClientID() uint {
	return r.clientID
}

func (r *Resource) Code() string {
	return r.code
}

func (r *Resource) Name() string {
	return r.name
}

func (r *Resource) ResourceType() string {
	return r.resourceType
}

func (r *Resource) ParentID() *uint {
	return r.parentID
}

func (r *Resource) SortOrder() int {
	return r.sortOrder
}

func (r *Resource) Enabled() bool {
	return r.enabled
}

func (r *Resource) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Resource) UpdatedAt() time.Time {
	return r.updatedAt
}
