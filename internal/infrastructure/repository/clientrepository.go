package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/aegis-idp/aegis/internal/domain/client"
	"github.com/aegis-idp/aegis/internal/infrastructure/persistence/models"
)

type ClientRepositoryImpl struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) client.Repository {
	return &ClientRepositoryImpl{db: db}
}

func (r *ClientRepositoryImpl) Create(ctx context.Context, c *client.RegisteredClient) error {
	exists, err := r.ExistsByClientID(ctx, c.ClientID())
	if err != nil {
		return err
	}
	if exists {
		return client.ErrClientIDExists
	}

	model := &models.ClientModel{
		ClientID:   c.ClientID(),
		Name:       c.Name(),
		SecretHash: c.SecretHash(),
		Management: c.Management(),
		Enabled:    c.Enabled(),
		CreatedAt:  c.CreatedAt(),
		UpdatedAt:  c.UpdatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return c.SetID(model.ID)
}

func (r *ClientRepositoryImpl) GetByClientID(ctx context.Context, clientID string) (*client.RegisteredClient, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).Where("client_id = ?", clientID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return r.toDomain(&model)
}

func (r *ClientRepositoryImpl) GetByID(ctx context.Context, id uint) (*client.RegisteredClient, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return r.toDomain(&model)
}

func (r *ClientRepositoryImpl) List(ctx context.Context) ([]*client.RegisteredClient, error) {
	var clientModels []*models.ClientModel
	if err := r.db.WithContext(ctx).Order("id").Find(&clientModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	clients := make([]*client.RegisteredClient, 0, len(clientModels))
	for _, model := range clientModels {
		c, err := r.toDomain(model)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, nil
}

func (r *ClientRepositoryImpl) ExistsByClientID(ctx context.Context, clientID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClientModel{}).
		Where("client_id = ?", clientID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check client id: %w", err)
	}
	return count > 0, nil
}

func (r *ClientRepositoryImpl) toDomain(model *models.ClientModel) (*client.RegisteredClient, error) {
	return client.ReconstructRegisteredClient(
		model.ID,
		model.ClientID,
		model.Name,
		model.SecretHash,
		model.Management,
		model.Enabled,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
