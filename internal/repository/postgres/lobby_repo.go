package postgres

import (
	"context"

	"github.com/facilityhub/lobby-service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type lobbyRepository struct {
	db *gorm.DB
}

func NewLobbyRepository(db *gorm.DB) *lobbyRepository {
	return &lobbyRepository{db: db}
}

func (r *lobbyRepository) Create(ctx context.Context, lobby *domain.Lobby) error {
	return r.db.WithContext(ctx).Create(lobby).Error
}

func (r *lobbyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lobby, error) {
	var lobby domain.Lobby
	err := r.db.WithContext(ctx).First(&lobby, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lobby, nil
}

func (r *lobbyRepository) Update(ctx context.Context, lobby *domain.Lobby) error {
	return r.db.WithContext(ctx).Save(lobby).Error
}
