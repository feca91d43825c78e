package postgres

import (
	"context"

	"github.com/facilityhub/lobby-service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *bookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) GetByLobbyID(ctx context.Context, lobbyID uuid.UUID) (*domain.Booking, error) {
	var booking domain.Booking
	err := r.db.WithContext(ctx).
		Where("lobby_id = ?", lobbyID).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
