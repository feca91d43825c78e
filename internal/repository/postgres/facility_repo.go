package postgres

import (
	"context"

	"github.com/facilityhub/lobby-service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type facilityRepository struct {
	db *gorm.DB
}

func NewFacilityRepository(db *gorm.DB) *facilityRepository {
	return &facilityRepository{db: db}
}

func (r *facilityRepository) Create(ctx context.Context, facility *domain.Facility) error {
	return r.db.WithContext(ctx).Create(facility).Error
}

func (r *facilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Facility, error) {
	var facility domain.Facility
	err := r.db.WithContext(ctx).First(&facility, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &facility, nil
}
