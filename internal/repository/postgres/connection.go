package postgres

import (
	"github.com/facilityhub/lobby-service/internal/domain"
	"github.com/facilityhub/lobby-service/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	err = db.AutoMigrate(
		&domain.Facility{},
		&domain.Lobby{},
		&domain.Participant{},
		&domain.Booking{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		Lobby:       NewLobbyRepository(db),
		Participant: NewParticipantRepository(db),
		Booking:     NewBookingRepository(db),
		Facility:    NewFacilityRepository(db),
	}
}
