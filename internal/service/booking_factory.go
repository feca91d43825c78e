package service

import (
	"context"
	"fmt"
	"time"

	"github.com/facilityhub/lobby-service/internal/domain"
	"github.com/facilityhub/lobby-service/internal/repository"
	"github.com/google/uuid"
)

// BookingFactory materializes the pending booking for a lobby that just
// filled. It must only be invoked from inside the atomic transition that
// flips the lobby across its capacity threshold; the unique index on
// bookings.lobby_id backs that guarantee at the storage level.
type BookingFactory struct{}

func NewBookingFactory() *BookingFactory {
	return &BookingFactory{}
}

// Create reads the facility's hourly price and inserts a pending booking
// owned by the lobby creator. Any collaborator failure is surfaced as
// domain.ErrDependencyFailure so the enclosing join rolls back rather than
// leaving a filled lobby without a booking.
func (f *BookingFactory) Create(ctx context.Context, tx *repository.Repositories, lobby *domain.Lobby) (*domain.Booking, error) {
	facility, err := tx.Facility.GetByID(ctx, lobby.FacilityID)
	if err != nil {
		return nil, fmt.Errorf("%w: look up facility price: %v", domain.ErrDependencyFailure, err)
	}

	hours, err := slotHours(lobby.StartTime, lobby.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDependencyFailure, err)
	}

	booking := &domain.Booking{
		ID:         uuid.New(),
		FacilityID: lobby.FacilityID,
		UserID:     lobby.CreatorID,
		Date:       lobby.Date,
		StartTime:  lobby.StartTime,
		EndTime:    lobby.EndTime,
		Status:     domain.BookingStatusPending,
		TotalPrice: hours * facility.PricePerHour,
		Currency:   facility.Currency,
		LobbyID:    lobby.ID,
		CreatedAt:  time.Now(),
	}

	if err := tx.Booking.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("%w: create booking: %v", domain.ErrDependencyFailure, err)
	}
	return booking, nil
}

// slotHours returns the duration of a HH:MM..HH:MM slot in hours.
func slotHours(start, end string) (float64, error) {
	st, err := time.Parse("15:04", start)
	if err != nil {
		return 0, fmt.Errorf("invalid start time %q", start)
	}
	et, err := time.Parse("15:04", end)
	if err != nil {
		return 0, fmt.Errorf("invalid end time %q", end)
	}
	d := et.Sub(st)
	if d <= 0 {
		return 0, fmt.Errorf("slot end %q not after start %q", end, start)
	}
	return d.Hours(), nil
}
