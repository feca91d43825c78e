package repository

import (
	"context"

	"github.com/facilityhub/lobby-service/internal/domain"
	"github.com/google/uuid"
)

type LobbyRepository interface {
	Create(ctx context.Context, lobby *domain.Lobby) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lobby, error)
	Update(ctx context.Context, lobby *domain.Lobby) error
}

type ParticipantRepository interface {
	Create(ctx context.Context, participant *domain.Participant) error
	// GetByLobbyID returns all members ordered for display: active by
	// joined_at, then waiting by position.
	GetByLobbyID(ctx context.Context, lobbyID uuid.UUID) ([]*domain.Participant, error)
	GetByLobbyAndUser(ctx context.Context, lobbyID, userID uuid.UUID) (*domain.Participant, error)
	// GetWaiting returns the waiting list ordered by position ascending.
	GetWaiting(ctx context.Context, lobbyID uuid.UUID) ([]*domain.Participant, error)
	Update(ctx context.Context, participant *domain.Participant) error
	// UpdateWaitingOrder persists is_waiting/waiting_position for each of
	// the given participants.
	UpdateWaitingOrder(ctx context.Context, participants []*domain.Participant) error
	Delete(ctx context.Context, lobbyID, userID uuid.UUID) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByLobbyID(ctx context.Context, lobbyID uuid.UUID) (*domain.Booking, error)
}

// FacilityRepository is the read-only collaborator that backs facility price
// lookups. Create exists for seeding and tests; facility CRUD is not part of
// this core.
type FacilityRepository interface {
	Create(ctx context.Context, facility *domain.Facility) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Facility, error)
}

// LobbyTx runs units of work against transaction-scoped repositories.
// WithLobby is the per-lobby atomic unit required by the membership state
// machine: the lobby row is read under an exclusive row lock, so concurrent
// units touching the same lobby serialize while distinct lobbies proceed in
// parallel. Contention beyond the configured bound surfaces as
// domain.ErrConflict.
type LobbyTx interface {
	WithLobby(ctx context.Context, lobbyID uuid.UUID, fn func(tx *Repositories, lobby *domain.Lobby) error) error
	Atomic(ctx context.Context, fn func(tx *Repositories) error) error
}

type Repositories struct {
	Lobby       LobbyRepository
	Participant ParticipantRepository
	Booking     BookingRepository
	Facility    FacilityRepository
}
