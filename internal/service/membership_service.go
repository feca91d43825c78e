package service

import (
	"context"
	"errors"
	"time"

	"github.com/facilityhub/lobby-service/internal/domain"
	"github.com/facilityhub/lobby-service/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultMaxRetries = 3

// MembershipService is the lobby membership state machine: join, leave and
// cancel, each executed as one per-lobby atomic unit. Conflict-class
// failures are retried internally a bounded number of times before being
// surfaced to the caller.
type MembershipService struct {
	tx         repository.LobbyTx
	bookings   *BookingFactory
	log        *logrus.Logger
	maxRetries int
}

func NewMembershipService(tx repository.LobbyTx, bookings *BookingFactory, log *logrus.Logger, maxRetries int) *MembershipService {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &MembershipService{
		tx:         tx,
		bookings:   bookings,
		log:        log,
		maxRetries: maxRetries,
	}
}

type CreateLobbyInput struct {
	FacilityID   uuid.UUID
	CreatorID    uuid.UUID
	CreatorEmail string
	Date         datatypes.Date
	StartTime    string
	EndTime      string
	MinPlayers   int
	// InitialGroupSize is the number of active slots the creator's party
	// occupies at creation; defaults to 1.
	InitialGroupSize int
}

// JoinResult reports the outcome of a join: whether the actor was seated or
// queued, and the booking created if this join filled the lobby.
type JoinResult struct {
	IsWaiting       bool       `json:"isWaiting"`
	WaitingPosition *int       `json:"waitingPosition,omitempty"`
	IsFull          bool       `json:"isFull"`
	NewCount        int        `json:"newCount"`
	BookingID       *uuid.UUID `json:"bookingId,omitempty"`
}

// CreateLobby opens a lobby with the creator seated as its first active
// participant. A lobby created at or above its threshold is immediately
// filled and gets its booking in the same transaction.
func (s *MembershipService) CreateLobby(ctx context.Context, input CreateLobbyInput) (*domain.Lobby, error) {
	if input.MinPlayers < 2 {
		return nil, domain.ErrInvalidInput
	}
	if _, err := slotHours(input.StartTime, input.EndTime); err != nil {
		return nil, domain.ErrInvalidInput
	}
	groupSize := input.InitialGroupSize
	if groupSize <= 0 {
		groupSize = 1
	}

	var created *domain.Lobby
	err := s.tx.Atomic(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Facility.GetByID(ctx, input.FacilityID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrFacilityNotFound
			}
			return err
		}

		now := time.Now()
		lobby := &domain.Lobby{
			ID:             uuid.New(),
			FacilityID:     input.FacilityID,
			CreatorID:      input.CreatorID,
			Date:           input.Date,
			StartTime:      input.StartTime,
			EndTime:        input.EndTime,
			MinPlayers:     input.MinPlayers,
			CurrentPlayers: groupSize,
			Status:         domain.LobbyStatusOpen,
			CreatedAt:      now,
		}
		if lobby.IsFull() {
			lobby.Status = domain.LobbyStatusFilled
		}
		if err := tx.Lobby.Create(ctx, lobby); err != nil {
			return err
		}

		creator := &domain.Participant{
			ID:               uuid.New(),
			LobbyID:          lobby.ID,
			UserID:           input.CreatorID,
			ParticipantEmail: input.CreatorEmail,
			IsWaiting:        false,
			JoinedAt:         now,
		}
		if err := tx.Participant.Create(ctx, creator); err != nil {
			return err
		}

		if lobby.Status == domain.LobbyStatusFilled {
			if _, err := s.bookings.Create(ctx, tx, lobby); err != nil {
				return err
			}
		}

		created = lobby
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Join seats the actor if capacity remains, otherwise appends them to the
// waiting list. The join that flips the lobby across its threshold also
// creates the booking, inside the same transaction.
func (s *MembershipService) Join(ctx context.Context, lobbyID, actorID uuid.UUID, actorEmail string) (*JoinResult, error) {
	var result *JoinResult
	err := s.withRetry(ctx, "join", lobbyID, func() error {
		result = nil
		return s.tx.WithLobby(ctx, lobbyID, func(tx *repository.Repositories, lobby *domain.Lobby) error {
			if lobby.IsClosed() {
				return domain.ErrInvalidState
			}

			_, err := tx.Participant.GetByLobbyAndUser(ctx, lobbyID, actorID)
			if err == nil {
				return domain.ErrAlreadyMember
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			participant := &domain.Participant{
				ID:               uuid.New(),
				LobbyID:          lobbyID,
				UserID:           actorID,
				ParticipantEmail: actorEmail,
				JoinedAt:         time.Now(),
			}

			if lobby.IsFull() {
				pos := lobby.WaitingCount + 1
				participant.IsWaiting = true
				participant.WaitingPosition = &pos
				if err := tx.Participant.Create(ctx, participant); err != nil {
					return err
				}

				lobby.WaitingCount = pos
				if err := tx.Lobby.Update(ctx, lobby); err != nil {
					return err
				}

				result = &JoinResult{
					IsWaiting:       true,
					WaitingPosition: &pos,
					IsFull:          true,
					NewCount:        lobby.CurrentPlayers,
				}
				return nil
			}

			if err := tx.Participant.Create(ctx, participant); err != nil {
				return err
			}

			newCount := lobby.CurrentPlayers + 1
			becomingFull := newCount >= lobby.MinPlayers
			wasFilled := lobby.Status == domain.LobbyStatusFilled

			lobby.CurrentPlayers = newCount
			if becomingFull {
				lobby.Status = domain.LobbyStatusFilled
			} else {
				lobby.Status = domain.LobbyStatusOpen
			}
			if err := tx.Lobby.Update(ctx, lobby); err != nil {
				return err
			}

			result = &JoinResult{
				IsFull:   becomingFull,
				NewCount: newCount,
			}

			// Only the join that crosses the threshold creates the
			// booking. wasFilled guards a lobby that somehow reports
			// filled while under capacity.
			if becomingFull && !wasFilled {
				booking, err := s.bookings.Create(ctx, tx, lobby)
				if err != nil {
					return err
				}
				result.BookingID = &booking.ID
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Leave removes the actor from the lobby. An active departure promotes the
// head of the waiting list into the vacated slot when one exists, otherwise
// it frees capacity and reopens the lobby. A waiting departure only closes
// the positional gap it leaves behind.
func (s *MembershipService) Leave(ctx context.Context, lobbyID, actorID uuid.UUID) error {
	return s.withRetry(ctx, "leave", lobbyID, func() error {
		return s.tx.WithLobby(ctx, lobbyID, func(tx *repository.Repositories, lobby *domain.Lobby) error {
			if lobby.IsClosed() {
				return domain.ErrInvalidState
			}

			participant, err := tx.Participant.GetByLobbyAndUser(ctx, lobbyID, actorID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrNotMember
				}
				return err
			}

			if err := tx.Participant.Delete(ctx, lobbyID, actorID); err != nil {
				return err
			}

			if participant.IsWaiting {
				waiting, err := tx.Participant.GetWaiting(ctx, lobbyID)
				if err != nil {
					return err
				}
				shifted := CloseGapAt(waiting, position(participant))
				if err := tx.Participant.UpdateWaitingOrder(ctx, shifted); err != nil {
					return err
				}
				lobby.WaitingCount--
				return tx.Lobby.Update(ctx, lobby)
			}

			if lobby.WaitingCount > 0 {
				waiting, err := tx.Participant.GetWaiting(ctx, lobbyID)
				if err != nil {
					return err
				}
				promoted, renumbered := PromoteHead(waiting)
				if promoted != nil {
					// The promoted member backfills the vacated slot, so
					// CurrentPlayers is unchanged.
					if err := tx.Participant.Update(ctx, promoted); err != nil {
						return err
					}
					if err := tx.Participant.UpdateWaitingOrder(ctx, renumbered); err != nil {
						return err
					}
					lobby.WaitingCount--
					return tx.Lobby.Update(ctx, lobby)
				}
				// Counter said someone was waiting but nobody was found;
				// fall through and treat the departure as uncovered.
				lobby.WaitingCount = 0
			}

			lobby.CurrentPlayers--
			if lobby.CurrentPlayers < lobby.MinPlayers {
				lobby.Status = domain.LobbyStatusOpen
			}
			return tx.Lobby.Update(ctx, lobby)
		})
	})
}

// Cancel terminally closes the lobby. Creator only. Participant rows are
// kept for history.
func (s *MembershipService) Cancel(ctx context.Context, lobbyID, actorID uuid.UUID) error {
	return s.withRetry(ctx, "cancel", lobbyID, func() error {
		return s.tx.WithLobby(ctx, lobbyID, func(tx *repository.Repositories, lobby *domain.Lobby) error {
			if lobby.CreatorID != actorID {
				return domain.ErrNotLobbyCreator
			}
			if lobby.IsClosed() {
				return domain.ErrInvalidState
			}
			lobby.Status = domain.LobbyStatusCancelled
			return tx.Lobby.Update(ctx, lobby)
		})
	})
}

// GetState returns a snapshot of the lobby and its members, active first by
// join time and then the waiting list by position. Both reads run under the
// lobby lock so the counters are always consistent with the rows they
// summarize.
func (s *MembershipService) GetState(ctx context.Context, lobbyID uuid.UUID) (*domain.Lobby, []*domain.Participant, error) {
	var (
		lobby        *domain.Lobby
		participants []*domain.Participant
	)
	err := s.withRetry(ctx, "get_state", lobbyID, func() error {
		return s.tx.WithLobby(ctx, lobbyID, func(tx *repository.Repositories, l *domain.Lobby) error {
			ps, err := tx.Participant.GetByLobbyID(ctx, lobbyID)
			if err != nil {
				return err
			}
			lobby, participants = l, ps
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return lobby, participants, nil
}

// withRetry re-runs the unit on conflict-class failures. Every retry
// replays the whole read-decide-write unit against fresh state.
func (s *MembershipService) withRetry(ctx context.Context, op string, lobbyID uuid.UUID, fn func() error) error {
	var err error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			s.log.WithFields(logrus.Fields{
				"op":      op,
				"lobby":   lobbyID,
				"attempt": attempt,
			}).Warn("retrying lobby operation after conflict")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 25 * time.Millisecond):
			}
		}

		err = fn()
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
	}
	return err
}
