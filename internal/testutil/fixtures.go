package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/facilityhub/lobby-service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FacilityBuilder creates test facilities with a builder pattern
type FacilityBuilder struct {
	name         string
	pricePerHour float64
	currency     string
}

// NewFacilityBuilder creates a new FacilityBuilder with default values
func NewFacilityBuilder() *FacilityBuilder {
	return &FacilityBuilder{
		name:         fmt.Sprintf("court_%s", uuid.New().String()[:8]),
		pricePerHour: 40,
		currency:     "USD",
	}
}

func (b *FacilityBuilder) WithPricePerHour(price float64) *FacilityBuilder {
	b.pricePerHour = price
	return b
}

// Build creates the facility in the database
func (b *FacilityBuilder) Build(t *testing.T, db *gorm.DB) *domain.Facility {
	t.Helper()

	facility := &domain.Facility{
		ID:           uuid.New(),
		Name:         b.name,
		PricePerHour: b.pricePerHour,
		Currency:     b.currency,
		CreatedAt:    time.Now(),
	}
	if err := db.Create(facility).Error; err != nil {
		t.Fatalf("failed to create facility: %v", err)
	}
	return facility
}

// LobbyBuilder creates test lobbies with members already seated or queued.
// Counters and status are kept consistent with the participant rows it
// inserts, so tests start from a state the service itself could have
// produced.
type LobbyBuilder struct {
	facility   *domain.Facility
	creatorID  uuid.UUID
	minPlayers int
	active     int
	waiting    int
	startTime  string
	endTime    string
	status     *domain.LobbyStatus
}

// NewLobbyBuilder creates a new LobbyBuilder with default values
func NewLobbyBuilder() *LobbyBuilder {
	return &LobbyBuilder{
		creatorID:  uuid.New(),
		minPlayers: 4,
		active:     1,
		startTime:  "18:00",
		endTime:    "20:00",
	}
}

func (b *LobbyBuilder) WithFacility(f *domain.Facility) *LobbyBuilder {
	b.facility = f
	return b
}

func (b *LobbyBuilder) WithCreator(creatorID uuid.UUID) *LobbyBuilder {
	b.creatorID = creatorID
	return b
}

func (b *LobbyBuilder) WithMinPlayers(n int) *LobbyBuilder {
	b.minPlayers = n
	return b
}

// WithActive sets how many active participants are seated, creator included.
func (b *LobbyBuilder) WithActive(n int) *LobbyBuilder {
	b.active = n
	return b
}

// WithWaiting queues n waiting participants at positions 1..n.
func (b *LobbyBuilder) WithWaiting(n int) *LobbyBuilder {
	b.waiting = n
	return b
}

func (b *LobbyBuilder) WithStatus(status domain.LobbyStatus) *LobbyBuilder {
	b.status = &status
	return b
}

func (b *LobbyBuilder) WithSlot(start, end string) *LobbyBuilder {
	b.startTime = start
	b.endTime = end
	return b
}

// Build creates the lobby and its participant rows. Participants are
// returned in insertion order: creator, remaining active, then the waiting
// list by position.
func (b *LobbyBuilder) Build(t *testing.T, db *gorm.DB) (*domain.Lobby, []*domain.Participant) {
	t.Helper()

	if b.facility == nil {
		b.facility = NewFacilityBuilder().Build(t, db)
	}

	status := domain.LobbyStatusOpen
	if b.active >= b.minPlayers {
		status = domain.LobbyStatusFilled
	}
	if b.status != nil {
		status = *b.status
	}

	now := time.Now()
	lobby := &domain.Lobby{
		ID:             uuid.New(),
		FacilityID:     b.facility.ID,
		CreatorID:      b.creatorID,
		Date:           datatypes.Date(now.AddDate(0, 0, 7)),
		StartTime:      b.startTime,
		EndTime:        b.endTime,
		MinPlayers:     b.minPlayers,
		CurrentPlayers: b.active,
		WaitingCount:   b.waiting,
		Status:         status,
		CreatedAt:      now,
	}
	if err := db.Create(lobby).Error; err != nil {
		t.Fatalf("failed to create lobby: %v", err)
	}

	var participants []*domain.Participant
	for i := 0; i < b.active; i++ {
		userID := b.creatorID
		if i > 0 {
			userID = uuid.New()
		}
		p := &domain.Participant{
			ID:               uuid.New(),
			LobbyID:          lobby.ID,
			UserID:           userID,
			ParticipantEmail: fmt.Sprintf("active%d@example.com", i),
			IsWaiting:        false,
			JoinedAt:         now.Add(time.Duration(i) * time.Second),
		}
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("failed to create participant: %v", err)
		}
		participants = append(participants, p)
	}

	for i := 0; i < b.waiting; i++ {
		pos := i + 1
		p := &domain.Participant{
			ID:               uuid.New(),
			LobbyID:          lobby.ID,
			UserID:           uuid.New(),
			ParticipantEmail: fmt.Sprintf("waiting%d@example.com", pos),
			IsWaiting:        true,
			WaitingPosition:  &pos,
			JoinedAt:         now.Add(time.Duration(b.active+i) * time.Second),
		}
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("failed to create waiting participant: %v", err)
		}
		participants = append(participants, p)
	}

	return lobby, participants
}
