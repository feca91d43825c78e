package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LobbyStatus represents the current state of a lobby
type LobbyStatus string

const (
	LobbyStatusOpen      LobbyStatus = "open"
	LobbyStatusFilled    LobbyStatus = "filled"
	LobbyStatusCancelled LobbyStatus = "cancelled"
	// LobbyStatusExpired is recognized for display but never produced by
	// Join/Leave/Cancel; an external sweeper may set it.
	LobbyStatusExpired LobbyStatus = "expired"
)

// Lobby represents a capacity-bounded group collectively filling one
// facility booking slot. CurrentPlayers and WaitingCount are denormalized
// counts over the lobby's Participant rows and are only ever mutated in the
// same transaction as those rows.
type Lobby struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FacilityID     uuid.UUID      `json:"facilityId" gorm:"type:uuid;not null;index"`
	CreatorID      uuid.UUID      `json:"creatorId" gorm:"type:uuid;not null"`
	Date           datatypes.Date `json:"date" gorm:"not null"`
	StartTime      string         `json:"startTime" gorm:"size:5;not null"`
	EndTime        string         `json:"endTime" gorm:"size:5;not null"`
	MinPlayers     int            `json:"minPlayers" gorm:"not null"`
	CurrentPlayers int            `json:"currentPlayers" gorm:"not null;default:0"`
	WaitingCount   int            `json:"waitingCount" gorm:"not null;default:0"`
	Status         LobbyStatus    `json:"status" gorm:"type:varchar(20);not null;default:'open'"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`

	// Relations
	Participants []Participant `json:"participants,omitempty" gorm:"foreignKey:LobbyID"`
}

// TableName returns the table name for GORM
func (Lobby) TableName() string {
	return "lobbies"
}

// IsFull returns true if the active members cover the capacity threshold
func (l *Lobby) IsFull() bool {
	return l.CurrentPlayers >= l.MinPlayers
}

// IsClosed returns true if the lobby no longer accepts membership changes
func (l *Lobby) IsClosed() bool {
	return l.Status == LobbyStatusCancelled || l.Status == LobbyStatusExpired
}

// Participant represents a member of a lobby, either active (counted toward
// capacity) or waiting (queued behind a full lobby).
type Participant struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	LobbyID          uuid.UUID `json:"lobbyId" gorm:"type:uuid;not null;index;uniqueIndex:idx_lobby_user"`
	UserID           uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_lobby_user"`
	ParticipantEmail string    `json:"participantEmail" gorm:"size:255;not null"`
	IsWaiting        bool      `json:"isWaiting" gorm:"not null;default:false"`
	// WaitingPosition is the 1-based FIFO rank among this lobby's waiting
	// participants, nil while active.
	WaitingPosition *int      `json:"waitingPosition"`
	JoinedAt        time.Time `json:"joinedAt"`

	// Relations
	Lobby *Lobby `json:"-" gorm:"foreignKey:LobbyID"`
}

// TableName returns the table name for GORM
func (Participant) TableName() string {
	return "lobby_participants"
}
