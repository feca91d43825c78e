package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is the confirmed-slot artifact materialized exactly once when a
// lobby fills. The unique index on LobbyID enforces at-most-one booking per
// lobby at the storage level, independent of the caller's discipline.
type Booking struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FacilityID uuid.UUID      `json:"facilityId" gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID      `json:"userId" gorm:"type:uuid;not null"`
	Date       datatypes.Date `json:"date" gorm:"not null"`
	StartTime  string         `json:"startTime" gorm:"size:5;not null"`
	EndTime    string         `json:"endTime" gorm:"size:5;not null"`
	Status     BookingStatus  `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	TotalPrice float64        `json:"totalPrice" gorm:"not null"`
	Currency   string         `json:"currency" gorm:"size:3;not null;default:'USD'"`
	LobbyID    uuid.UUID      `json:"lobbyId" gorm:"type:uuid;not null;uniqueIndex"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// TableName returns the table name for GORM
func (Booking) TableName() string {
	return "bookings"
}

// Facility is the read-only collaborator record backing price lookups.
// Facility CRUD lives outside this core.
type Facility struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	PricePerHour float64   `json:"pricePerHour" gorm:"not null"`
	Currency     string    `json:"currency" gorm:"size:3;not null;default:'USD'"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TableName returns the table name for GORM
func (Facility) TableName() string {
	return "facilities"
}
