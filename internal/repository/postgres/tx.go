package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/facilityhub/lobby-service/internal/domain"
	"github.com/facilityhub/lobby-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Postgres error codes surfaced by the membership transactions.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgUniqueViolation      = "23505"
)

type lobbyTx struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// NewLobbyTx returns the transactional unit-of-work runner for lobby
// aggregates. lockTimeout bounds how long a unit waits for the lobby row
// lock before failing with domain.ErrConflict; zero means no bound.
func NewLobbyTx(db *gorm.DB, lockTimeout time.Duration) *lobbyTx {
	return &lobbyTx{db: db, lockTimeout: lockTimeout}
}

// WithLobby runs fn inside a transaction holding an exclusive row lock on
// the lobby. All reads and writes made through the tx-scoped repositories
// commit or roll back as one unit.
func (t *lobbyTx) WithLobby(ctx context.Context, lobbyID uuid.UUID, fn func(tx *repository.Repositories, lobby *domain.Lobby) error) error {
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if t.lockTimeout > 0 {
			err := tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", t.lockTimeout.Milliseconds())).Error
			if err != nil {
				return err
			}
		}

		var lobby domain.Lobby
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&lobby, "id = ?", lobbyID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrLobbyNotFound
			}
			return err
		}

		return fn(NewRepositories(tx), &lobby)
	})
	return classifyError(err)
}

// Atomic runs fn inside a plain transaction, for units that create the
// lobby row itself and so have nothing to lock yet.
func (t *lobbyTx) Atomic(ctx context.Context, fn func(tx *repository.Repositories) error) error {
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
	return classifyError(err)
}

// classifyError maps low-level Postgres failures onto the domain taxonomy.
// Serialization failures, deadlocks and lock timeouts are retryable
// conflicts. A unique violation on the (lobby_id, user_id) index means a
// concurrent transaction inserted the same member first.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Message)
		case pgUniqueViolation:
			if pgErr.ConstraintName == "idx_lobby_user" {
				return domain.ErrAlreadyMember
			}
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Message)
		}
	}
	return err
}
