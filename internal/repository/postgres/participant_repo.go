package postgres

import (
	"context"

	"github.com/facilityhub/lobby-service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type participantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) *participantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) Create(ctx context.Context, participant *domain.Participant) error {
	return r.db.WithContext(ctx).Create(participant).Error
}

func (r *participantRepository) GetByLobbyID(ctx context.Context, lobbyID uuid.UUID) ([]*domain.Participant, error) {
	var participants []*domain.Participant
	err := r.db.WithContext(ctx).
		Where("lobby_id = ?", lobbyID).
		Order("is_waiting, waiting_position, joined_at").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *participantRepository) GetByLobbyAndUser(ctx context.Context, lobbyID, userID uuid.UUID) (*domain.Participant, error) {
	var participant domain.Participant
	err := r.db.WithContext(ctx).
		Where("lobby_id = ? AND user_id = ?", lobbyID, userID).
		First(&participant).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *participantRepository) GetWaiting(ctx context.Context, lobbyID uuid.UUID) ([]*domain.Participant, error) {
	var participants []*domain.Participant
	err := r.db.WithContext(ctx).
		Where("lobby_id = ? AND is_waiting", lobbyID).
		Order("waiting_position, joined_at").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *participantRepository) Update(ctx context.Context, participant *domain.Participant) error {
	return r.db.WithContext(ctx).Save(participant).Error
}

func (r *participantRepository) UpdateWaitingOrder(ctx context.Context, participants []*domain.Participant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range participants {
			err := tx.Model(&domain.Participant{}).
				Where("id = ?", p.ID).
				Updates(map[string]interface{}{
					"is_waiting":       p.IsWaiting,
					"waiting_position": p.WaitingPosition,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *participantRepository) Delete(ctx context.Context, lobbyID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("lobby_id = ? AND user_id = ?", lobbyID, userID).
		Delete(&domain.Participant{}).Error
}
