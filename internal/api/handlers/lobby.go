package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/facilityhub/lobby-service/internal/api/middleware"
	"github.com/facilityhub/lobby-service/internal/domain"
	"github.com/facilityhub/lobby-service/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type LobbyHandler struct {
	membership *service.MembershipService
	log        *logrus.Logger
}

func NewLobbyHandler(membership *service.MembershipService, log *logrus.Logger) *LobbyHandler {
	return &LobbyHandler{membership: membership, log: log}
}

// Request/Response types
type CreateLobbyRequest struct {
	FacilityID       string `json:"facilityId"`
	Date             string `json:"date"` // YYYY-MM-DD
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
	MinPlayers       int    `json:"minPlayers"`
	InitialGroupSize int    `json:"initialGroupSize"`
}

type LobbyResponse struct {
	ID             string                `json:"id"`
	FacilityID     string                `json:"facilityId"`
	CreatorID      string                `json:"creatorId"`
	Date           string                `json:"date"`
	StartTime      string                `json:"startTime"`
	EndTime        string                `json:"endTime"`
	MinPlayers     int                   `json:"minPlayers"`
	CurrentPlayers int                   `json:"currentPlayers"`
	WaitingCount   int                   `json:"waitingCount"`
	Status         string                `json:"status"`
	Participants   []ParticipantResponse `json:"participants,omitempty"`
}

type ParticipantResponse struct {
	ID              string `json:"id"`
	UserID          string `json:"userId"`
	Email           string `json:"email"`
	IsWaiting       bool   `json:"isWaiting"`
	WaitingPosition *int   `json:"waitingPosition,omitempty"`
	JoinedAt        string `json:"joinedAt"`
}

func toLobbyResponse(lobby *domain.Lobby, participants []*domain.Participant) LobbyResponse {
	resp := LobbyResponse{
		ID:             lobby.ID.String(),
		FacilityID:     lobby.FacilityID.String(),
		CreatorID:      lobby.CreatorID.String(),
		Date:           time.Time(lobby.Date).Format("2006-01-02"),
		StartTime:      lobby.StartTime,
		EndTime:        lobby.EndTime,
		MinPlayers:     lobby.MinPlayers,
		CurrentPlayers: lobby.CurrentPlayers,
		WaitingCount:   lobby.WaitingCount,
		Status:         string(lobby.Status),
	}
	for _, p := range participants {
		resp.Participants = append(resp.Participants, ParticipantResponse{
			ID:              p.ID.String(),
			UserID:          p.UserID.String(),
			Email:           p.ParticipantEmail,
			IsWaiting:       p.IsWaiting,
			WaitingPosition: p.WaitingPosition,
			JoinedAt:        p.JoinedAt.Format(time.RFC3339),
		})
	}
	return resp
}

func (h *LobbyHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetActorID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateLobbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	facilityID, err := uuid.Parse(req.FacilityID)
	if err != nil {
		http.Error(w, "Invalid facility ID", http.StatusBadRequest)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		http.Error(w, "Invalid date", http.StatusBadRequest)
		return
	}

	lobby, err := h.membership.CreateLobby(r.Context(), service.CreateLobbyInput{
		FacilityID:       facilityID,
		CreatorID:        actorID,
		CreatorEmail:     middleware.GetActorEmail(r.Context()),
		Date:             datatypes.Date(date),
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		MinPlayers:       req.MinPlayers,
		InitialGroupSize: req.InitialGroupSize,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrFacilityNotFound) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.writeMembershipError(w, "create", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toLobbyResponse(lobby, nil))
}

func (h *LobbyHandler) Get(w http.ResponseWriter, r *http.Request) {
	lobbyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid lobby ID", http.StatusBadRequest)
		return
	}

	lobby, participants, err := h.membership.GetState(r.Context(), lobbyID)
	if err != nil {
		if errors.Is(err, domain.ErrLobbyNotFound) {
			http.Error(w, "Lobby not found", http.StatusNotFound)
			return
		}
		h.log.WithError(err).Error("failed to get lobby state")
		http.Error(w, "Failed to get lobby", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toLobbyResponse(lobby, participants))
}

func (h *LobbyHandler) Join(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetActorID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	lobbyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid lobby ID", http.StatusBadRequest)
		return
	}

	result, err := h.membership.Join(r.Context(), lobbyID, actorID, middleware.GetActorEmail(r.Context()))
	if err != nil {
		h.writeMembershipError(w, "join", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *LobbyHandler) Leave(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetActorID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	lobbyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid lobby ID", http.StatusBadRequest)
		return
	}

	if err := h.membership.Leave(r.Context(), lobbyID, actorID); err != nil {
		h.writeMembershipError(w, "leave", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LobbyHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetActorID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	lobbyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid lobby ID", http.StatusBadRequest)
		return
	}

	if err := h.membership.Cancel(r.Context(), lobbyID, actorID); err != nil {
		h.writeMembershipError(w, "cancel", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeMembershipError maps the domain taxonomy onto HTTP statuses.
func (h *LobbyHandler) writeMembershipError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrLobbyNotFound):
		http.Error(w, "Lobby not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrAlreadyMember):
		http.Error(w, "Already a member of this lobby", http.StatusConflict)
	case errors.Is(err, domain.ErrNotMember):
		http.Error(w, "Not a member of this lobby", http.StatusBadRequest)
	case errors.Is(err, domain.ErrInvalidState):
		http.Error(w, "Lobby is closed", http.StatusConflict)
	case errors.Is(err, domain.ErrNotLobbyCreator):
		http.Error(w, "Only the lobby creator can do this", http.StatusForbidden)
	case errors.Is(err, domain.ErrConflict):
		http.Error(w, "Lobby is busy, retry", http.StatusConflict)
	case errors.Is(err, domain.ErrDependencyFailure):
		h.log.WithError(err).WithField("op", op).Error("dependency failure")
		http.Error(w, "Upstream dependency failed", http.StatusBadGateway)
	default:
		h.log.WithError(err).WithField("op", op).Error("lobby operation failed")
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
