package service

import (
	"github.com/facilityhub/lobby-service/internal/config"
	"github.com/facilityhub/lobby-service/internal/repository"
	"github.com/sirupsen/logrus"
)

type Services struct {
	Membership *MembershipService
	Bookings   *BookingFactory
}

func NewServices(tx repository.LobbyTx, log *logrus.Logger, cfg *config.Config) *Services {
	bookings := NewBookingFactory()
	return &Services{
		Membership: NewMembershipService(tx, bookings, log, cfg.TxMaxRetries),
		Bookings:   bookings,
	}
}
