package service

import (
	"sort"

	"github.com/facilityhub/lobby-service/internal/domain"
)

// Waiting-list coordination: pure position arithmetic over a lobby's
// waiting participants. Callers persist the returned mutations inside the
// same transaction that triggered them. Relative order of participants not
// directly affected is never altered.

// sortWaiting orders by waiting position ascending. Positions should be
// unique per lobby; if a duplicate ever slips in, the earlier joined_at
// wins the lower rank.
func sortWaiting(waiting []*domain.Participant) {
	sort.SliceStable(waiting, func(i, j int) bool {
		pi, pj := position(waiting[i]), position(waiting[j])
		if pi != pj {
			return pi < pj
		}
		return waiting[i].JoinedAt.Before(waiting[j].JoinedAt)
	})
}

func position(p *domain.Participant) int {
	if p.WaitingPosition == nil {
		return 0
	}
	return *p.WaitingPosition
}

// PromoteHead pops the lowest-positioned waiting participant for promotion
// into an active slot and renumbers the remainder to 1..n-1. The promoted
// participant is returned with is_waiting cleared and no position; nil if
// the waiting list is empty.
func PromoteHead(waiting []*domain.Participant) (*domain.Participant, []*domain.Participant) {
	if len(waiting) == 0 {
		return nil, nil
	}
	sortWaiting(waiting)

	promoted := waiting[0]
	promoted.IsWaiting = false
	promoted.WaitingPosition = nil

	rest := waiting[1:]
	for i, p := range rest {
		pos := i + 1
		p.WaitingPosition = &pos
	}
	return promoted, rest
}

// CloseGapAt renumbers the waiting list after a departure at the given
// position, shifting everyone behind the gap up by one. Returns only the
// participants whose position changed.
func CloseGapAt(waiting []*domain.Participant, departedPosition int) []*domain.Participant {
	sortWaiting(waiting)

	var shifted []*domain.Participant
	for _, p := range waiting {
		if position(p) > departedPosition {
			pos := position(p) - 1
			p.WaitingPosition = &pos
			shifted = append(shifted, p)
		}
	}
	return shifted
}
