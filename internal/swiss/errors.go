package swiss

import "errors"

var (
	ErrNotAParticipant     = errors.New("player is not a participant of this match")
	ErrMatchInProgress     = errors.New("match has not ended")
	ErrUnknownMatch        = errors.New("match does not belong to this round")
	ErrRoundClosed         = errors.New("round is closed")
	ErrUnknownRound        = errors.New("round does not belong to this tournament")
	ErrRoundInProgress     = errors.New("round is still in progress")
	ErrTournamentOver      = errors.New("tournament is over")
	ErrUnpairablePlayer    = errors.New("player cannot be paired")
	ErrAlreadyRegistered   = errors.New("player is already registered")
	ErrUnresolvedReference = errors.New("unresolved player reference")
	ErrUnsavedPlayer       = errors.New("player has not been saved")
	ErrInvalidDocument     = errors.New("invalid document")
)
