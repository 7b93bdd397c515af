package service

import "errors"

var (
	ErrPlayerNotFound     = errors.New("player not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrRoundNotFound      = errors.New("no round launched yet")
	ErrMatchNotFound      = errors.New("match not found")
	ErrInvalidInput       = errors.New("invalid input")
)
