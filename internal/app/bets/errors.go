package bets

import "errors"

var (
	ErrBetNotFound    = errors.New("bet_not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)
