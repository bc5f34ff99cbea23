package models

import "errors"

var (
	ErrInvalidUsername     = errors.New("username must be at least 3 characters")
	ErrInvalidTheme        = errors.New("theme must be dark or darker")
	ErrNoSelection         = errors.New("no selection made")
	ErrInvalidSelection    = errors.New("invalid selection")
	ErrBetOutOfRange       = errors.New("bet outside table limits")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAccountNotFound     = errors.New("no account, log in first")
	ErrSessionBusy         = errors.New("a round is already in progress")
	ErrRoundNotFound       = errors.New("round not found")
	ErrRoundSettled        = errors.New("round already settled")
	ErrUnknownGame         = errors.New("unknown game")
)
