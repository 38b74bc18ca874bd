package server

import "errors"

// Move-level errors. IllegalMove is surfaced to the submitter; the other
// two indicate benign client/server state skew and are dropped silently.
var (
	ErrNoSuchGame  = errors.New("no such game")
	ErrNotYourTurn = errors.New("not your turn")
	ErrIllegalMove = errors.New("illegal move")
)

// Connection-level errors. Both reject the connection attempt before any
// core state is touched.
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidToken           = errors.New("invalid token")
)

// Wire status string sent inside moveError payloads.
var ErrStatusInvalidMove string = "INVALID_MOVE"
