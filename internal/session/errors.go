package session

import "errors"

var (
	ErrIndexOutOfRange = errors.New("session: index out of range")
	ErrLength          = errors.New("session: at least 2 values are required")
	ErrInvalidSetting  = errors.New("session: invalid setting")
	ErrVersionMismatch = errors.New("session: state version mismatch")
	ErrMalformedState  = errors.New("session: malformed state")
)
