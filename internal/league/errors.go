package league

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrBookingConflict   = errors.New("player is already booked in an overlapping match")
	ErrInvalidTransition = errors.New("invalid match state transition")
	ErrPlayerInUse       = errors.New("player is referenced by existing matches")
	ErrSamePlayer        = errors.New("a player cannot play against themselves")
	ErrInvalidWinner     = errors.New("winner must be one of the match participants")
	ErrInvalidWindow     = errors.New("end time must be after start time")
	ErrValidation        = errors.New("validation failed")
)
