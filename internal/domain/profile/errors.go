package profile

import "errors"

var (
	ErrProfileNotFound         = errors.New("profile not found")
	ErrProfileLocked           = errors.New("profile is under final review and cannot be edited")
	ErrInvalidTransitionTarget = errors.New("invalid transition target")
	ErrNoteRequired            = errors.New("a note is required for rejection or suspension")
)
