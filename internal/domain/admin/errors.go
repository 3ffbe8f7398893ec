package admin

import "errors"

var (
	ErrInvalidView = errors.New("invalid view")
	ErrInvalidDate = errors.New("invalid date")
)
