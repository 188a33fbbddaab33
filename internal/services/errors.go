package services

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrNoSession    = errors.New("no active session")
	ErrBusy         = errors.New("conversation busy")
	ErrSuperseded   = errors.New("response superseded")
)
