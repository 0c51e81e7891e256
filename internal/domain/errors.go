package domain

import "errors"

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrProvider          = errors.New("llm provider failure")
	ErrMissingCredential = errors.New("llm api credential is not configured")
	ErrStore             = errors.New("reading store failure")
	ErrUnsupportedStore  = errors.New("unsupported store url")
	ErrDeckNotFound      = errors.New("deck not found")
)
