package domain

import "errors"

var (
	ErrEmptyName         = errors.New("name is required")
	ErrEmptyTitle        = errors.New("title is required")
	ErrInvalidLevel      = errors.New("level out of range")
	ErrInvalidEstimation = errors.New("unknown estimation")
	// ErrIncompleteWeights indicates that a weight table does not cover every
	// estimation size at every level.
	ErrIncompleteWeights = errors.New("incomplete weight table")
)
