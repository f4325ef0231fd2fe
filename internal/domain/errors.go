package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidMode      = errors.New("invalid recommendation mode")
	ErrSessionNotActive = errors.New("session is not active")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrAlreadyExists    = errors.New("already exists")
)
