package service

import "errors"

// Common service errors
var (
	ErrInvalidInput = errors.New("invalid input")
)

// Category/item errors
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrItemNotFound     = errors.New("item not found")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
)

// Trending rotation errors
var (
	ErrRotationCompleted = errors.New("trending rotation already completed")
	ErrNoActiveRotation  = errors.New("no trending rotation in progress")
)
