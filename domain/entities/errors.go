package entities

import "errors"

var (
	// ErrLoad is returned when the answer source is missing, unreadable or malformed.
	ErrLoad = errors.New("answer source could not be loaded")

	// ErrNotFound is returned when an element is absent after a bounded wait.
	ErrNotFound = errors.New("element not found")

	// ErrBlocked is returned when an overlay stays on screen past its wait ceiling.
	ErrBlocked = errors.New("page blocked by overlay")

	// ErrNotInteractable is returned for disabled, read-only or hidden controls.
	ErrNotInteractable = errors.New("element not interactable")

	// ErrInteraction wraps any unexpected driver fault.
	ErrInteraction = errors.New("interaction failed")
)
