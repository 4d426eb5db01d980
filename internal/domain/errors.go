package domain

import "errors"

var (
	// ErrConfiguration is the only error that stops the process, and only at startup.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrCorruptState means the persisted snapshot could not be used as-is.
	ErrCorruptState = errors.New("persisted state is corrupt")

	ErrEmptyRoster          = errors.New("no users in rotation")
	ErrDuplicateEntry       = errors.New("user is already in the rotation")
	ErrNotFound             = errors.New("user not found in rotation")
	ErrNotAuthorized        = errors.New("only rotation admins can change the roster")
	ErrNotificationDelivery = errors.New("failed to deliver notification")
	ErrStaleAction          = errors.New("this reminder is no longer active")
	ErrAlreadyNotified      = errors.New("reminder already sent today")
	ErrShuttingDown         = errors.New("rotation service is shutting down")
	ErrStateLocked          = errors.New("rotation state is owned by another running process")
)
