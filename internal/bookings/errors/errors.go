// Package errors holds the booking domain's error constructors so
// handlers, services and tests agree on codes and messages.
package errors

import (
	apperrors "github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/errors"
)

func BookingNotFound(ref string) *apperrors.AppError {
	return apperrors.NotFoundWithRef("booking", ref)
}

func SameOriginDestination() *apperrors.AppError {
	return apperrors.InvalidInput("origin and destination must be different")
}

// BookingLocked maps a failed lock acquisition to a retryable conflict.
func BookingLocked(ref string) *apperrors.AppError {
	return apperrors.LockConflict("booking is being updated by another process, please retry").
		WithDetails(map[string]any{"ref_id": ref})
}

func TransitionNotAllowed(reason string) *apperrors.AppError {
	return apperrors.InvalidTransition(reason)
}

func RefGenerationFailed(err error) *apperrors.AppError {
	return apperrors.Internal("failed to generate booking reference", err)
}
