package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/errors"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/model"
)

// BookingValidator validates booking payloads against their struct
// tags. Normalization (trimming, uppercasing) happens in the service
// before validation, so length rules apply to the canonical form.
type BookingValidator struct {
	validate *validator.Validate
}

func NewBookingValidator() *BookingValidator {
	return &BookingValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (v *BookingValidator) ValidateCreate(req *model.BookingCreate) error {
	if err := v.validate.Struct(req); err != nil {
		return translate(err)
	}
	return nil
}

func (v *BookingValidator) ValidateTransition(req *model.TransitionRequest) error {
	if err := v.validate.Struct(req); err != nil {
		return translate(err)
	}
	return nil
}

func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Validation("invalid request payload", nil)
	}

	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fieldMessage(fe)
	}
	return apperrors.Validation("request validation failed", details)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}
