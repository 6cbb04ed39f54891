package validator

import (
	"testing"

	apperrors "github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/errors"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/model"
)

func TestValidateCreateAccepted(t *testing.T) {
	v := NewBookingValidator()

	err := v.ValidateCreate(&model.BookingCreate{
		Origin:      "DEL",
		Destination: "BLR",
		Pieces:      10,
		WeightKg:    500,
	})
	if err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}
}

func TestValidateCreateRejected(t *testing.T) {
	v := NewBookingValidator()

	cases := map[string]*model.BookingCreate{
		"missing origin":      {Destination: "BLR", Pieces: 1, WeightKg: 1},
		"short origin":        {Origin: "DE", Destination: "BLR", Pieces: 1, WeightKg: 1},
		"zero pieces":         {Origin: "DEL", Destination: "BLR", Pieces: 0, WeightKg: 1},
		"negative weight":     {Origin: "DEL", Destination: "BLR", Pieces: 1, WeightKg: -1},
		"missing destination": {Origin: "DEL", Pieces: 1, WeightKg: 1},
	}

	for name, req := range cases {
		err := v.ValidateCreate(req)
		if err == nil {
			t.Errorf("%s: expected validation error", name)
			continue
		}
		appErr := apperrors.AsAppError(err)
		if appErr.Code != apperrors.CodeValidation {
			t.Errorf("%s: code = %s, want VALIDATION_ERROR", name, appErr.Code)
		}
		if len(appErr.Details) == 0 {
			t.Errorf("%s: expected per-field details", name)
		}
	}
}

func TestValidateTransition(t *testing.T) {
	v := NewBookingValidator()

	if err := v.ValidateTransition(&model.TransitionRequest{Location: "DEL"}); err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}
	if err := v.ValidateTransition(&model.TransitionRequest{}); err == nil {
		t.Error("missing location should be rejected")
	}
}
