package model

import (
	"time"
)

// Booking is an air-cargo shipment tracked across its lifecycle. The
// RefID is the human-facing identifier ("ACB" + 5 uppercase
// alphanumerics); ID is the storage identifier.
type Booking struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	RefID       string    `json:"ref_id" bson:"ref_id"`
	Origin      string    `json:"origin" bson:"origin" validate:"required,min=3,max=10"`
	Destination string    `json:"destination" bson:"destination" validate:"required,min=3,max=10"`
	Pieces      int       `json:"pieces" bson:"pieces" validate:"required,gt=0"`
	WeightKg    int       `json:"weight_kg" bson:"weight_kg" validate:"required,gt=0"`
	Status      Status    `json:"status" bson:"status" validate:"required,oneof=BOOKED DEPARTED ARRIVED DELIVERED CANCELLED"`
	FlightIDs   []string  `json:"flight_ids" bson:"flight_ids"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// BookingEvent is an append-only audit record owned by exactly one
// booking. Events for a booking are non-decreasing in CreatedAt and the
// first event is always BOOKED.
type BookingEvent struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID    string    `json:"booking_id" bson:"booking_id"`
	EventType    Status    `json:"event_type" bson:"event_type"`
	Location     string    `json:"location,omitempty" bson:"location,omitempty"`
	FlightID     string    `json:"flight_id,omitempty" bson:"flight_id,omitempty"`
	FlightNumber string    `json:"flight_number,omitempty" bson:"flight_number,omitempty"`
	Notes        string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// BookingHistory pairs a booking with its chronological event timeline.
type BookingHistory struct {
	Booking  *Booking        `json:"booking"`
	Timeline []*BookingEvent `json:"timeline"`
}

// BookingCreate is the creation request payload.
type BookingCreate struct {
	Origin      string   `json:"origin" validate:"required,min=3,max=10"`
	Destination string   `json:"destination" validate:"required,min=3,max=10"`
	Pieces      int      `json:"pieces" validate:"required,gt=0"`
	WeightKg    int      `json:"weight_kg" validate:"required,gt=0"`
	FlightIDs   []string `json:"flight_ids,omitempty"`
}

// TransitionRequest carries the metadata recorded on a depart, arrive or
// deliver event. Cancel takes no payload.
type TransitionRequest struct {
	Location     string `json:"location" validate:"required,min=3,max=10"`
	FlightID     string `json:"flight_id,omitempty"`
	FlightNumber string `json:"flight_number,omitempty" validate:"omitempty,max=20"`
	Notes        string `json:"notes,omitempty" validate:"omitempty,max=500"`
}
