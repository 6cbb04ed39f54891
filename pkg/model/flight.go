package model

import "time"

// Flight is immutable schedule reference data from the route engine's
// perspective. Departure and arrival instants are stored in UTC.
type Flight struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty"`
	FlightNumber  string    `json:"flight_number" bson:"flight_number"`
	AirlineName   string    `json:"airline_name" bson:"airline_name"`
	DepartureTime time.Time `json:"departure_datetime" bson:"departure_datetime"`
	ArrivalTime   time.Time `json:"arrival_datetime" bson:"arrival_datetime"`
	Origin        string    `json:"origin" bson:"origin"`
	Destination   string    `json:"destination" bson:"destination"`
}

// RouteOption is a single one-hop itinerary: first leg into the transit
// airport, second leg to the final destination.
type RouteOption struct {
	RouteType          string    `json:"route_type"`
	Flights            []*Flight `json:"flights"`
	TotalDurationHours float64   `json:"total_duration_hours"`
	TransitAirport     string    `json:"transit_airport"`
}

// RouteResponse is the result of a route search for one
// (origin, destination, date) triple.
type RouteResponse struct {
	Origin        string        `json:"origin"`
	Destination   string        `json:"destination"`
	DepartureDate string        `json:"departure_date"`
	DirectFlights []*Flight     `json:"direct_flights"`
	TransitRoutes []RouteOption `json:"transit_routes"`
}
