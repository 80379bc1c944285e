package models

import "encoding/json"

// Institution is a club returned by the institution-service search.
// The institution-service serializes id as a JSON number, so it is decoded
// as json.Number and stringified at the point it fills a slot.
type Institution struct {
	ID      json.Number `json:"id"`
	Name    string      `json:"name"`
	Zone    string      `json:"zone,omitempty"`
	Address string      `json:"address,omitempty"`
}

// Availability is the reservation-service answer for one institution/date/sport.
type Availability struct {
	AvailableTimes []string `json:"availableTimes"`
}

// Reservation is the record created by the reservation-service.
type Reservation struct {
	ID            string `json:"id"`
	InstitutionID string `json:"institutionId,omitempty"`
	Sport         string `json:"sport,omitempty"`
	Date          string `json:"date,omitempty"`
	Time          string `json:"time,omitempty"`
	Status        string `json:"status,omitempty"`
}
