// Package gateway is the HTTP client for the chedoparti API gateway, which
// fronts the institution, reservation, user and payment services.
package gateway

import (
	"context"

	"github.com/martinianod/chedoparti/models"
)

// Client defines the platform operations the bot depends on.
type Client interface {
	// SearchInstitutions resolves a free-text club/zone query into candidate
	// institutions, ordered by the institution-service.
	SearchInstitutions(ctx context.Context, query string) ([]models.Institution, error)

	// CheckAvailability returns the free time slots for one institution,
	// date and sport, in the order the reservation-service computed them.
	CheckAvailability(ctx context.Context, institutionID, date, sport string) ([]string, error)

	// CreateReservation books the court described by the slots.
	CreateReservation(ctx context.Context, slots models.ReservationSlots) (*models.Reservation, error)

	// FindOrCreateUser resolves a WhatsApp number into a platform user ID,
	// registering the number on first contact.
	FindOrCreateUser(ctx context.Context, waID string) (string, error)

	// CreatePaymentLink asks the payment-service for a checkout URL tied to a
	// reservation. An empty URL means no link is available.
	CreatePaymentLink(ctx context.Context, reservationID string) (string, error)
}
