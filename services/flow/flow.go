package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/martinianod/chedoparti/models"

	"go.uber.org/zap"
)

// affirmatives are the answers accepted as a reservation confirmation,
// compared case-insensitively against the trimmed message.
var affirmatives = map[string]bool{
	"si":        true,
	"sí":        true,
	"ok":        true,
	"dale":      true,
	"confirmo":  true,
	"confirmar": true,
}

func isAffirmative(text string) bool {
	return affirmatives[strings.ToLower(strings.TrimSpace(text))]
}

// HandleMessage runs one turn of the reservation dialogue.
func (s *DefaultFlowService) HandleMessage(ctx context.Context, waID, text string, session *models.Session) (string, error) {
	slots := session.Slots

	// Attach the platform identity on first contact.
	if slots.UserID == "" {
		userID, err := s.Gateway.FindOrCreateUser(ctx, waID)
		if err != nil {
			return "", fmt.Errorf("resolve user for %s: %w", waID, err)
		}
		slots.UserID = userID
	}

	extracted, err := s.Extractor.Extract(ctx, text)
	if err != nil {
		return "", fmt.Errorf("extract intent: %w", err)
	}
	slots = MergeSlots(slots, extracted)

	state := session.State
	var reply string

	switch state {
	case models.StateStart:
		state = models.StateAskInstitution
		reply = msgGreeting

	case models.StateAskInstitution:
		query := extracted.InstitutionQuery
		if query == "" {
			query = text
		}
		slots, err = s.resolveInstitution(ctx, slots, query)
		if err != nil {
			return "", err
		}
		if slots.InstitutionID == "" {
			reply = msgAskInstitution
		} else {
			state = models.StateAskSport
			reply = institutionConfirmed(slots.InstitutionName)
		}

	case models.StateAskSport:
		if slots.Sport == "" {
			reply = msgAskSport
		} else {
			state = models.StateAskDate
			reply = msgAskDate
		}

	case models.StateAskDate:
		if slots.Date == "" {
			reply = msgAskDate
		} else {
			state = models.StateAskTime
			reply, err = s.suggestTimes(ctx, slots)
			if err != nil {
				return "", err
			}
		}

	case models.StateAskTime:
		if slots.Time == "" {
			reply = msgAskTime
		} else {
			state = models.StateConfirm
			reply = confirmationMessage(slots)
		}

	case models.StateConfirm:
		if isAffirmative(text) {
			reply, err = s.confirmReservation(ctx, slots)
			if err != nil {
				return "", err
			}
			state = models.StateDone
		} else {
			state = models.StateAskTime
			reply = msgNotConfirmed
		}

	default: // StateDone, or an unknown persisted state
		if strings.Contains(strings.ToLower(text), "nueva") {
			state = models.StateAskInstitution
			slots = models.NewSlots()
			reply = msgNewReservation
		} else {
			reply = msgDoneHint
		}
	}

	session.State = state
	session.Slots = slots
	return reply, nil
}

// resolveInstitution turns a free-text club query into an institution. An
// empty query or an empty result set leaves the slots untouched; the caller
// re-prompts. The first search result wins — no disambiguation.
func (s *DefaultFlowService) resolveInstitution(ctx context.Context, slots models.ReservationSlots, query string) (models.ReservationSlots, error) {
	if query == "" {
		return slots, nil
	}
	results, err := s.Gateway.SearchInstitutions(ctx, query)
	if err != nil {
		return slots, fmt.Errorf("search institution %q: %w", query, err)
	}
	if len(results) == 0 {
		return slots, nil
	}
	slots.InstitutionID = results[0].ID.String()
	slots.InstitutionName = results[0].Name
	return slots, nil
}

// suggestTimes lists available times for the collected club, sport and date.
func (s *DefaultFlowService) suggestTimes(ctx context.Context, slots models.ReservationSlots) (string, error) {
	if slots.InstitutionID == "" || slots.Date == "" || slots.Sport == "" {
		return msgMissingForTimes, nil
	}
	times, err := s.Gateway.CheckAvailability(ctx, slots.InstitutionID, slots.Date, slots.Sport)
	if err != nil {
		return "", fmt.Errorf("check availability: %w", err)
	}
	if len(times) == 0 {
		return msgNoAvailability, nil
	}
	return availableTimesMessage(times), nil
}

// confirmReservation books the court and tries to attach a payment link.
// The reservation call is made exactly once per confirmation; a payment-link
// failure degrades the reply but never undoes the booking.
func (s *DefaultFlowService) confirmReservation(ctx context.Context, slots models.ReservationSlots) (string, error) {
	reservation, err := s.Gateway.CreateReservation(ctx, slots)
	if err != nil {
		return "", fmt.Errorf("create reservation: %w", err)
	}
	s.Logger.Info("reservation confirmed",
		zap.String("reservationId", reservation.ID),
		zap.String("institutionId", slots.InstitutionID),
		zap.String("sport", slots.Sport),
		zap.String("date", slots.Date),
	)

	paymentURL := ""
	if reservation.ID != "" {
		paymentURL, err = s.Gateway.CreatePaymentLink(ctx, reservation.ID)
		if err != nil {
			s.Logger.Warn("payment link creation failed, sending plain confirmation",
				zap.String("reservationId", reservation.ID),
				zap.Error(err),
			)
			paymentURL = ""
		}
	}

	if paymentURL != "" {
		return confirmedWithPayment(paymentURL), nil
	}
	return msgConfirmedPlain, nil
}
