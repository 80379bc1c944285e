package flow

import "github.com/martinianod/chedoparti/models"

// MergeSlots folds a freshly extracted intent into the accumulated slots.
// Only empty slots are filled: a value captured on an earlier turn is never
// clobbered by a later, possibly worse, extraction. Institution, user and
// player fields are owned by their own resolution steps and stay untouched.
func MergeSlots(slots models.ReservationSlots, intent *models.ReservationIntent) models.ReservationSlots {
	if intent == nil {
		return slots
	}
	if intent.Sport != "" && slots.Sport == "" {
		slots.Sport = intent.Sport
	}
	if intent.Date != "" && slots.Date == "" {
		slots.Date = intent.Date
	}
	if intent.Time != "" && slots.Time == "" {
		slots.Time = intent.Time
	}
	if intent.Duration != "" && slots.Duration == "" {
		slots.Duration = intent.Duration
	}
	return slots
}
