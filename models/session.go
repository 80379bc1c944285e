package models

// DialogState identifies where a conversation currently sits in the
// reservation flow. The set is closed; transition handling switches over it
// exhaustively and treats anything unknown like StateDone.
type DialogState string

const (
	StateStart          DialogState = "START"
	StateAskInstitution DialogState = "ASK_INSTITUTION"
	StateAskSport       DialogState = "ASK_SPORT"
	StateAskDate        DialogState = "ASK_DATE"
	StateAskTime        DialogState = "ASK_TIME"
	StateConfirm        DialogState = "CONFIRM_RESERVATION"
	StateDone           DialogState = "DONE"
)

// ReservationSlots accumulates everything known about the reservation being
// built. A slot set to a non-empty value is never overwritten by intent
// merging; only the new-reservation reset clears it.
type ReservationSlots struct {
	InstitutionID   string `json:"institutionId,omitempty"`
	InstitutionName string `json:"institutionName,omitempty"`
	Sport           string `json:"sport,omitempty"`
	Date            string `json:"date,omitempty"` // YYYY-MM-DD
	Time            string `json:"time,omitempty"` // HH:MM 24h
	Duration        string `json:"duration"`
	Players         int    `json:"players"`
	UserID          string `json:"userId,omitempty"`
}

// Session is the durable conversational cursor for one WhatsApp number,
// persisted between turns by the session store.
type Session struct {
	State DialogState      `json:"state"`
	Slots ReservationSlots `json:"slots"`
}

// NewSlots returns an empty slot record with defaults applied.
func NewSlots() ReservationSlots {
	return ReservationSlots{
		Duration: "01:00",
		Players:  4,
	}
}

// NewSession returns a fresh session at the start of the flow.
func NewSession() *Session {
	return &Session{
		State: StateStart,
		Slots: NewSlots(),
	}
}

// ReservationIntent is the structured partial extraction produced from one
// message. It lives for a single turn and is never persisted.
type ReservationIntent struct {
	InstitutionQuery string `json:"institution_query,omitempty"`
	Sport            string `json:"sport,omitempty"`
	Date             string `json:"date,omitempty"`
	Time             string `json:"time,omitempty"`
	Duration         string `json:"duration,omitempty"`
}
