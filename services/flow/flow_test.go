package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/martinianod/chedoparti/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockGateway is a hand-rolled gateway.Client with canned answers.
type mockGateway struct {
	institutions    []models.Institution
	searchErr       error
	times           []string
	availabilityErr error
	reservation     *models.Reservation
	reservationErr  error
	paymentURL      string
	paymentErr      error
	userID          string

	searchCalls      int
	lastSearchQuery  string
	reservationCalls int
	paymentCalls     int
	userCalls        int
}

func (m *mockGateway) SearchInstitutions(_ context.Context, query string) ([]models.Institution, error) {
	m.searchCalls++
	m.lastSearchQuery = query
	return m.institutions, m.searchErr
}

func (m *mockGateway) CheckAvailability(_ context.Context, _, _, _ string) ([]string, error) {
	return m.times, m.availabilityErr
}

func (m *mockGateway) CreateReservation(_ context.Context, _ models.ReservationSlots) (*models.Reservation, error) {
	m.reservationCalls++
	return m.reservation, m.reservationErr
}

func (m *mockGateway) FindOrCreateUser(_ context.Context, _ string) (string, error) {
	m.userCalls++
	return m.userID, nil
}

func (m *mockGateway) CreatePaymentLink(_ context.Context, _ string) (string, error) {
	m.paymentCalls++
	return m.paymentURL, m.paymentErr
}

// stubExtractor returns a fixed intent for any input.
type stubExtractor struct {
	intent models.ReservationIntent
	err    error
}

func (s *stubExtractor) Extract(_ context.Context, _ string) (*models.ReservationIntent, error) {
	if s.err != nil {
		return nil, s.err
	}
	intent := s.intent
	return &intent, nil
}

func newFlowService(gw *mockGateway, intent models.ReservationIntent) *DefaultFlowService {
	return &DefaultFlowService{
		Extractor: &stubExtractor{intent: intent},
		Gateway:   gw,
		Logger:    zap.NewNop(),
	}
}

func sessionAt(state models.DialogState) *models.Session {
	sess := models.NewSession()
	sess.State = state
	sess.Slots.UserID = "u-1"
	return sess
}

func TestHandleMessage_StartAlwaysGreetsAndAsksInstitution(t *testing.T) {
	for _, text := range []string{"hola", "quiero reservar padel mañana", ""} {
		gw := &mockGateway{}
		svc := newFlowService(gw, models.ReservationIntent{})
		sess := sessionAt(models.StateStart)
		before := sess.Slots

		reply, err := svc.HandleMessage(context.Background(), "549110001111", text, sess)

		require.NoError(t, err)
		assert.Equal(t, models.StateAskInstitution, sess.State)
		assert.Equal(t, before, sess.Slots)
		assert.Equal(t, msgGreeting, reply)
	}
}

func TestHandleMessage_AttachesUserIdentityOnFirstContact(t *testing.T) {
	gw := &mockGateway{userID: "u-99"}
	svc := newFlowService(gw, models.ReservationIntent{})
	sess := models.NewSession()

	_, err := svc.HandleMessage(context.Background(), "549110001111", "hola", sess)

	require.NoError(t, err)
	assert.Equal(t, 1, gw.userCalls)
	assert.Equal(t, "u-99", sess.Slots.UserID)
}

func TestHandleMessage_InstitutionResolved(t *testing.T) {
	gw := &mockGateway{institutions: []models.Institution{
		{ID: "5", Name: "Club X"},
		{ID: "9", Name: "Club X Anexo"},
	}}
	svc := newFlowService(gw, models.ReservationIntent{InstitutionQuery: "club x"})
	sess := sessionAt(models.StateAskInstitution)

	reply, err := svc.HandleMessage(context.Background(), "549110001111", "quiero jugar en club x", sess)

	require.NoError(t, err)
	assert.Equal(t, models.StateAskSport, sess.State)
	// First search result wins.
	assert.Equal(t, "5", sess.Slots.InstitutionID)
	assert.Equal(t, "Club X", sess.Slots.InstitutionName)
	assert.Equal(t, "club x", gw.lastSearchQuery)
	assert.Contains(t, reply, "Club X")
}

func TestHandleMessage_InstitutionNotFoundReprompts(t *testing.T) {
	gw := &mockGateway{institutions: nil}
	svc := newFlowService(gw, models.ReservationIntent{})
	sess := sessionAt(models.StateAskInstitution)

	reply, err := svc.HandleMessage(context.Background(), "549110001111", "el club de la esquina", sess)

	require.NoError(t, err)
	assert.Equal(t, models.StateAskInstitution, sess.State)
	assert.Empty(t, sess.Slots.InstitutionID)
	assert.Equal(t, msgAskInstitution, reply)
	// Raw text is used as the query when the extractor found none.
	assert.Equal(t, "el club de la esquina", gw.lastSearchQuery)
}

func TestHandleMessage_SportMissingReprompts(t *testing.T) {
	gw := &mockGateway{}
	svc := newFlowService(gw, models.ReservationIntent{})
	sess := sessionAt(models.StateAskSport)

	reply, err := svc.HandleMessage(context.Background(), "549110001111", "no sé", sess)

	require.NoError(t, err)
	assert.Equal(t, models.StateAskSport, sess.State)
	assert.Equal(t, msgAskSport, reply)
}

func TestHandleMessage_DateProvidedSuggestsTimes(t *testing.T) {
	gw := &mockGateway{times: []string{"18:00", "19:00", "20:00"}}
	svc := newFlowService(gw, models.ReservationIntent{Date: "2024-11-21"})
	sess := sessionAt(models.StateAskDate)
	sess.Slots.InstitutionID = "5"
	sess.Slots.InstitutionName = "Club X"
	sess.Slots.Sport = "Padel"

	reply, err := svc.HandleMessage(context.Background(), "549110001111", "mañana", sess)

	require.NoError(t, err)
	assert.Equal(t, models.StateAskTime, sess.State)
	assert.Equal(t, "2024-11-21", sess.Slots.Date)
	assert.Contains(t, reply, "18:00, 19:00, 20:00")
}

func TestHandleMessage_NoAvailability(t *testing.T) {
	gw := &mockGateway{times: nil}
	svc := newFlowService(gw, models.ReservationIntent{Date: "2024-11-21"})
	sess := sessionAt(models.StateAskDate)
	sess.Slots.InstitutionID = "5"
	sess.Slots.Sport = "Padel"

	reply, err := svc.HandleMessage(context.Background(), "549110001111", "mañana", sess)

	require.NoError(t, err)
	assert.Equal(t, models.StateAskTime, sess.State)
	assert.Equal(t, msgNoAvailability, reply)
}

func TestHandleMessage_SuggestTimesCapsAtSix(t *testing.T) {
	gw := &mockGateway{times: []string{"10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00", "17:00"}}
	svc := newFlowService(gw, models.ReservationIntent{Date: "2024-11-21"})
	sess := sessionAt(models.StateAskDate)
	sess.Slots.InstitutionID = "5"
	sess.Slots.Sport = "Padel"

	reply, err := svc.HandleMessage(context.Background(), "549110001111", "mañana", sess)

	require.NoError(t, err)
	assert.Contains(t, reply, "15:00")
	assert.NotContains(t, reply, "16:00")
}

func TestHandleMessage_TimeProvidedAsksConfirmation(t *testing.T) {
	gw := &mockGateway{}
	svc := newFlowService(gw, models.ReservationIntent{Time: "19:00"})
	sess := sessionAt(models.StateAskTime)
	sess.Slots.InstitutionName = "Club X"
	sess.Slots.Sport = "Padel"
	sess.Slots.Date = "2024-11-21"

	reply, err := svc.HandleMessage(context.Background(), "549110001111", "a las 19", sess)

	require.NoError(t, err)
	assert.Equal(t, models.StateConfirm, sess.State)
	assert.Contains(t, reply, "Club X")
	assert.Contains(t, reply, "19:00")
	assert.Contains(t, reply, "Confirmás")
}

func TestHandleMessage_ConfirmationAffirmatives(t *testing.T) {
	for _, text := range []string{"sí", "si", "OK", "dale", "confirmo", "confirmar", " Sí "} {
		gw := &mockGateway{
			reservation: &models.Reservation{ID: "r-1"},
			paymentURL:  "https://pay.example/r-1",
		}
		svc := newFlowService(gw, models.ReservationIntent{})
		sess := sessionAt(models.StateConfirm)

		reply, err := svc.HandleMessage(context.Background(), "549110001111", text, sess)

		require.NoError(t, err, "input %q", text)
		assert.Equal(t, models.StateDone, sess.State, "input %q", text)
		assert.Equal(t, 1, gw.reservationCalls, "input %q", text)
		assert.Contains(t, reply, "https://pay.example/r-1")
	}
}

func TestHandleMessage_ConfirmationRejectedReturnsToAskTime(t *testing.T) {
	for _, text := range []string{"no", "mejor no", "nope", "a las 20 mejor"} {
		gw := &mockGateway{}
		svc := newFlowService(gw, models.ReservationIntent{})
		sess := sessionAt(models.StateConfirm)

		reply, err := svc.HandleMessage(context.Background(), "549110001111", text, sess)

		require.NoError(t, err)
		assert.Equal(t, models.StateAskTime, sess.State)
		assert.Zero(t, gw.reservationCalls, "input %q must not create a reservation", text)
		assert.Equal(t, msgNotConfirmed, reply)
	}
}

func TestHandleMessage_PaymentLinkFailureDegradesReply(t *testing.T) {
	gw := &mockGateway{
		reservation: &models.Reservation{ID: "r-1"},
		paymentErr:  errors.New("payment-service timeout"),
	}
	svc := newFlowService(gw, models.ReservationIntent{})
	sess := sessionAt(models.StateConfirm)

	reply, err := svc.HandleMessage(context.Background(), "549110001111", "sí", sess)

	require.NoError(t, err)
	assert.Equal(t, models.StateDone, sess.State)
	assert.Equal(t, 1, gw.reservationCalls)
	assert.Equal(t, msgConfirmedPlain, reply)
}

func TestHandleMessage_ReservationWithoutIDSkipsPaymentLink(t *testing.T) {
	gw := &mockGateway{reservation: &models.Reservation{}}
	svc := newFlowService(gw, models.ReservationIntent{})
	sess := sessionAt(models.StateConfirm)

	reply, err := svc.HandleMessage(context.Background(), "549110001111", "sí", sess)

	require.NoError(t, err)
	assert.Zero(t, gw.paymentCalls)
	assert.Equal(t, msgConfirmedPlain, reply)
}

func TestHandleMessage_ReservationFailurePropagates(t *testing.T) {
	gw := &mockGateway{reservationErr: errors.New("reservation-service down")}
	svc := newFlowService(gw, models.ReservationIntent{})
	sess := sessionAt(models.StateConfirm)

	_, err := svc.HandleMessage(context.Background(), "549110001111", "sí", sess)

	require.Error(t, err)
	assert.Equal(t, 1, gw.reservationCalls)
}

func TestHandleMessage_DoneStartsNewReservation(t *testing.T) {
	gw := &mockGateway{}
	svc := newFlowService(gw, models.ReservationIntent{})
	sess := sessionAt(models.StateDone)
	sess.Slots.InstitutionID = "5"
	sess.Slots.Sport = "Padel"
	sess.Slots.Date = "2024-11-21"
	sess.Slots.Time = "19:00"

	reply, err := svc.HandleMessage(context.Background(), "549110001111", "quiero hacer una nueva reserva", sess)

	require.NoError(t, err)
	assert.Equal(t, models.StateAskInstitution, sess.State)
	assert.Equal(t, models.NewSlots(), sess.Slots)
	assert.Equal(t, msgNewReservation, reply)
}

func TestHandleMessage_DoneWithoutKeywordStaysDone(t *testing.T) {
	gw := &mockGateway{}
	svc := newFlowService(gw, models.ReservationIntent{})
	sess := sessionAt(models.StateDone)

	reply, err := svc.HandleMessage(context.Background(), "549110001111", "gracias!", sess)

	require.NoError(t, err)
	assert.Equal(t, models.StateDone, sess.State)
	assert.Equal(t, msgDoneHint, reply)
}

func TestHandleMessage_UnknownStateBehavesLikeDone(t *testing.T) {
	gw := &mockGateway{}
	svc := newFlowService(gw, models.ReservationIntent{})
	sess := sessionAt(models.DialogState("LEGACY_STATE"))

	reply, err := svc.HandleMessage(context.Background(), "549110001111", "nueva reserva", sess)

	require.NoError(t, err)
	assert.Equal(t, models.StateAskInstitution, sess.State)
	assert.Equal(t, msgNewReservation, reply)
}

func TestHandleMessage_SearchErrorPropagates(t *testing.T) {
	gw := &mockGateway{searchErr: errors.New("institution-service down")}
	svc := newFlowService(gw, models.ReservationIntent{})
	sess := sessionAt(models.StateAskInstitution)

	_, err := svc.HandleMessage(context.Background(), "549110001111", "club x", sess)

	require.Error(t, err)
	assert.Equal(t, models.StateAskInstitution, sess.State)
}
