package flow

import (
	"fmt"
	"strings"

	"github.com/martinianod/chedoparti/models"
)

// Reply texts. The bot speaks Argentine Spanish, matching the rest of the
// product.
const (
	msgGreeting        = "¡Hola! Soy el asistente de reservas de CheDoparti 🏟️\n¿En qué club querés jugar?"
	msgAskInstitution  = "No encontré el club. ¿Me repetís el nombre o la zona?"
	msgAskSport        = "¿Qué deporte querés jugar? (Ej: Padel, Tenis)"
	msgAskDate         = "¿Para qué día querés reservar? (Ej: mañana, jueves, 20/11)"
	msgAskTime         = "Decime qué horario preferís dentro de los disponibles."
	msgMissingForTimes = "Necesito el club, el deporte y la fecha para sugerir horarios."
	msgNoAvailability  = "No encontré horarios disponibles para ese día. ¿Querés probar con otra fecha?"
	msgNotConfirmed    = "No se confirmó la reserva. Podés indicarme otro horario entre los disponibles."
	msgConfirmedPlain  = "Reserva confirmada ✅ ¡Buen partido! 💪"
	msgNewReservation  = "Genial, arrancamos otra reserva. ¿En qué club querés jugar?"
	msgDoneHint        = "Si querés hacer una nueva reserva, escribí 'nueva reserva'."
)

// maxSuggestedTimes caps how many availability options are listed in one
// message.
const maxSuggestedTimes = 6

func institutionConfirmed(name string) string {
	return fmt.Sprintf("Perfecto, %s. ¿Qué deporte querés jugar? (Ej: Padel, Tenis)", name)
}

func availableTimesMessage(times []string) string {
	if len(times) > maxSuggestedTimes {
		times = times[:maxSuggestedTimes]
	}
	return fmt.Sprintf("Estos horarios están disponibles: %s. ¿Cuál te queda mejor?", strings.Join(times, ", "))
}

func confirmationMessage(slots models.ReservationSlots) string {
	return fmt.Sprintf(
		"Perfecto, te resumo la reserva:\n"+
			"🏟️ Club: %s\n"+
			"🏓 Deporte: %s\n"+
			"📅 Día: %s\n"+
			"⏰ Hora: %s\n"+
			"⏱️ Duración: %s\n\n"+
			"¿Confirmás la reserva? (Respondé 'sí' para confirmar)",
		slots.InstitutionName, slots.Sport, slots.Date, slots.Time, slots.Duration,
	)
}

func confirmedWithPayment(paymentURL string) string {
	return fmt.Sprintf(
		"Reserva confirmada ✅\n"+
			"Si querés pagar ahora, usá este enlace:\n"+
			"%s\n"+
			"¡Buen partido! 💪",
		paymentURL,
	)
}
