package intent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/martinianod/chedoparti/models"
)

const extractionPrompt = `Sos un asistente para reservas deportivas.

Extraé SI PODÉS los siguientes campos del mensaje del usuario:
- institution_query: nombre del club o zona (string)
- sport: deporte (ej: "Padel", "Tenis")
- date: fecha en formato ISO (YYYY-MM-DD) si es inferible
- time: hora en formato 24h HH:MM si es inferible
- duration: duración en HH:MM (si no, null)

Si no podés determinar un campo con seguridad, dejalo en null.

Devolvé SOLO un objeto JSON con esas claves, sin texto adicional.

Mensaje del usuario:
"%s"`

func buildPrompt(text string) string {
	return fmt.Sprintf(extractionPrompt, text)
}

// parseIntent decodes the model output leniently: code fences are stripped
// and anything around the outermost JSON object is ignored. Output that still
// does not parse yields an empty intent rather than an error.
func parseIntent(raw string) *models.ReservationIntent {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return &models.ReservationIntent{}
	}

	var intent models.ReservationIntent
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &intent); err != nil {
		return &models.ReservationIntent{}
	}
	return &intent
}
