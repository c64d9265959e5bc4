package chatbot

import (
	"context"
	"fmt"
	"strings"

	"aij-connect/internal/domain/visits"
	"aij-connect/internal/ports/knowledge"
)

// Textos de protocolo clínico. Son contenido clínico literal: se reproducen
// tal cual, no se resumen ni se reescriben.
const (
	respuestaUrgencia = "⚠️ **DETECTADO SÍNTOMA DE ALERTA**\n\nComo asistente virtual no puedo valorar urgencias médicas. Por favor, acude al hospital o contacta con tu reumatólogo inmediatamente."

	respuestaOlvidoMetotrexato = `⚠️ **Dosis olvidada de Metotrexato**

**Regla general:** Si te olvidaste ayer, puedes ponértela hoy (dentro de las 48h siguientes al día pautado).

📌 **Recomendaciones:**
• Si han pasado **menos de 2 días**: Ponte la dosis hoy y sigue con tu calendario normal la próxima semana.
• Si han pasado **más de 2 días**: NO te pongas doble dosis. Salta esta semana y continúa la próxima según tu pauta habitual.

⚠️ **Importante:** Si tienes dudas o esto ocurre con frecuencia, consulta con tu reumatólogo.

💡 Consejo: Activa recordatorios en tu móvil para el día que te toca.`

	respuestaOlvidoAcidoFolico = `💊 **Dosis olvidada de Ácido Fólico**

No te preocupes, el ácido fólico es un suplemento y no pasa nada grave si te saltas una dosis.

📌 **Recomendaciones:**
• Tómalo cuando te acuerdes si es el mismo día.
• Si ya pasó el día, simplemente continúa con la siguiente dosis programada.
• **Nunca tomes doble dosis** para compensar.`

	respuestaOlvidoAdalimumab = `💉 **Dosis olvidada de Humira/Adalimumab**

📌 **Recomendaciones:**
• Si te acuerdas **en los primeros días**, ponte la inyección cuanto antes.
• Luego, ajusta tu calendario para mantener el intervalo de 2 semanas.
• **No te pongas doble dosis.**

⚠️ Si tienes dudas, contacta con tu reumatólogo o enfermera de la unidad.`

	respuestaOlvidoGenerico = `⚠️ **Dosis olvidada de medicación**

📌 **Regla general:**
• Si te acuerdas el mismo día o al día siguiente, tómala/ponla cuando te acuerdes.
• Si han pasado más de 2 días, **no tomes doble dosis**. Espera a la siguiente dosis programada.

⚠️ Si tienes dudas sobre tu medicamento específico, consulta con tu reumatólogo o llama a la unidad.`

	respuestaCitas = "📅 Las citas se gestionan a través de la secretaría del hospital. Puedes llamar al teléfono de atención o consultar tu portal del paciente para ver tus próximas citas."

	respuestaSinPlan = "📋 No tienes ningún plan de tratamiento activo. Consulta con tu médico en la próxima visita."

	respuestaFallback = "❓ No tengo información específica sobre eso. Si tienes dudas sobre tu tratamiento, te recomiendo consultarlo con tu médico en la próxima visita o llamar a la unidad."
)

var (
	saludos = []string{"hola", "buenas", "gracias", "qué tal", "buenos días", "buenas tardes"}

	palabrasUrgencia = []string{"dolor fuerte", "sangre", "fiebre alta", "hinchado", "ahogo", "urgencia", "pecho"}

	palabrasOlvido = []string{
		"olvidé", "olvide", "olvidado", "perdí", "perdi", "perdido",
		"no me pinché", "no me pinche", "no tomé", "no tome",
		"salté", "salte", "saltado", "me la salté", "se me pasó",
		"ayer no", "no puse", "qué hago", "que hago", "me olvide",
	}

	palabrasMedicacion = []string{
		"medicación", "medicacion", "medicamento", "tratamiento",
		"llevo", "tomo", "actual", "ahora", "qué tomo", "que tomo",
		"dosis", "pauta", "inyectar", "pinchar", "pastilla",
	}

	palabrasCitas = []string{"cita", "próxima visita", "proxima visita", "cuando tengo", "revisión", "revision"}
)

// Respond genera la respuesta a la pregunta de un paciente siguiendo la
// cascada de prioridades; la primera rama que matchea termina la evaluación:
//
//  1. saludos (match exacto sobre la frase completa)
//  2. guardrail de urgencias (inapelable: se evalúa antes de todo lo clínico)
//  3. dosis olvidadas, con protocolo específico por medicamento
//  4. medicación actual, extraída de la última visita
//  5. citas
//  6. consulta al motor de conocimiento (RAG)
//  7. fallback: derivar al médico
//
// Los fallos del motor de conocimiento quedan contenidos aquí: cualquier
// error equivale a "sin respuesta" y la cascada sigue al fallback.
func (s *Session) Respond(ctx context.Context, pregunta string, historial []visits.Visit, nombrePaciente string) string {
	p := strings.ToLower(strings.TrimSpace(pregunta))

	// 1. Saludos: match exacto sobre la frase completa, no substring.
	for _, saludo := range saludos {
		if p == saludo {
			return fmt.Sprintf("¡Hola %s! Soy tu asistente virtual de la unidad. Estoy aquí para ayudarte con cualquier duda sobre tu tratamiento o medicación.", nombrePaciente)
		}
	}

	// 2. Urgencias: derivar inmediatamente.
	if containsAny(p, palabrasUrgencia) {
		return respuestaUrgencia
	}

	// 3. Dosis olvidadas.
	if containsAny(p, palabrasOlvido) {
		switch {
		case containsAny(p, []string{"metotrexato", "metotrexate", "mtx"}):
			return respuestaOlvidoMetotrexato
		case containsAny(p, []string{"ácido fólico", "acido folico", "fólico", "folico", "acfol"}):
			return respuestaOlvidoAcidoFolico
		case containsAny(p, []string{"humira", "adalimumab"}):
			return respuestaOlvidoAdalimumab
		default:
			return respuestaOlvidoGenerico
		}
	}

	// 4. Medicación actual: extraer del plan de la última visita.
	if containsAny(p, palabrasMedicacion) {
		ultimoPlan := planDeUltimaVisita(historial)
		if ultimoPlan == "" {
			return respuestaSinPlan
		}

		if menciones := Extract(ultimoPlan); len(menciones) > 0 {
			var b strings.Builder
			b.WriteString("💊 **Tu medicación actual:**\n\n")
			for _, m := range menciones {
				b.WriteString("• " + FormatLine(m) + "\n")
			}
			b.WriteString("\n📅 Puedes ver el calendario en la pestaña 'Mi Calendario' para ver cuándo te toca cada medicación.")
			return b.String()
		}

		return fmt.Sprintf("📋 **Tu plan de tratamiento actual:**\n\n%s", ultimoPlan)
	}

	// 5. Citas.
	if containsAny(p, palabrasCitas) {
		return respuestaCitas
	}

	// 6. RAG: consultar guías médicas para preguntas generales.
	if respuesta := s.consultarConocimiento(ctx, pregunta); respuesta != "" {
		return fmt.Sprintf("📚 **Información general:**\n\n%s", respuesta)
	}

	// 7. Fallback.
	return respuestaFallback
}

// planDeUltimaVisita busca el plan de tratamiento en el registro más
// reciente: primero el campo directo, después el marcador "PLAN:"/"Plan:"
// dentro del curso clínico, y como último recurso el curso completo.
func planDeUltimaVisita(historial []visits.Visit) string {
	if len(historial) == 0 {
		return ""
	}

	ultimo := historial[len(historial)-1]
	if ultimo.PlanTratamiento != "" {
		return ultimo.PlanTratamiento
	}

	curso := ultimo.CursoClinicoGenerado
	switch {
	case strings.Contains(curso, "PLAN:"):
		partes := strings.Split(curso, "PLAN:")
		return strings.TrimSpace(partes[len(partes)-1])
	case strings.Contains(curso, "Plan:"):
		partes := strings.Split(curso, "Plan:")
		return strings.TrimSpace(partes[len(partes)-1])
	default:
		return curso
	}
}

// consultarConocimiento delega en el motor RAG. Devuelve "" cuando no hay
// respuesta útil: store sin configurar, error de consulta, centinela
// NO_CONTEXT o respuesta demasiado corta para ser real.
func (s *Session) consultarConocimiento(ctx context.Context, pregunta string) string {
	store := s.knowledgeStore(ctx)
	if store == nil {
		return ""
	}

	raw, err := store.Query(ctx, pregunta)
	if err != nil {
		return ""
	}
	if strings.Contains(raw, knowledge.NoContext) || len(raw) <= 5 {
		return ""
	}
	return raw
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
