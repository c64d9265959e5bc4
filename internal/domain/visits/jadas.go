package visits

import (
	"math"
	"strconv"
	"strings"
)

// Interpretación de actividad según puntos de corte JADAS-27.
const (
	ActividadInactiva = "Inactiva"
	ActividadBaja     = "Actividad baja"
	ActividadModerada = "Actividad moderada"
	ActividadAlta     = "Actividad alta"
)

// JADASResult es el índice compuesto de actividad de la enfermedad.
type JADASResult struct {
	Total          float64 `json:"total"`
	Interpretacion string  `json:"interpretacion"`
	Emoji          string  `json:"emoji"`

	// ReactanteIncluido indica si había VSG o PCR para el cuarto término.
	ReactanteIncluido bool `json:"reactante_incluido"`
}

// JADAS27 calcula el índice: recuento articular activo (tope 27) + EVA del
// médico + EVA del paciente + reactante de fase aguda normalizado a 0-10.
// Se usa la VSG si está disponible, si no la PCR con la misma normalización
// clamp((valor-20)/10, 0, 10); sin ninguno, el término se omite.
func JADAS27(articulacionesActivas int, evaMedico, evaPaciente int, vsg, pcr *float64) JADASResult {
	arts := articulacionesActivas
	if arts > 27 {
		arts = 27
	}
	if arts < 0 {
		arts = 0
	}

	total := float64(arts) + float64(evaMedico) + float64(evaPaciente)

	reactante := vsg
	if reactante == nil {
		reactante = pcr
	}
	incluido := reactante != nil
	if incluido {
		norm := (*reactante - 20) / 10
		if norm < 0 {
			norm = 0
		}
		if norm > 10 {
			norm = 10
		}
		total += norm
	}

	total = math.Round(total*10) / 10

	interp, emoji := interpretarJADAS(total)
	return JADASResult{
		Total:             total,
		Interpretacion:    interp,
		Emoji:             emoji,
		ReactanteIncluido: incluido,
	}
}

func interpretarJADAS(total float64) (string, string) {
	switch {
	case total <= 1:
		return ActividadInactiva, "🟢"
	case total <= 3.8:
		return ActividadBaja, "🟡"
	case total <= 8.5:
		return ActividadModerada, "🟠"
	default:
		return ActividadAlta, "🔴"
	}
}

// parseAnalitica convierte un valor de analítica tecleado a número,
// tolerando la coma decimal. Devuelve nil si está vacío o no es numérico.
func parseAnalitica(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
