package advisory

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Verdict es el veredicto final tri-estado. Nunca queda vacío.
type Verdict string

const (
	VerdictAprobada  Verdict = "Aprobada"
	VerdictRechazada Verdict = "Rechazada"
	VerdictAlerta    Verdict = "Alerta"
)

// Classification es el veredicto más los campos ya coercidos a texto,
// listos para renderizar o registrar.
type Classification struct {
	Verdict    Verdict `json:"decision"`
	Farmaco    string  `json:"farmaco"`
	Dosis      string  `json:"dosis"`
	Frecuencia string  `json:"frecuencia,omitempty"`
	Razon      string  `json:"razon"`
}

// palabras en la justificación que indican rechazo cuando el agente no dio
// un campo de decisión explícito.
var palabrasRechazo = []string{
	"contraind", "contraindicad", "no indicado", "no indicada",
	"no recomendado", "no recomendada", "no usar", "no se recomienda",
	"toxic", "toxicidad", "sobredos", "sobredosis", "dosis alta",
	"dosis excesiva", "exceso", "excesiva",
}

// accessor lee un valor candidato del registro canónico.
type accessor func(Record) any

// Tablas de alias por campo lógico: se prueban en orden y gana el primer
// valor no vacío. Clave anidada antes que clave plana.
var (
	farmacoAliases = []accessor{
		func(r Record) any { return r.Analisis.Farmaco },
		func(r Record) any { return r.Extra["farmaco"] },
	}
	dosisMgKgAliases = []accessor{
		func(r Record) any { return r.Analisis.DosisMgKg },
		func(r Record) any { return r.Analisis.DosisMgKgDetectada },
		func(r Record) any { return r.Extra["dosis_mg_kg"] },
		func(r Record) any { return r.Extra["dosis_mg_kg_detectada"] },
	}
	dosisCalculadaAliases = []accessor{
		func(r Record) any { return r.Analisis.DosisCalculada },
		func(r Record) any { return r.Extra["dosis_calculada"] },
	}
	frecuenciaAliases = []accessor{
		func(r Record) any { return r.Analisis.Frecuencia },
		func(r Record) any { return r.Analisis.FrecuenciaTexto },
		func(r Record) any { return r.Extra["frecuencia"] },
		func(r Record) any { return r.Extra["frecuencia_texto"] },
	}
	razonAliases = []accessor{
		func(r Record) any { return r.Auditoria.RazonDecision },
		func(r Record) any { return r.Auditoria.Razon },
		func(r Record) any { return r.Extra["razon_decision"] },
		func(r Record) any { return r.Extra["razon"] },
	}
	decisionAliases = []accessor{
		func(r Record) any { return r.Decision },
		func(r Record) any { return r.Extra["decision"] },
		func(r Record) any { return r.Extra["severidad"] },
		func(r Record) any { return r.Auditoria.Decision },
	}
)

// Classify deriva el veredicto final del registro canónico. Es una función
// pura: misma entrada, mismo resultado, sin efectos.
//
// Precedencia:
//  1. estado "Aprobada", es_tratamiento_aij==true o es_aij==true marcan el
//     candidato como aprobado.
//  2. Un campo de decisión explícito (decision/severidad) con "aprob",
//     "rech" o "alert" —en ese orden— manda sobre el candidato.
//  3. Sin decisión explícita: aprobado si hay candidato; si no, se escanea
//     la justificación buscando palabras de rechazo; sin match → Alerta.
func Classify(rec Record) Classification {
	esValido := rec.Estado == EstadoAprobada ||
		boolIs(rec.Auditoria.EsTratamientoAIJ) ||
		boolIs(rec.Auditoria.EsAIJ)

	decisionTxt := strings.ToLower(strings.TrimSpace(coerceText(resolve(rec, decisionAliases), "")))

	var verdict Verdict
	switch {
	case strings.Contains(decisionTxt, "aprob"):
		verdict = VerdictAprobada
	case strings.Contains(decisionTxt, "rech"):
		verdict = VerdictRechazada
	case strings.Contains(decisionTxt, "alert"):
		verdict = VerdictAlerta
	}

	if verdict == "" {
		if esValido {
			verdict = VerdictAprobada
		} else if esRechazoPorTexto(coerceText(resolve(rec, razonAliases), "")) {
			verdict = VerdictRechazada
		} else {
			verdict = VerdictAlerta
		}
	}

	// Dosis: preferir mg/kg sobre la dosis absoluta pre-calculada.
	dosis := coerceText(resolve(rec, dosisMgKgAliases), "")
	if dosis != "" && !strings.Contains(strings.ToLower(dosis), "mg/kg") {
		dosis += " mg/kg"
	}
	if dosis == "" {
		dosis = coerceText(resolve(rec, dosisCalculadaAliases), "-")
	}

	return Classification{
		Verdict:    verdict,
		Farmaco:    coerceText(resolve(rec, farmacoAliases), "-"),
		Dosis:      dosis,
		Frecuencia: coerceText(resolve(rec, frecuenciaAliases), ""),
		Razon:      coerceText(resolve(rec, razonAliases), "Sin comentarios."),
	}
}

func esRechazoPorTexto(razon string) bool {
	texto := strings.ToLower(razon)
	for _, p := range palabrasRechazo {
		if strings.Contains(texto, p) {
			return true
		}
	}
	return false
}

func resolve(rec Record, aliases []accessor) any {
	for _, get := range aliases {
		if v := get(rec); !isEmptyValue(v) {
			return v
		}
	}
	return nil
}

// coerceText convierte un valor arbitrario a texto mostrable. Sub-objetos y
// listas se serializan a JSON (el agente a veces anida donde no debe).
func coerceText(v any, def string) string {
	switch t := v.(type) {
	case nil:
		return def
	case string:
		return t
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return def
		}
		return string(b)
	case float64:
		// json.Unmarshal entrega números como float64; evitar "15.000000"
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprint(t)
	}
}

func boolIs(b *bool) bool {
	return b != nil && *b
}
