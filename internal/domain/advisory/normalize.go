package advisory

import (
	"fmt"
	"strings"
)

// claves que delatan el esquema "plano" (salida directa de una tool,
// sin anidar en analisis/auditoria).
var flatKeys = []string{
	"farmaco", "dosis_mg_kg", "dosis_mg_kg_detectada", "dosis_calculada",
	"frecuencia", "frecuencia_texto", "frecuencia_horas",
	"es_tratamiento_aij", "es_aij", "razon_decision", "razon",
}

// Normalize reduce la salida arbitraria del agente de validación al registro
// canónico. Acepta nil, map[string]any, []any, string o cualquier otra cosa
// (se convierte a texto). Nunca falla: toda entrada malformada degrada a un
// registro de fallback con el texto original preservado para revisión humana.
//
// Variantes detectadas una sola vez aquí, en la frontera:
//   - nil                → registro de error
//   - objeto canónico    → passthrough (ya tiene estado/analisis/auditoria)
//   - objeto plano       → remodelado a canónico
//   - objeto desconocido → passthrough defensivo vía Extra
//   - lista              → primer elemento si es objeto
//   - texto sucio        → reparación JSON y, si falla, fallback determinista
func Normalize(raw any) Record {
	switch v := raw.(type) {
	case nil:
		return ErrorRecord("No hay respuesta")
	case Record:
		return v
	case *Record:
		if v == nil {
			return ErrorRecord("No hay respuesta")
		}
		return *v
	case map[string]any:
		return normalizeObject(v)
	case []any:
		if len(v) > 0 {
			if m, ok := v[0].(map[string]any); ok {
				return normalizeObject(m)
			}
		}
		return normalizeText(fmt.Sprint(v))
	case string:
		return normalizeText(v)
	default:
		return normalizeText(fmt.Sprint(v))
	}
}

func normalizeObject(m map[string]any) Record {
	// Esquema esperado: basta con que exponga alguna clave canónica.
	if hasAnyKey(m, "estado", "analisis", "auditoria") {
		return recordFromCanonical(m)
	}

	if hasAnyKey(m, flatKeys...) {
		return recordFromFlat(m)
	}

	// Forma desconocida: passthrough, el clasificador la maneja a la defensiva.
	return Record{Extra: m}
}

// recordFromCanonical decodifica un objeto que ya trae la forma canónica.
// Las claves de nivel superior que no modela el registro se conservan en
// Extra para la resolución de alias del clasificador.
func recordFromCanonical(m map[string]any) Record {
	rec := Record{
		Estado:   coerceEstado(m["estado"]),
		Decision: m["decision"],
	}

	if am, ok := m["analisis"].(map[string]any); ok {
		rec.Analisis = Analysis{
			Farmaco:            am["farmaco"],
			DosisCalculada:     am["dosis_calculada"],
			DosisMgKg:          am["dosis_mg_kg"],
			DosisMgKgDetectada: am["dosis_mg_kg_detectada"],
			Frecuencia:         am["frecuencia"],
			FrecuenciaTexto:    am["frecuencia_texto"],
			FrecuenciaHoras:    am["frecuencia_horas"],
		}
	}

	if au, ok := m["auditoria"].(map[string]any); ok {
		rec.Auditoria = Audit{
			EsAIJ:            boolPtr(au["es_aij"]),
			EsTratamientoAIJ: boolPtr(au["es_tratamiento_aij"]),
			Razon:            au["razon"],
			RazonDecision:    au["razon_decision"],
			Decision:         au["decision"],
		}
	}

	for k, v := range m {
		switch k {
		case "estado", "analisis", "auditoria", "decision":
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]any)
		}
		rec.Extra[k] = v
	}

	return rec
}

// recordFromFlat remodela el esquema plano al canónico.
// Preferencias de alias: la clave más específica gana sobre su alias
// (dosis_mg_kg_detectada sobre dosis_mg_kg, frecuencia sobre
// frecuencia_texto, razon sobre razon_decision).
func recordFromFlat(m map[string]any) Record {
	esAIJ := m["es_aij"]
	if esAIJ == nil {
		esAIJ = m["es_tratamiento_aij"]
	}

	analisis := Analysis{
		Farmaco:            m["farmaco"],
		DosisCalculada:     m["dosis_calculada"],
		DosisMgKgDetectada: getOr(m, "dosis_mg_kg_detectada", "dosis_mg_kg"),
		Frecuencia:         getOr(m, "frecuencia", "frecuencia_texto"),
		FrecuenciaHoras:    m["frecuencia_horas"],
	}

	auditoria := Audit{
		EsAIJ:            boolPtr(esAIJ),
		EsTratamientoAIJ: boolPtr(m["es_tratamiento_aij"]),
		Razon:            getOr(m, "razon", "razon_decision"),
		RazonDecision:    m["razon_decision"],
	}

	// Ojo: un estado explícito en el esquema plano SÍ se respeta aquí,
	// mientras que en la detección canónica su mera presencia evita el
	// remodelado. Es la precedencia del sistema original y se mantiene.
	estado := coerceEstado(m["estado"])
	if estado == "" {
		if isTrue(esAIJ) {
			estado = EstadoAprobada
		} else {
			estado = EstadoAlerta
		}
	}

	decision := m["decision"]
	if isEmptyValue(decision) {
		decision = m["severidad"]
	}

	return Record{
		Estado:    estado,
		Analisis:  analisis,
		Auditoria: auditoria,
		Decision:  decision,
	}
}

// normalizeText intenta reparar/parsear texto sucio (vallas markdown, prosa
// alrededor de un fragmento JSON). Si la reparación falla por completo,
// devuelve el registro de fallback con el texto limpio como razón.
func normalizeText(texto string) Record {
	if v, ok := repairJSON(texto); ok {
		switch t := v.(type) {
		case []any:
			if len(t) > 0 {
				if m, ok := t[0].(map[string]any); ok {
					return normalizeObject(m)
				}
			}
		case map[string]any:
			return normalizeObject(t)
		}
	}

	return fallbackRecord(texto)
}

func fallbackRecord(texto string) Record {
	limpio := texto
	limpio = strings.ReplaceAll(limpio, "```json", "")
	limpio = strings.ReplaceAll(limpio, "```", "")
	limpio = strings.ReplaceAll(limpio, "**", "")
	limpio = strings.TrimSpace(limpio)

	return Record{
		Estado: EstadoNota,
		Analisis: Analysis{
			Farmaco:        "Ver texto",
			DosisCalculada: "-",
		},
		Auditoria: Audit{
			EsAIJ: nil,
			Razon: limpio,
		},
	}
}

func hasAnyKey(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

// getOr devuelve m[key] si la clave existe (aunque sea nil), si no m[alt].
func getOr(m map[string]any, key, alt string) any {
	if v, ok := m[key]; ok {
		return v
	}
	return m[alt]
}

// boolPtr conserva solo booleanos reales; "true" en string o 1 numérico no
// cuentan como afirmación del agente.
func boolPtr(v any) *bool {
	if b, ok := v.(bool); ok {
		return &b
	}
	return nil
}

func isTrue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}

func coerceEstado(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
