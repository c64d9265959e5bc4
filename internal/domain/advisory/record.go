package advisory

// Estados conocidos del registro canónico.
const (
	EstadoError    = "Error"
	EstadoOffline  = "Offline"
	EstadoAprobada = "Aprobada"
	EstadoAlerta   = "Alerta"
	EstadoNota     = "Nota del Asistente"
)

// Analysis agrupa los campos de análisis de dosis. Los valores son `any`
// porque el agente puede devolver strings, números o incluso sub-objetos;
// la coerción a texto se hace al clasificar/renderizar.
type Analysis struct {
	Farmaco            any `json:"farmaco,omitempty"`
	DosisCalculada     any `json:"dosis_calculada,omitempty"`
	DosisMgKg          any `json:"dosis_mg_kg,omitempty"`
	DosisMgKgDetectada any `json:"dosis_mg_kg_detectada,omitempty"`
	Frecuencia         any `json:"frecuencia,omitempty"`
	FrecuenciaTexto    any `json:"frecuencia_texto,omitempty"`
	FrecuenciaHoras    any `json:"frecuencia_horas,omitempty"`
}

// Audit agrupa el dictamen del agente. EsAIJ/EsTratamientoAIJ son tri-estado:
// nil significa "el agente no se pronunció", que NO equivale a false.
type Audit struct {
	EsAIJ            *bool `json:"es_aij"`
	EsTratamientoAIJ *bool `json:"es_tratamiento_aij,omitempty"`
	Razon            any   `json:"razon,omitempty"`
	RazonDecision    any   `json:"razon_decision,omitempty"`
	Decision         any   `json:"decision,omitempty"`
}

// Record es el registro canónico que produce Normalize. Pase lo que pase
// aguas arriba, los cuatro campos de nivel superior existen siempre:
// el clasificador nunca recibe nil ni claves ausentes.
//
// Se persiste tal cual dentro de la visita (auditoria_ia), sin reclasificar.
type Record struct {
	Estado    string   `json:"estado"`
	Analisis  Analysis `json:"analisis"`
	Auditoria Audit    `json:"auditoria"`
	Decision  any      `json:"decision,omitempty"`

	// Extra conserva claves de nivel superior que la forma canónica no
	// modela (payloads de forma desconocida que pasaron sin remodelar).
	// La resolución de alias del clasificador cae aquí como último recurso.
	Extra map[string]any `json:"extra,omitempty"`
}

// ErrorRecord construye el registro canónico de error con la razón dada.
func ErrorRecord(razon string) Record {
	return Record{
		Estado:    EstadoError,
		Auditoria: Audit{Razon: razon},
	}
}

// OfflineRecord es el registro que se muestra cuando el agente de
// validación no está configurado: modo degradado, la app sigue usable.
func OfflineRecord() Record {
	return Record{Estado: EstadoOffline}
}
