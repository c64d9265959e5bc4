package visits

import (
	"time"

	"aij-connect/internal/domain/advisory"
)

// TipoSeguimiento es el único tipo de visita que genera este módulo; las
// visitas de debut quedan registradas en el alta del paciente.
const TipoSeguimiento = "Seguimiento"

// Gravedad de un efecto adverso.
// @Enum Leve, Moderado, Grave
type Gravedad string

const (
	GravedadLeve     Gravedad = "Leve"
	GravedadModerado Gravedad = "Moderado"
	GravedadGrave    Gravedad = "Grave"
)

// DatosBasicos son las medidas tomadas en consulta.
type DatosBasicos struct {
	Peso  float64 `json:"peso"`
	Talla float64 `json:"talla"`
	BSA   float64 `json:"bsa"`
}

// Exploracion recoge el examen articular.
type Exploracion struct {
	NAD                   int      `json:"nad"` // articulaciones dolorosas
	NAT                   int      `json:"nat"` // articulaciones tumefactas
	EVAMedico             int      `json:"eva"`
	EVAPaciente           int      `json:"eva_paciente"`
	ArticulacionesActivas []string `json:"arts_activas"`
}

// Analitica conserva los valores tal como se teclearon (con coma decimal
// incluida); la conversión numérica se hace solo donde hace falta (JADAS).
type Analitica struct {
	Hb     string `json:"hb"`
	VSG    string `json:"vsg"`
	PCR    string `json:"pcr"`
	Calpro string `json:"calpro"`
}

// EfectoAdverso es una entrada del registro de farmacovigilancia de la
// visita. Se persiste literalmente, en el orden en que se añadió.
type EfectoAdverso struct {
	Fecha       string   `json:"fecha"`
	Medicacion  string   `json:"medicacion"`
	Efectos     []string `json:"efectos"`
	Descripcion string   `json:"descripcion"`
	Gravedad    Gravedad `json:"gravedad"`
}

// Visit es el registro completo de una visita de seguimiento.
type Visit struct {
	ID        string
	PatientID string

	Fecha string // YYYY-MM-DD
	Tipo  string

	Anamnesis    string
	DatosBasicos DatosBasicos
	Exploracion  Exploracion
	Analitica    Analitica
	Pruebas      string

	PlanTratamiento      string
	CursoClinicoGenerado string

	// AuditoriaIA guarda el dictamen normalizado del agente tal cual se
	// obtuvo al validar el plan; no se reclasifica al guardar.
	AuditoriaIA *advisory.Record

	DocumentosAdjuntos []string
	EfectosAdversos    []EfectoAdverso

	CreatedAt time.Time
}

// EfectosComunes es el catálogo de efectos adversos frecuentes por familia
// de medicación que la UI ofrece como opciones rápidas.
var EfectosComunes = map[string][]string{
	"MTX/Metotrexato": {"Náuseas/Vómitos", "Mucositis oral", "Elevación transaminasas", "Cefalea", "Astenia", "Alopecia"},
	"AINEs":           {"Dolor abdominal", "Pirosis/Reflujo", "Náuseas"},
	"Corticoides":     {"Aumento peso", "Hiperglucemia", "Cambios humor", "Insomnio", "Acné", "Cushing"},
	"Biológicos":      {"Reacción infusión/inyección", "Infección respiratoria", "Infección urinaria", "Cefalea", "Fiebre"},
}
