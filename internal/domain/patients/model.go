package patients

import "time"

// Sexo del paciente.
// @Enum Mujer, Hombre
type Sexo string

const (
	SexoMujer  Sexo = "Mujer"
	SexoHombre Sexo = "Hombre"
)

// TipoAIJ define los subtipos diagnósticos soportados.
type TipoAIJ string

const (
	AIJSistemica      TipoAIJ = "AIJ sistémica"
	AIJOligoarticular TipoAIJ = "AIJ oligoarticular"
	AIJPoliarticular  TipoAIJ = "AIJ poliarticular"
	ArtritisPsoriasica TipoAIJ = "Artritis psoriásica"
	Entesitis         TipoAIJ = "Entesitis"
	Indiferenciada    TipoAIJ = "Indiferenciada"
)

// Riesgo de uveítis calculado al alta.
const (
	RiesgoUveitisMuyAlto = "Muy Alto (Recurrente)"
	RiesgoUveitisAlto    = "Alto"
	RiesgoUveitisBajo    = "Bajo"
)

// PerfilInmuno recoge los marcadores inmunológicos al debut.
type PerfilInmuno struct {
	FR     bool `json:"fr"`
	ACPA   bool `json:"acpa"`
	HLAB27 bool `json:"hla_b27"`
	ANA    bool `json:"ana"`
}

// Patient representa a un paciente dado de alta en la unidad.
// El diagnóstico se guarda ya etiquetado con los marcadores positivos
// (ej: "AIJ poliarticular (FR+, ANA+)").
type Patient struct {
	ID             string
	NumeroHistoria string
	Nombre         string

	FechaNacimiento *time.Time
	Sexo            Sexo

	PesoActual float64
	Talla      float64
	BSA        float64

	Diagnostico     string
	FechaSintomas   *time.Time
	HistoriaUveitis bool

	ArticulacionesAfectadas []string
	PerfilInmuno            PerfilInmuno
	RiesgoUveitis           string

	// Históricos indexados por fecha (YYYY-MM-DD); se actualizan al
	// guardar cada visita.
	HistorialPeso  map[string]float64
	HistorialTalla map[string]float64

	UltimoCursoClinico string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Edad devuelve la edad en años cumplidos respecto a la fecha dada.
func (p Patient) Edad(hoy time.Time) int {
	if p.FechaNacimiento == nil {
		return 0
	}
	return hoy.Year() - p.FechaNacimiento.Year()
}
