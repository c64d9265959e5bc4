package patients

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("patient not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	NumeroHistoria string
	Nombre         string

	FechaNacimiento *time.Time
	Sexo            Sexo

	Peso  float64
	Talla float64

	Tipo            TipoAIJ
	FechaSintomas   *time.Time
	HistoriaUveitis bool

	ArticulacionesAfectadas []string
	PerfilInmuno            PerfilInmuno
}

// Create da de alta un paciente. NHC y nombre son obligatorios; si falta
// alguno no se persiste nada y el error es apto para mostrar al usuario.
func (s *Service) Create(ctx context.Context, in CreateInput) (Patient, error) {
	if strings.TrimSpace(in.NumeroHistoria) == "" {
		return Patient{}, fmt.Errorf("%w: falta el número de historia (NHC)", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Nombre) == "" {
		return Patient{}, fmt.Errorf("%w: falta el nombre del paciente", ErrInvalidInput)
	}

	now := s.now()
	hoy := now.Format("2006-01-02")

	arts := append([]string(nil), in.ArticulacionesAfectadas...)
	sort.Strings(arts)

	p := Patient{
		ID:              uuid.NewString(),
		NumeroHistoria:  strings.TrimSpace(in.NumeroHistoria),
		Nombre:          strings.TrimSpace(in.Nombre),
		FechaNacimiento: in.FechaNacimiento,
		Sexo:            in.Sexo,
		PesoActual:      in.Peso,
		Talla:           in.Talla,
		BSA:             BSA(in.Peso, in.Talla),

		Diagnostico:     EtiquetaDiagnostico(in.Tipo, in.PerfilInmuno),
		FechaSintomas:   in.FechaSintomas,
		HistoriaUveitis: in.HistoriaUveitis,

		ArticulacionesAfectadas: arts,
		PerfilInmuno:            in.PerfilInmuno,
		RiesgoUveitis:           RiesgoUveitis(in.HistoriaUveitis, in.PerfilInmuno),

		HistorialPeso:  map[string]float64{},
		HistorialTalla: map[string]float64{},

		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Peso > 0 {
		p.HistorialPeso[hoy] = in.Peso
	}
	if in.Talla > 0 {
		p.HistorialTalla[hoy] = in.Talla
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Patient{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Patient, error) {
	return s.repo.List(ctx)
}

// RecordVisitMetrics actualiza peso, talla y curso clínico del paciente al
// guardar una visita. Los valores no positivos se ignoran sin error: una
// visita sin peso no borra el peso conocido.
func (s *Service) RecordVisitMetrics(ctx context.Context, id string, peso, talla float64, curso string) (Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Patient{}, err
	}

	hoy := s.now().Format("2006-01-02")

	if peso > 0 {
		p.PesoActual = peso
		if p.HistorialPeso == nil {
			p.HistorialPeso = map[string]float64{}
		}
		p.HistorialPeso[hoy] = peso
	}
	if talla > 0 {
		p.Talla = talla
		if p.HistorialTalla == nil {
			p.HistorialTalla = map[string]float64{}
		}
		p.HistorialTalla[hoy] = talla
	}
	if peso > 0 || talla > 0 {
		p.BSA = BSA(p.PesoActual, p.Talla)
	}
	if curso != "" {
		p.UltimoCursoClinico = curso
	}
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Patient{}, err
	}
	return p, nil
}

// GenerateNHC devuelve un número de historia aleatorio para el alta rápida.
func (s *Service) GenerateNHC() string {
	return fmt.Sprintf("HC-%06d", rand.IntN(1_000_000))
}

// BSA calcula la superficie corporal con la fórmula de Mosteller,
// redondeada a 2 decimales. Devuelve 0 si falta peso o talla.
func BSA(pesoKg, tallaCm float64) float64 {
	if pesoKg <= 0 || tallaCm <= 0 {
		return 0
	}
	return math.Round(math.Sqrt(pesoKg*tallaCm/3600)*100) / 100
}

// EtiquetaDiagnostico compone la etiqueta final del diagnóstico con los
// marcadores positivos, ej. "AIJ poliarticular (FR+, ANA+)".
func EtiquetaDiagnostico(tipo TipoAIJ, perfil PerfilInmuno) string {
	var pos []string
	if perfil.FR {
		pos = append(pos, "FR+")
	}
	if perfil.ACPA {
		pos = append(pos, "ACPA+")
	}
	if perfil.HLAB27 {
		pos = append(pos, "HLA-B27+")
	}
	if perfil.ANA {
		pos = append(pos, "ANA+")
	}
	if len(pos) == 0 {
		return string(tipo)
	}
	return fmt.Sprintf("%s (%s)", tipo, strings.Join(pos, ", "))
}

// RiesgoUveitis estratifica el riesgo: antecedentes previos pesan más que
// los ANAs positivos.
func RiesgoUveitis(historiaUveitis bool, perfil PerfilInmuno) string {
	switch {
	case historiaUveitis:
		return RiesgoUveitisMuyAlto
	case perfil.ANA:
		return RiesgoUveitisAlto
	default:
		return RiesgoUveitisBajo
	}
}
