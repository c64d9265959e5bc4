package visits

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"aij-connect/internal/domain/advisory"
	"aij-connect/internal/domain/patients"
	"aij-connect/internal/ports/advisor"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("visit not found")
)

type Service struct {
	repo     Repository
	patients *patients.Service
	advisor  advisor.Advisor // nil = modo degradado, sin validación
	now      func() time.Time
}

func NewService(repo Repository, patientsSvc *patients.Service, adv advisor.Advisor) *Service {
	return &Service{
		repo:     repo,
		patients: patientsSvc,
		advisor:  adv,
		now:      time.Now,
	}
}

type CreateInput struct {
	Anamnesis string

	Peso  float64
	Talla float64

	Exploracion Exploracion
	Analitica   Analitica
	Pruebas     string

	PlanTratamiento string

	// AuditoriaIA es el dictamen cacheado de la validación previa al
	// guardado; se persiste tal cual, puede ser nil si no se validó.
	AuditoriaIA *advisory.Record

	DocumentosAdjuntos []string
	EfectosAdversos    []EfectoAdverso
}

// Create registra una visita de seguimiento: genera el curso clínico,
// persiste la visita y actualiza peso/talla/curso del paciente.
func (s *Service) Create(ctx context.Context, patientID string, in CreateInput) (Visit, error) {
	if strings.TrimSpace(patientID) == "" {
		return Visit{}, ErrInvalidInput
	}
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return Visit{}, err
	}

	now := s.now()
	fecha := now.Format("2006-01-02")
	bsa := patients.BSA(in.Peso, in.Talla)

	curso := GenerarCursoClinico(fecha, in.Peso, bsa, in.Exploracion, in.Anamnesis, in.PlanTratamiento)

	v := Visit{
		ID:        uuid.NewString(),
		PatientID: patientID,
		Fecha:     fecha,
		Tipo:      TipoSeguimiento,

		Anamnesis:    in.Anamnesis,
		DatosBasicos: DatosBasicos{Peso: in.Peso, Talla: in.Talla, BSA: bsa},
		Exploracion:  in.Exploracion,
		Analitica:    in.Analitica,
		Pruebas:      in.Pruebas,

		PlanTratamiento:      in.PlanTratamiento,
		CursoClinicoGenerado: curso,

		AuditoriaIA: in.AuditoriaIA,

		DocumentosAdjuntos: append([]string(nil), in.DocumentosAdjuntos...),
		EfectosAdversos:    append([]EfectoAdverso(nil), in.EfectosAdversos...),

		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return Visit{}, err
	}

	if _, err := s.patients.RecordVisitMetrics(ctx, patientID, in.Peso, in.Talla, curso); err != nil {
		return Visit{}, err
	}
	return v, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]Visit, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListByPatient(ctx, patientID)
}

// ValidatePlan somete el plan terapéutico al agente de validación y devuelve
// el registro canónico más su clasificación. Nunca devuelve error por culpa
// del agente: sin agente configurado el registro es Offline, y un fallo de
// transporte se convierte en un registro de estado Error.
func (s *Service) ValidatePlan(ctx context.Context, patientID, plan string, peso float64) (advisory.Record, advisory.Classification, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return advisory.Record{}, advisory.Classification{}, err
	}

	var rec advisory.Record
	switch {
	case s.advisor == nil:
		rec = advisory.OfflineRecord()
	default:
		raw, err := s.advisor.Validate(ctx, plan, peso, patientID)
		if err != nil {
			rec = advisory.ErrorRecord(fmt.Sprintf("Error: %v", err))
		} else {
			rec = advisory.Normalize(raw)
		}
	}

	return rec, advisory.Classify(rec), nil
}

// JADAS calcula el índice de actividad de la visita a partir de su
// exploración y analítica.
func (v Visit) JADAS() JADASResult {
	return JADAS27(
		v.Exploracion.NAD,
		v.Exploracion.EVAMedico,
		v.Exploracion.EVAPaciente,
		parseAnalitica(v.Analitica.VSG),
		parseAnalitica(v.Analitica.PCR),
	)
}

// GenerarCursoClinico compone la narrativa estructurada de la visita. El
// formato es estable: el chatbot localiza el plan vigente buscando el
// marcador "PLAN:" dentro de este texto.
func GenerarCursoClinico(fecha string, peso, bsa float64, exp Exploracion, anamnesis, plan string) string {
	arts := strings.Join(exp.ArticulacionesActivas, ", ")
	return fmt.Sprintf(
		"FECHA: %s\nPESO: %gkg | BSA: %gm²\nEVA: %d/10 (médico) | %d/10 (paciente)\nANAMNESIS: %s\nEXPLORACIÓN: %s\nPLAN: %s",
		fecha, peso, bsa, exp.EVAMedico, exp.EVAPaciente, anamnesis, arts, plan,
	)
}
