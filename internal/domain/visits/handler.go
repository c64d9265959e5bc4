package visits

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"aij-connect/internal/domain/advisory"
	"aij-connect/internal/domain/patients"
	"aij-connect/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/patients/{patientID}/visits", func(vr chi.Router) {
		vr.Post("/", createVisitHandler(svc))
		vr.Get("/", listVisitsHandler(svc))
		vr.Post("/validate", validatePlanHandler(svc))
	})

	// Catálogo estático de efectos frecuentes por familia de medicación.
	r.Get("/catalogs/adverse-effects", adverseEffectsCatalogHandler())
}

type createVisitRequest struct {
	Anamnesis string `json:"anamnesis"`

	Peso  float64 `json:"peso"`
	Talla float64 `json:"talla"`

	NAD                   int      `json:"nad"`
	NAT                   int      `json:"nat"`
	EVA                   int      `json:"eva"`
	EVAPaciente           int      `json:"eva_paciente"`
	ArticulacionesActivas []string `json:"arts_activas"`

	Analitica Analitica `json:"analitica"`
	Pruebas   string    `json:"pruebas"`

	PlanTratamiento string `json:"plan_tratamiento"`

	AuditoriaIA *advisory.Record `json:"auditoria_ia"`

	DocumentosAdjuntos []string        `json:"documentos_adjuntos"`
	EfectosAdversos    []EfectoAdverso `json:"efectos_adversos"`
}

type visitResponse struct {
	ID        string `json:"id"`
	PatientID string `json:"patient_id"`
	Fecha     string `json:"fecha"`
	Tipo      string `json:"tipo"`

	Anamnesis    string       `json:"anamnesis"`
	DatosBasicos DatosBasicos `json:"datos_basicos"`
	Exploracion  Exploracion  `json:"exploracion"`
	Analitica    Analitica    `json:"analitica"`
	Pruebas      string       `json:"pruebas,omitempty"`

	PlanTratamiento      string `json:"plan_tratamiento"`
	CursoClinicoGenerado string `json:"curso_clinico_generado"`

	AuditoriaIA *advisory.Record `json:"auditoria_ia,omitempty"`

	DocumentosAdjuntos []string        `json:"documentos_adjuntos,omitempty"`
	EfectosAdversos    []EfectoAdverso `json:"efectos_adversos"`

	JADAS JADASResult `json:"jadas"`

	CreatedAt time.Time `json:"created_at"`
}

type validatePlanRequest struct {
	Plan string  `json:"plan"`
	Peso float64 `json:"peso"`
}

type validatePlanResponse struct {
	Registro      advisory.Record         `json:"registro"`
	Clasificacion advisory.Classification `json:"clasificacion"`
}

func createVisitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createVisitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		v, err := svc.Create(r.Context(), chi.URLParam(r, "patientID"), CreateInput{
			Anamnesis: req.Anamnesis,
			Peso:      req.Peso,
			Talla:     req.Talla,
			Exploracion: Exploracion{
				NAD:                   req.NAD,
				NAT:                   req.NAT,
				EVAMedico:             req.EVA,
				EVAPaciente:           req.EVAPaciente,
				ArticulacionesActivas: req.ArticulacionesActivas,
			},
			Analitica:          req.Analitica,
			Pruebas:            req.Pruebas,
			PlanTratamiento:    req.PlanTratamiento,
			AuditoriaIA:        req.AuditoriaIA,
			DocumentosAdjuntos: req.DocumentosAdjuntos,
			EfectosAdversos:    req.EfectosAdversos,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toVisitResponse(v))
	}
}

func listVisitsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByPatient(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]visitResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toVisitResponse(v))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func validatePlanHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req validatePlanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rec, cls, err := svc.ValidatePlan(r.Context(), chi.URLParam(r, "patientID"), req.Plan, req.Peso)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, validatePlanResponse{Registro: rec, Clasificacion: cls})
	}
}

func adverseEffectsCatalogHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, EfectosComunes)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, patients.ErrNotFound), errors.Is(err, ErrNotFound):
		http.Error(w, "patient not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toVisitResponse(v Visit) visitResponse {
	return visitResponse{
		ID:                   v.ID,
		PatientID:            v.PatientID,
		Fecha:                v.Fecha,
		Tipo:                 v.Tipo,
		Anamnesis:            v.Anamnesis,
		DatosBasicos:         v.DatosBasicos,
		Exploracion:          v.Exploracion,
		Analitica:            v.Analitica,
		Pruebas:              v.Pruebas,
		PlanTratamiento:      v.PlanTratamiento,
		CursoClinicoGenerado: v.CursoClinicoGenerado,
		AuditoriaIA:          v.AuditoriaIA,
		DocumentosAdjuntos:   v.DocumentosAdjuntos,
		EfectosAdversos:      v.EfectosAdversos,
		JADAS:                v.JADAS(),
		CreatedAt:            v.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
