package patients

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"aij-connect/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/patients", func(pr chi.Router) {
		pr.Post("/", createPatientHandler(svc))
		pr.Get("/", listPatientsHandler(svc))
		pr.Get("/nhc", generateNHCHandler(svc))
		pr.Get("/{patientID}", getPatientHandler(svc))
	})
}

type createPatientRequest struct {
	NumeroHistoria  string       `json:"numero_historia"`
	Nombre          string       `json:"nombre"`
	FechaNacimiento string       `json:"fecha_nacimiento"` // YYYY-MM-DD opcional
	Sexo            string       `json:"sexo"`
	Peso            float64      `json:"peso"`
	Talla           float64      `json:"talla"`
	Diagnostico     string       `json:"diagnostico"`
	FechaSintomas   string       `json:"fecha_sintomas"` // YYYY-MM-DD opcional
	HistoriaUveitis bool         `json:"historia_uveitis"`
	Articulaciones  []string     `json:"articulaciones_afectadas"`
	PerfilInmuno    PerfilInmuno `json:"perfil_inmuno"`
}

type patientResponse struct {
	ID              string       `json:"id"`
	NumeroHistoria  string       `json:"numero_historia"`
	Nombre          string       `json:"nombre"`
	FechaNacimiento *time.Time   `json:"fecha_nacimiento,omitempty"`
	Sexo            Sexo         `json:"sexo"`
	Edad            int          `json:"edad"`
	PesoActual      float64      `json:"peso_actual"`
	Talla           float64      `json:"talla"`
	BSA             float64      `json:"bsa"`
	Diagnostico     string       `json:"diagnostico"`
	FechaSintomas   *time.Time   `json:"fecha_sintomas,omitempty"`
	HistoriaUveitis bool         `json:"historia_uveitis"`
	Articulaciones  []string     `json:"articulaciones_afectadas"`
	PerfilInmuno    PerfilInmuno `json:"perfil_inmuno"`
	RiesgoUveitis   string       `json:"riesgo_uveitis"`

	HistorialPeso  map[string]float64 `json:"historial_peso"`
	HistorialTalla map[string]float64 `json:"historial_talla"`

	UltimoCursoClinico string `json:"ultimo_curso_clinico,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func createPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		fnac, err := parseDate(req.FechaNacimiento)
		if err != nil {
			http.Error(w, "fecha_nacimiento must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		fsint, err := parseDate(req.FechaSintomas)
		if err != nil {
			http.Error(w, "fecha_sintomas must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			NumeroHistoria:          req.NumeroHistoria,
			Nombre:                  req.Nombre,
			FechaNacimiento:         fnac,
			Sexo:                    Sexo(req.Sexo),
			Peso:                    req.Peso,
			Talla:                   req.Talla,
			Tipo:                    TipoAIJ(req.Diagnostico),
			FechaSintomas:           fsint,
			HistoriaUveitis:         req.HistoriaUveitis,
			ArticulacionesAfectadas: req.Articulaciones,
			PerfilInmuno:            req.PerfilInmuno,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toPatientResponse(p, time.Now()))
	}
}

func listPatientsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		now := time.Now()
		out := make([]patientResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPatientResponse(p, now))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toPatientResponse(p, time.Now()))
	}
}

func generateNHCHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"nhc": svc.GenerateNHC()})
	}
}

func parseDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toPatientResponse(p Patient, now time.Time) patientResponse {
	return patientResponse{
		ID:                 p.ID,
		NumeroHistoria:     p.NumeroHistoria,
		Nombre:             p.Nombre,
		FechaNacimiento:    p.FechaNacimiento,
		Sexo:               p.Sexo,
		Edad:               p.Edad(now),
		PesoActual:         p.PesoActual,
		Talla:              p.Talla,
		BSA:                p.BSA,
		Diagnostico:        p.Diagnostico,
		FechaSintomas:      p.FechaSintomas,
		HistoriaUveitis:    p.HistoriaUveitis,
		Articulaciones:     p.ArticulacionesAfectadas,
		PerfilInmuno:       p.PerfilInmuno,
		RiesgoUveitis:      p.RiesgoUveitis,
		HistorialPeso:      p.HistorialPeso,
		HistorialTalla:     p.HistorialTalla,
		UltimoCursoClinico: p.UltimoCursoClinico,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
