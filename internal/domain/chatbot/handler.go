package chatbot

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"aij-connect/internal/domain/patients"
	"aij-connect/internal/domain/visits"
	"aij-connect/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, store *SessionStore, patientsSvc *patients.Service, visitsSvc *visits.Service) {
	r.Post("/patients/{patientID}/chat", chatHandler(store, patientsSvc, visitsSvc))
}

type chatRequest struct {
	Question string `json:"question"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

func chatHandler(store *SessionStore, patientsSvc *patients.Service, visitsSvc *visits.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Question) == "" {
			http.Error(w, "question is required", http.StatusBadRequest)
			return
		}

		patientID := chi.URLParam(r, "patientID")
		p, err := patientsSvc.GetByID(r.Context(), patientID)
		if err != nil {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}

		historial, err := visitsSvc.ListByPatient(r.Context(), patientID)
		if err != nil && !errors.Is(err, patients.ErrNotFound) {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		sesion := store.Get(claims.UserID)
		answer := sesion.Respond(r.Context(), req.Question, historial, p.Nombre)

		writeJSON(w, http.StatusOK, chatResponse{Answer: answer})
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
