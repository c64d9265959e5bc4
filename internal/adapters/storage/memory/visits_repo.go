package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"aij-connect/internal/domain/visits"
)

type visitsRepo struct {
	mu        sync.RWMutex
	byPatient map[string][]visits.Visit
}

func NewVisitsRepo() visits.Repository {
	return &visitsRepo{
		byPatient: make(map[string][]visits.Visit),
	}
}

func (r *visitsRepo) Create(ctx context.Context, v visits.Visit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(v.ID) == "" {
		return errors.New("visit id required")
	}
	if strings.TrimSpace(v.PatientID) == "" {
		return errors.New("patient id required")
	}
	r.byPatient[v.PatientID] = append(r.byPatient[v.PatientID], v)
	return nil
}

func (r *visitsRepo) ListByPatient(ctx context.Context, patientID string) ([]visits.Visit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byPatient[patientID]
	out := make([]visits.Visit, len(items))
	copy(out, items)

	// El historial se consume en orden cronológico: la última visita es la
	// fuente del plan vigente para el chatbot.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}
