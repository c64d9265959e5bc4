package visits

import "context"

type Repository interface {
	Create(ctx context.Context, v Visit) error
	ListByPatient(ctx context.Context, patientID string) ([]Visit, error)
}
