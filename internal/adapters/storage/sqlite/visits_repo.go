package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"aij-connect/internal/domain/visits"
)

type VisitsRepo struct {
	db *sql.DB
}

func NewVisitsRepo(db *sql.DB) *VisitsRepo {
	return &VisitsRepo{db: db}
}

func (r *VisitsRepo) Create(ctx context.Context, v visits.Visit) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO visits(id, patient_id, doc, created_at) VALUES(?,?,?,?)`,
		v.ID, v.PatientID, string(doc), v.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (r *VisitsRepo) ListByPatient(ctx context.Context, patientID string) ([]visits.Visit, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT doc FROM visits WHERE patient_id = ? ORDER BY created_at ASC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]visits.Visit, 0)
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var v visits.Visit
		if err := json.Unmarshal([]byte(doc), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
