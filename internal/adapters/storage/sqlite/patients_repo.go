package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"aij-connect/internal/domain/patients"
)

type PatientsRepo struct {
	db *sql.DB
}

func NewPatientsRepo(db *sql.DB) *PatientsRepo {
	return &PatientsRepo{db: db}
}

func (r *PatientsRepo) Create(ctx context.Context, p patients.Patient) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO patients(id, doc, created_at) VALUES(?,?,?)`,
		p.ID, string(doc), p.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (r *PatientsRepo) GetByID(ctx context.Context, id string) (patients.Patient, error) {
	var doc string
	err := r.db.QueryRowContext(ctx, `SELECT doc FROM patients WHERE id = ?`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return patients.Patient{}, patients.ErrNotFound
	}
	if err != nil {
		return patients.Patient{}, err
	}

	var p patients.Patient
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return patients.Patient{}, err
	}
	return p, nil
}

func (r *PatientsRepo) List(ctx context.Context) ([]patients.Patient, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT doc FROM patients ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]patients.Patient, 0)
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var p patients.Patient
		if err := json.Unmarshal([]byte(doc), &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PatientsRepo) Update(ctx context.Context, p patients.Patient) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE patients SET doc = ? WHERE id = ?`, string(doc), p.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return patients.ErrNotFound
	}
	return nil
}
