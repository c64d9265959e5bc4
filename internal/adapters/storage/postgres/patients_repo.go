package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
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
	arts, perfil, hPeso, hTalla, err := marshalPatientJSON(p)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO patients (
			id, numero_historia, nombre,
			fecha_nacimiento, sexo,
			peso_actual, talla, bsa,
			diagnostico, fecha_sintomas, historia_uveitis,
			articulaciones_afectadas, perfil_inmuno, riesgo_uveitis,
			historial_peso, historial_talla, ultimo_curso_clinico,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	`,
		p.ID,
		p.NumeroHistoria,
		p.Nombre,
		toNullDate(p.FechaNacimiento),
		p.Sexo,
		p.PesoActual,
		p.Talla,
		p.BSA,
		p.Diagnostico,
		toNullDate(p.FechaSintomas),
		p.HistoriaUveitis,
		arts,
		perfil,
		p.RiesgoUveitis,
		hPeso,
		hTalla,
		p.UltimoCursoClinico,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PatientsRepo) Update(ctx context.Context, p patients.Patient) error {
	arts, perfil, hPeso, hTalla, err := marshalPatientJSON(p)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE patients
		SET
			numero_historia = $2,
			nombre = $3,
			fecha_nacimiento = $4,
			sexo = $5,
			peso_actual = $6,
			talla = $7,
			bsa = $8,
			diagnostico = $9,
			fecha_sintomas = $10,
			historia_uveitis = $11,
			articulaciones_afectadas = $12,
			perfil_inmuno = $13,
			riesgo_uveitis = $14,
			historial_peso = $15,
			historial_talla = $16,
			ultimo_curso_clinico = $17,
			updated_at = $18
		WHERE id = $1
	`,
		p.ID,
		p.NumeroHistoria,
		p.Nombre,
		toNullDate(p.FechaNacimiento),
		p.Sexo,
		p.PesoActual,
		p.Talla,
		p.BSA,
		p.Diagnostico,
		toNullDate(p.FechaSintomas),
		p.HistoriaUveitis,
		arts,
		perfil,
		p.RiesgoUveitis,
		hPeso,
		hTalla,
		p.UltimoCursoClinico,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return patients.ErrNotFound
	}
	return nil
}

func (r *PatientsRepo) GetByID(ctx context.Context, id string) (patients.Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return patients.Patient{}, patients.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, selectPatient+` WHERE id = $1`, id)
	p, err := scanPatient(row)
	if err == sql.ErrNoRows {
		return patients.Patient{}, patients.ErrNotFound
	}
	return p, err
}

func (r *PatientsRepo) List(ctx context.Context) ([]patients.Patient, error) {
	rows, err := r.db.QueryContext(ctx, selectPatient+` ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]patients.Patient, 0)
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const selectPatient = `
	SELECT
		id, numero_historia, nombre,
		fecha_nacimiento, sexo,
		peso_actual, talla, bsa,
		diagnostico, fecha_sintomas, historia_uveitis,
		articulaciones_afectadas, perfil_inmuno, riesgo_uveitis,
		historial_peso, historial_talla, ultimo_curso_clinico,
		created_at, updated_at
	FROM patients`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row rowScanner) (patients.Patient, error) {
	var p patients.Patient
	var fnac, fsint sql.NullTime
	var arts, perfil, hPeso, hTalla []byte

	if err := row.Scan(
		&p.ID,
		&p.NumeroHistoria,
		&p.Nombre,
		&fnac,
		&p.Sexo,
		&p.PesoActual,
		&p.Talla,
		&p.BSA,
		&p.Diagnostico,
		&fsint,
		&p.HistoriaUveitis,
		&arts,
		&perfil,
		&p.RiesgoUveitis,
		&hPeso,
		&hTalla,
		&p.UltimoCursoClinico,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return patients.Patient{}, err
	}

	if fnac.Valid {
		t := fnac.Time
		p.FechaNacimiento = &t
	}
	if fsint.Valid {
		t := fsint.Time
		p.FechaSintomas = &t
	}

	if err := json.Unmarshal(arts, &p.ArticulacionesAfectadas); err != nil {
		return patients.Patient{}, err
	}
	if err := json.Unmarshal(perfil, &p.PerfilInmuno); err != nil {
		return patients.Patient{}, err
	}
	if err := json.Unmarshal(hPeso, &p.HistorialPeso); err != nil {
		return patients.Patient{}, err
	}
	if err := json.Unmarshal(hTalla, &p.HistorialTalla); err != nil {
		return patients.Patient{}, err
	}

	return p, nil
}

// Los campos compuestos (histórico, perfil, articulaciones) van en columnas
// JSONB: se consultan poco y siempre enteros.
func marshalPatientJSON(p patients.Patient) (arts, perfil, hPeso, hTalla []byte, err error) {
	if p.ArticulacionesAfectadas == nil {
		p.ArticulacionesAfectadas = []string{}
	}
	if p.HistorialPeso == nil {
		p.HistorialPeso = map[string]float64{}
	}
	if p.HistorialTalla == nil {
		p.HistorialTalla = map[string]float64{}
	}

	if arts, err = json.Marshal(p.ArticulacionesAfectadas); err != nil {
		return
	}
	if perfil, err = json.Marshal(p.PerfilInmuno); err != nil {
		return
	}
	if hPeso, err = json.Marshal(p.HistorialPeso); err != nil {
		return
	}
	hTalla, err = json.Marshal(p.HistorialTalla)
	return
}

// fecha_nacimiento / fecha_sintomas son DATE, los pasamos como NullTime
func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
