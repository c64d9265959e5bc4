package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"aij-connect/internal/domain/advisory"
	"aij-connect/internal/domain/visits"
)

type VisitsRepo struct {
	db *sql.DB
}

func NewVisitsRepo(db *sql.DB) *VisitsRepo {
	return &VisitsRepo{db: db}
}

func (r *VisitsRepo) Create(ctx context.Context, v visits.Visit) error {
	exploracion, err := json.Marshal(v.Exploracion)
	if err != nil {
		return err
	}
	analitica, err := json.Marshal(v.Analitica)
	if err != nil {
		return err
	}
	efectos, err := json.Marshal(emptyIfNilEfectos(v.EfectosAdversos))
	if err != nil {
		return err
	}
	docs, err := json.Marshal(emptyIfNilStrings(v.DocumentosAdjuntos))
	if err != nil {
		return err
	}

	// auditoria_ia se guarda tal cual (o NULL si no hubo validación)
	var auditoria []byte
	if v.AuditoriaIA != nil {
		if auditoria, err = json.Marshal(v.AuditoriaIA); err != nil {
			return err
		}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO visits (
			id, patient_id, fecha, tipo,
			anamnesis, peso, talla, bsa,
			exploracion, analitica, pruebas,
			plan_tratamiento, curso_clinico_generado,
			auditoria_ia, documentos_adjuntos, efectos_adversos,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`,
		v.ID,
		v.PatientID,
		v.Fecha,
		v.Tipo,
		v.Anamnesis,
		v.DatosBasicos.Peso,
		v.DatosBasicos.Talla,
		v.DatosBasicos.BSA,
		exploracion,
		analitica,
		v.Pruebas,
		v.PlanTratamiento,
		v.CursoClinicoGenerado,
		auditoria,
		docs,
		efectos,
		v.CreatedAt,
	)
	return err
}

func (r *VisitsRepo) ListByPatient(ctx context.Context, patientID string) ([]visits.Visit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, patient_id, fecha, tipo,
			anamnesis, peso, talla, bsa,
			exploracion, analitica, pruebas,
			plan_tratamiento, curso_clinico_generado,
			auditoria_ia, documentos_adjuntos, efectos_adversos,
			created_at
		FROM visits
		WHERE patient_id = $1
		ORDER BY created_at ASC
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]visits.Visit, 0)
	for rows.Next() {
		var v visits.Visit
		var exploracion, analitica, auditoria, docs, efectos []byte

		if err := rows.Scan(
			&v.ID,
			&v.PatientID,
			&v.Fecha,
			&v.Tipo,
			&v.Anamnesis,
			&v.DatosBasicos.Peso,
			&v.DatosBasicos.Talla,
			&v.DatosBasicos.BSA,
			&exploracion,
			&analitica,
			&v.Pruebas,
			&v.PlanTratamiento,
			&v.CursoClinicoGenerado,
			&auditoria,
			&docs,
			&efectos,
			&v.CreatedAt,
		); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(exploracion, &v.Exploracion); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(analitica, &v.Analitica); err != nil {
			return nil, err
		}
		if len(auditoria) > 0 {
			var rec advisory.Record
			if err := json.Unmarshal(auditoria, &rec); err != nil {
				return nil, err
			}
			v.AuditoriaIA = &rec
		}
		if err := json.Unmarshal(docs, &v.DocumentosAdjuntos); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(efectos, &v.EfectosAdversos); err != nil {
			return nil, err
		}

		out = append(out, v)
	}
	return out, rows.Err()
}

func emptyIfNilEfectos(in []visits.EfectoAdverso) []visits.EfectoAdverso {
	if in == nil {
		return []visits.EfectoAdverso{}
	}
	return in
}

func emptyIfNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
