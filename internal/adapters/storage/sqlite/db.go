package sqlite

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// Open abre (o crea) la base de datos en path y aplica el esquema mínimo.
// Pensado para el modo mono-usuario/offline: cada registro se guarda como
// documento JSON completo, igual que hacía el almacenamiento en ficheros.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL para mejor concurrencia en escrituras pequeñas.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS patients (
		id TEXT PRIMARY KEY,
		doc TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS visits (
		id TEXT PRIMARY KEY,
		patient_id TEXT NOT NULL,
		doc TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_visits_patient ON visits(patient_id, created_at);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
