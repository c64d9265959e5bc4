package advisory

import (
	"reflect"
	"testing"
)

func boolp(b bool) *bool { return &b }

func TestClassify_DecisionExplicitaMandaSobreEstado(t *testing.T) {
	rec := Record{
		Estado:   EstadoAprobada,
		Decision: "rechazada",
	}

	c := Classify(rec)

	if c.Verdict != VerdictRechazada {
		t.Fatalf("esperaba Rechazada (decision explícita), obtuve %s", c.Verdict)
	}
}

func TestClassify_PalabraDeRechazoEnRazon(t *testing.T) {
	rec := Record{
		Estado:    EstadoAlerta,
		Auditoria: Audit{EsAIJ: nil, Razon: "dosis excesiva detectada"},
	}

	c := Classify(rec)

	if c.Verdict != VerdictRechazada {
		t.Fatalf("esperaba Rechazada por palabra clave, obtuve %s", c.Verdict)
	}
}

func TestClassify_AprobadaPorEsAIJ(t *testing.T) {
	rec := Record{
		Auditoria: Audit{EsAIJ: boolp(true)},
	}

	if c := Classify(rec); c.Verdict != VerdictAprobada {
		t.Fatalf("esperaba Aprobada por es_aij, obtuve %s", c.Verdict)
	}
}

func TestClassify_AprobadaPorEsTratamientoAIJ(t *testing.T) {
	rec := Record{
		Auditoria: Audit{EsTratamientoAIJ: boolp(true)},
	}

	if c := Classify(rec); c.Verdict != VerdictAprobada {
		t.Fatalf("esperaba Aprobada por es_tratamiento_aij, obtuve %s", c.Verdict)
	}
}

func TestClassify_SinSenalesNiPalabras_Alerta(t *testing.T) {
	rec := Record{
		Estado:    "Desconocido",
		Auditoria: Audit{Razon: "faltan datos del paciente"},
	}

	c := Classify(rec)

	if c.Verdict != VerdictAlerta {
		t.Fatalf("esperaba Alerta, obtuve %s", c.Verdict)
	}
}

func TestClassify_PrioridadDeDecision_AprobSobreRech(t *testing.T) {
	// "aprob" se busca antes que "rech": un texto que contiene ambas
	// se resuelve como Aprobada.
	rec := Record{Decision: "aprobada pese a rechazo inicial"}

	if c := Classify(rec); c.Verdict != VerdictAprobada {
		t.Fatalf("esperaba Aprobada, obtuve %s", c.Verdict)
	}
}

func TestClassify_SeveridadComoAliasDeDecision(t *testing.T) {
	rec := Record{
		Estado: EstadoAprobada,
		Extra:  map[string]any{"severidad": "ALERTA grave"},
	}

	if c := Classify(rec); c.Verdict != VerdictAlerta {
		t.Fatalf("esperaba Alerta vía severidad, obtuve %s", c.Verdict)
	}
}

func TestClassify_DosisMgKgPreferidaYConSufijo(t *testing.T) {
	rec := Record{
		Analisis: Analysis{
			DosisMgKgDetectada: "0.5",
			DosisCalculada:     "15 mg",
		},
	}

	c := Classify(rec)

	if c.Dosis != "0.5 mg/kg" {
		t.Fatalf("esperaba '0.5 mg/kg', obtuve %q", c.Dosis)
	}
}

func TestClassify_DosisMgKgSinDuplicarSufijo(t *testing.T) {
	rec := Record{Analisis: Analysis{DosisMgKg: "0.5 mg/kg"}}

	if c := Classify(rec); c.Dosis != "0.5 mg/kg" {
		t.Fatalf("esperaba '0.5 mg/kg', obtuve %q", c.Dosis)
	}
}

func TestClassify_DosisCalculadaComoFallback(t *testing.T) {
	rec := Record{Analisis: Analysis{DosisCalculada: "15 mg"}}

	if c := Classify(rec); c.Dosis != "15 mg" {
		t.Fatalf("esperaba '15 mg', obtuve %q", c.Dosis)
	}
}

func TestClassify_DosisAusente_Guion(t *testing.T) {
	if c := Classify(Record{}); c.Dosis != "-" {
		t.Fatalf("esperaba '-', obtuve %q", c.Dosis)
	}
}

func TestClassify_AliasAnidadoAntesQuePlano(t *testing.T) {
	rec := Record{
		Analisis: Analysis{Farmaco: "Metotrexato"},
		Extra:    map[string]any{"farmaco": "Ibuprofeno"},
	}

	if c := Classify(rec); c.Farmaco != "Metotrexato" {
		t.Fatalf("esperaba el valor anidado, obtuve %q", c.Farmaco)
	}
}

func TestClassify_RazonAnidaSubObjetosComoJSON(t *testing.T) {
	rec := Record{
		Auditoria: Audit{Razon: map[string]any{"detalle": "dosis"}},
	}

	c := Classify(rec)

	if c.Razon != `{"detalle":"dosis"}` {
		t.Fatalf("esperaba razon serializada a JSON, obtuve %q", c.Razon)
	}
}

func TestClassify_RazonPorDefecto(t *testing.T) {
	if c := Classify(Record{Estado: EstadoAprobada}); c.Razon != "Sin comentarios." {
		t.Fatalf("esperaba 'Sin comentarios.', obtuve %q", c.Razon)
	}
}

func TestClassify_EsPuraYDeterminista(t *testing.T) {
	rec := Normalize(mustMap(t, `{
		"estado": "Alerta",
		"analisis": {"farmaco": "Prednisona", "dosis_calculada": "5 mg"},
		"auditoria": {"es_aij": null, "razon": "corticoide en pauta corta"}
	}`))

	a := Classify(rec)
	b := Classify(rec)

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("clasificación no determinista: %+v vs %+v", a, b)
	}
}
