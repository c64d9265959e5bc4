package advisory

import (
	"encoding/json"
	"reflect"
	"testing"
)

func mustMap(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("fixture inválido: %v", err)
	}
	return m
}

func TestNormalize_Nil_DevuelveRegistroDeError(t *testing.T) {
	rec := Normalize(nil)

	if rec.Estado != EstadoError {
		t.Fatalf("esperaba estado %q, obtuve %q", EstadoError, rec.Estado)
	}
	if rec.Auditoria.Razon != "No hay respuesta" {
		t.Fatalf("esperaba razon 'No hay respuesta', obtuve %v", rec.Auditoria.Razon)
	}
}

func TestNormalize_EsquemaCanonico_Passthrough(t *testing.T) {
	in := mustMap(t, `{
		"estado": "Aprobada",
		"analisis": {"farmaco": "Metotrexato", "dosis_calculada": "15 mg", "frecuencia": "semanal"},
		"auditoria": {"es_aij": true, "razon": "dosis dentro de rango"},
		"decision": "aprobada",
		"modelo": "crew-v2"
	}`)

	rec := Normalize(in)

	if rec.Estado != "Aprobada" {
		t.Fatalf("estado: esperaba Aprobada, obtuve %q", rec.Estado)
	}
	if rec.Analisis.Farmaco != "Metotrexato" || rec.Analisis.DosisCalculada != "15 mg" {
		t.Fatalf("analisis no conservado: %+v", rec.Analisis)
	}
	if rec.Auditoria.EsAIJ == nil || !*rec.Auditoria.EsAIJ {
		t.Fatalf("es_aij: esperaba true, obtuve %v", rec.Auditoria.EsAIJ)
	}
	if rec.Decision != "aprobada" {
		t.Fatalf("decision: esperaba aprobada, obtuve %v", rec.Decision)
	}
	// la clave de nivel superior no modelada se conserva para los alias
	if rec.Extra["modelo"] != "crew-v2" {
		t.Fatalf("extra: esperaba modelo crew-v2, obtuve %v", rec.Extra)
	}
}

func TestNormalize_EsquemaPlano_DerivaAprobada(t *testing.T) {
	in := mustMap(t, `{
		"farmaco": "Metotrexato",
		"dosis_mg_kg": "0.4",
		"dosis_mg_kg_detectada": "0.5",
		"frecuencia_texto": "semanal",
		"es_aij": true,
		"razon_decision": "pauta habitual en AIJ"
	}`)

	rec := Normalize(in)

	if rec.Estado != EstadoAprobada {
		t.Fatalf("estado: esperaba Aprobada, obtuve %q", rec.Estado)
	}
	// la clave más específica gana sobre su alias
	if rec.Analisis.DosisMgKgDetectada != "0.5" {
		t.Fatalf("dosis_mg_kg_detectada: esperaba 0.5, obtuve %v", rec.Analisis.DosisMgKgDetectada)
	}
	if rec.Analisis.Frecuencia != "semanal" {
		t.Fatalf("frecuencia: esperaba semanal (desde frecuencia_texto), obtuve %v", rec.Analisis.Frecuencia)
	}
	if rec.Auditoria.Razon != "pauta habitual en AIJ" {
		t.Fatalf("razon: esperaba fallback a razon_decision, obtuve %v", rec.Auditoria.Razon)
	}
}

func TestNormalize_EsquemaPlano_SinAIJ_DerivaAlerta(t *testing.T) {
	in := mustMap(t, `{"farmaco": "Ibuprofeno", "razon": "sin datos de diagnóstico"}`)

	rec := Normalize(in)

	if rec.Estado != EstadoAlerta {
		t.Fatalf("estado: esperaba Alerta, obtuve %q", rec.Estado)
	}
}

func TestNormalize_EsquemaPlano_EstadoExplicitoSeRespeta(t *testing.T) {
	// inconsistencia heredada y preservada: en el esquema plano un estado
	// explícito manda sobre el derivado, aunque es_aij sea true.
	in := mustMap(t, `{"farmaco": "Metotrexato", "es_aij": true, "estado": "Revisión manual"}`)

	rec := Normalize(in)

	if rec.Estado != "Revisión manual" {
		t.Fatalf("estado: esperaba 'Revisión manual', obtuve %q", rec.Estado)
	}
}

func TestNormalize_EsquemaPlano_EsTratamientoAIJComoFallback(t *testing.T) {
	in := mustMap(t, `{"farmaco": "Adalimumab", "es_tratamiento_aij": true}`)

	rec := Normalize(in)

	if rec.Estado != EstadoAprobada {
		t.Fatalf("estado: esperaba Aprobada vía es_tratamiento_aij, obtuve %q", rec.Estado)
	}
	if rec.Auditoria.EsAIJ == nil || !*rec.Auditoria.EsAIJ {
		t.Fatalf("es_aij debería heredar es_tratamiento_aij, obtuve %v", rec.Auditoria.EsAIJ)
	}
}

func TestNormalize_FormaDesconocida_PassthroughDefensivo(t *testing.T) {
	in := mustMap(t, `{"output": "todo bien", "score": 3}`)

	rec := Normalize(in)

	if rec.Estado != "" {
		t.Fatalf("estado: esperaba vacío, obtuve %q", rec.Estado)
	}
	if rec.Extra["output"] != "todo bien" {
		t.Fatalf("extra no conservado: %v", rec.Extra)
	}
}

func TestNormalize_TextoConJSONEmbebido(t *testing.T) {
	texto := "Claro, aquí tienes el análisis:\n```json\n{\"farmaco\": \"Metotrexato\", \"dosis_mg_kg_detectada\": \"0.5\", \"es_aij\": true}\n```\nEspero que te sirva."

	rec := Normalize(texto)

	if rec.Estado != EstadoAprobada {
		t.Fatalf("estado: esperaba Aprobada, obtuve %q", rec.Estado)
	}
	if rec.Analisis.Farmaco != "Metotrexato" {
		t.Fatalf("farmaco: esperaba Metotrexato, obtuve %v", rec.Analisis.Farmaco)
	}
}

func TestNormalize_TextoMalformadoTipicoDeLLM(t *testing.T) {
	// comillas simples, clave sin comillas, literal Python y coma colgante
	texto := "Resultado: {farmaco: 'Naproxeno', 'es_aij': False, razon: 'dosis alta para el peso',}"

	rec := Normalize(texto)

	if rec.Estado != EstadoAlerta {
		t.Fatalf("estado: esperaba Alerta, obtuve %q", rec.Estado)
	}
	if rec.Analisis.Farmaco != "Naproxeno" {
		t.Fatalf("farmaco: esperaba Naproxeno, obtuve %v", rec.Analisis.Farmaco)
	}
}

func TestNormalize_Basura_FallbackConTextoLimpio(t *testing.T) {
	rec := Normalize("```json\n{bad json")

	if rec.Estado != EstadoNota {
		t.Fatalf("estado: esperaba %q, obtuve %q", EstadoNota, rec.Estado)
	}
	if rec.Analisis.Farmaco != "Ver texto" || rec.Analisis.DosisCalculada != "-" {
		t.Fatalf("analisis de fallback incorrecto: %+v", rec.Analisis)
	}
	if rec.Auditoria.EsAIJ != nil {
		t.Fatalf("es_aij: esperaba nil en fallback, obtuve %v", rec.Auditoria.EsAIJ)
	}
	if rec.Auditoria.Razon != "{bad json" {
		t.Fatalf("razon: esperaba texto sin vallas markdown, obtuve %q", rec.Auditoria.Razon)
	}
}

func TestNormalize_ListaTomaPrimerObjeto(t *testing.T) {
	in := []any{
		mustMap(t, `{"farmaco": "Etanercept", "es_aij": true}`),
		mustMap(t, `{"farmaco": "Otro"}`),
	}

	rec := Normalize(in)

	if rec.Analisis.Farmaco != "Etanercept" {
		t.Fatalf("esperaba primer elemento de la lista, obtuve %v", rec.Analisis.Farmaco)
	}
}

func TestNormalize_Idempotente_SobreSuPropiaSalida(t *testing.T) {
	in := mustMap(t, `{
		"farmaco": "Metotrexato",
		"dosis_mg_kg_detectada": "0.5",
		"frecuencia": "semanal",
		"es_aij": true,
		"razon": "dentro de guía"
	}`)

	primero := Normalize(in)

	// reinterpretar la salida como payload crudo (round-trip JSON)
	b, err := json.Marshal(primero)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var reinterpretado map[string]any
	if err := json.Unmarshal(b, &reinterpretado); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	segundo := Normalize(reinterpretado)

	if !reflect.DeepEqual(primero, segundo) {
		t.Fatalf("no idempotente:\nprimero:  %+v\nsegundo: %+v", primero, segundo)
	}
}

func TestNormalize_SiempreProduceClavesCanonicas(t *testing.T) {
	entradas := []any{
		nil,
		mustMap(t, `{"estado": "Aprobada"}`),
		mustMap(t, `{"farmaco": "MTX"}`),
		mustMap(t, `{"cosa": 1}`),
		"texto cualquiera sin json",
		"```json\n{rota",
		[]any{},
		42,
	}

	for _, in := range entradas {
		rec := Normalize(in)
		b, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("marshal de %v: %v", in, err)
		}
		var m map[string]any
		if err := json.Unmarshal(b, &m); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		for _, k := range []string{"estado", "analisis", "auditoria"} {
			if _, ok := m[k]; !ok {
				t.Fatalf("entrada %v: falta clave canónica %q en %s", in, k, b)
			}
		}
	}
}
