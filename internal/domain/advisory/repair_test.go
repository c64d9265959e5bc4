package advisory

import "testing"

func TestRepairJSON_FragmentoEntreProsa(t *testing.T) {
	v, ok := repairJSON("El resultado es {\"a\": 1} y nada más.")
	if !ok {
		t.Fatalf("esperaba reparación exitosa")
	}
	m, ok := v.(map[string]any)
	if !ok || m["a"] != float64(1) {
		t.Fatalf("esperaba {a:1}, obtuve %v", v)
	}
}

func TestRepairJSON_ObjetoTruncadoSeCierra(t *testing.T) {
	v, ok := repairJSON(`{"farmaco": "MTX", "analisis": {"dosis": "15 mg"`)
	if !ok {
		t.Fatalf("esperaba reparación del objeto truncado")
	}
	m := v.(map[string]any)
	if m["farmaco"] != "MTX" {
		t.Fatalf("esperaba farmaco MTX, obtuve %v", m)
	}
	sub, ok := m["analisis"].(map[string]any)
	if !ok || sub["dosis"] != "15 mg" {
		t.Fatalf("esperaba sub-objeto cerrado, obtuve %v", m["analisis"])
	}
}

func TestRepairJSON_ComillasSimplesYClavesSinComillas(t *testing.T) {
	v, ok := repairJSON("{estado: 'Alerta', valido: True, nota: None,}")
	if !ok {
		t.Fatalf("esperaba reparación exitosa")
	}
	m := v.(map[string]any)
	if m["estado"] != "Alerta" || m["valido"] != true || m["nota"] != nil {
		t.Fatalf("reparación incorrecta: %v", m)
	}
}

func TestRepairJSON_SinNadaRecuperable(t *testing.T) {
	for _, s := range []string{"", "texto plano", "```json\n{bad json"} {
		if _, ok := repairJSON(s); ok {
			t.Fatalf("esperaba fallo de reparación para %q", s)
		}
	}
}
