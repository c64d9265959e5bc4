package visits

import "testing"

func fptr(v float64) *float64 { return &v }

func TestJADAS27SumaTerminos(t *testing.T) {
	// 2 articulaciones + EVA 3 + EVA 4 + VSG 35 → (35-20)/10 = 1.5
	got := JADAS27(2, 3, 4, fptr(35), nil)
	if got.Total != 10.5 {
		t.Errorf("total = %v, esperaba 10.5", got.Total)
	}
	if got.Interpretacion != ActividadAlta {
		t.Errorf("interpretación = %q", got.Interpretacion)
	}
	if !got.ReactanteIncluido {
		t.Error("debía incluir reactante")
	}
}

func TestJADAS27VSGBaja(t *testing.T) {
	// VSG por debajo de 20 normaliza a 0, no resta.
	got := JADAS27(0, 0, 1, fptr(5), nil)
	if got.Total != 1 {
		t.Errorf("total = %v, esperaba 1", got.Total)
	}
	if got.Interpretacion != ActividadInactiva {
		t.Errorf("interpretación = %q", got.Interpretacion)
	}
}

func TestJADAS27VSGTope(t *testing.T) {
	// Reactante normalizado nunca pasa de 10.
	got := JADAS27(0, 0, 0, fptr(500), nil)
	if got.Total != 10 {
		t.Errorf("total = %v, esperaba 10", got.Total)
	}
}

func TestJADAS27PCRFallback(t *testing.T) {
	conVSG := JADAS27(1, 1, 1, fptr(30), fptr(90))
	if conVSG.Total != 4 {
		t.Errorf("con VSG: total = %v, esperaba 4 (la VSG manda)", conVSG.Total)
	}

	soloPCR := JADAS27(1, 1, 1, nil, fptr(30))
	if soloPCR.Total != 4 {
		t.Errorf("solo PCR: total = %v, esperaba 4", soloPCR.Total)
	}
}

func TestJADAS27SinReactante(t *testing.T) {
	got := JADAS27(1, 1, 1, nil, nil)
	if got.Total != 3 {
		t.Errorf("total = %v, esperaba 3", got.Total)
	}
	if got.ReactanteIncluido {
		t.Error("no había reactante")
	}
	if got.Interpretacion != ActividadBaja {
		t.Errorf("interpretación = %q", got.Interpretacion)
	}
}

func TestJADAS27TopeArticular(t *testing.T) {
	got := JADAS27(40, 0, 0, nil, nil)
	if got.Total != 27 {
		t.Errorf("total = %v, el recuento articular satura en 27", got.Total)
	}
}

func TestParseAnalitica(t *testing.T) {
	if v := parseAnalitica("12,5"); v == nil || *v != 12.5 {
		t.Errorf("coma decimal: %v", v)
	}
	if v := parseAnalitica(" 8 "); v == nil || *v != 8 {
		t.Errorf("espacios: %v", v)
	}
	if v := parseAnalitica(""); v != nil {
		t.Errorf("vacío debe ser nil, got %v", v)
	}
	if v := parseAnalitica("n/a"); v != nil {
		t.Errorf("no numérico debe ser nil, got %v", v)
	}
}
