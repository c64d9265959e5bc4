package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aij-connect/internal/router"
)

func TestHTTP_EndToEnd_PatientFlow(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	doctorID := "dra.perez"

	// 1) Sin identidad no se puede crear paciente
	{
		st, _ := doReq(t, ts.URL, "POST", "/patients", "", map[string]any{
			"numero_historia": "HC-1", "nombre": "Lucía",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 sin identidad, got %d", st)
		}
	}

	// 2) Alta sin NHC => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/patients", doctorID, map[string]any{
			"nombre": "Lucía",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 sin NHC, got %d", st)
		}
	}

	// 3) Alta completa
	patientID := createPatient(t, ts.URL, doctorID, map[string]any{
		"numero_historia":  "HC-000123",
		"nombre":           "Lucía García",
		"sexo":             "Mujer",
		"peso":             30,
		"talla":            120,
		"diagnostico":      "AIJ poliarticular",
		"historia_uveitis": false,
		"perfil_inmuno":    map[string]any{"fr": true, "ana": true},
	})

	// 4) La ficha trae los campos derivados
	{
		st, body := doReq(t, ts.URL, "GET", "/patients/"+patientID, doctorID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get patient, got %d body=%s", st, string(body))
		}
		var p struct {
			BSA           float64 `json:"bsa"`
			Diagnostico   string  `json:"diagnostico"`
			RiesgoUveitis string  `json:"riesgo_uveitis"`
		}
		_ = json.Unmarshal(body, &p)
		if p.BSA != 1.0 {
			t.Errorf("bsa = %v", p.BSA)
		}
		if p.Diagnostico != "AIJ poliarticular (FR+, ANA+)" {
			t.Errorf("diagnostico = %q", p.Diagnostico)
		}
		if p.RiesgoUveitis != "Alto" {
			t.Errorf("riesgo_uveitis = %q", p.RiesgoUveitis)
		}
	}

	// 5) Validación de plan sin agente configurado => dictamen Offline
	{
		st, body := doReq(t, ts.URL, "POST", "/patients/"+patientID+"/visits/validate", doctorID, map[string]any{
			"plan": "Metotrexato 15 mg semanal", "peso": 30,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 validate, got %d body=%s", st, string(body))
		}
		var resp struct {
			Registro struct {
				Estado string `json:"estado"`
			} `json:"registro"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Registro.Estado != "Offline" {
			t.Errorf("estado = %q, esperaba Offline", resp.Registro.Estado)
		}
	}

	// 6) Registrar visita de seguimiento
	{
		st, body := doReq(t, ts.URL, "POST", "/patients/"+patientID+"/visits", doctorID, map[string]any{
			"anamnesis":        "Buena evolución.",
			"peso":             31,
			"talla":            121,
			"eva":              2,
			"eva_paciente":     3,
			"arts_activas":     []string{"Rodilla izq"},
			"analitica":        map[string]any{"vsg": "35", "pcr": "", "hb": "12,5", "calpro": ""},
			"plan_tratamiento": "Metotrexato 15 mg semanal",
			"efectos_adversos": []map[string]any{
				{"fecha": "2026-04-02", "medicacion": "MTX/Metotrexato", "efectos": []string{"Náuseas/Vómitos"}, "gravedad": "Leve"},
			},
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create visit, got %d body=%s", st, string(body))
		}
		var v struct {
			Curso string `json:"curso_clinico_generado"`
			JADAS struct {
				Total float64 `json:"total"`
			} `json:"jadas"`
			Efectos []struct {
				Gravedad string `json:"gravedad"`
			} `json:"efectos_adversos"`
		}
		_ = json.Unmarshal(body, &v)
		if !strings.Contains(v.Curso, "PLAN: Metotrexato 15 mg semanal") {
			t.Errorf("curso = %q", v.Curso)
		}
		if v.JADAS.Total != 6.5 { // 0 NAD + 2 + 3 + (35-20)/10
			t.Errorf("jadas = %v", v.JADAS.Total)
		}
		if len(v.Efectos) != 1 || v.Efectos[0].Gravedad != "Leve" {
			t.Errorf("efectos = %+v", v.Efectos)
		}
	}

	// 7) La visita actualizó las métricas del paciente
	{
		st, body := doReq(t, ts.URL, "GET", "/patients/"+patientID, doctorID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200, got %d", st)
		}
		var p struct {
			PesoActual float64 `json:"peso_actual"`
		}
		_ = json.Unmarshal(body, &p)
		if p.PesoActual != 31 {
			t.Errorf("peso_actual = %v", p.PesoActual)
		}
	}

	// 8) El chatbot responde con la medicación del último plan
	{
		st, body := doReq(t, ts.URL, "POST", "/patients/"+patientID+"/chat", doctorID, map[string]any{
			"question": "¿qué medicación llevo?",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 chat, got %d body=%s", st, string(body))
		}
		var resp struct {
			Answer string `json:"answer"`
		}
		_ = json.Unmarshal(body, &resp)
		if !strings.Contains(resp.Answer, "Metotrexato") {
			t.Errorf("answer = %q", resp.Answer)
		}
	}

	// 9) Catálogo de efectos adversos disponible
	{
		st, body := doReq(t, ts.URL, "GET", "/catalogs/adverse-effects", doctorID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 catalog, got %d", st)
		}
		if !strings.Contains(string(body), "MTX/Metotrexato") {
			t.Errorf("catálogo = %s", string(body))
		}
	}

	// 10) Paciente inexistente => 404
	{
		st, _ := doReq(t, ts.URL, "GET", "/patients/nope", doctorID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", st)
		}
	}
}

func TestHTTP_LoginJWT(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthSecret:   "secreto-de-test",
		AuthUsername: "admin",
		AuthPassword: "admin",
	}))
	defer ts.Close()

	// Con secreto configurado, el header de debug no vale
	{
		st, _ := doReq(t, ts.URL, "GET", "/patients", "dra.perez", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 con debug header, got %d", st)
		}
	}

	// Credenciales malas => 401
	{
		st, _ := doReq(t, ts.URL, "POST", "/login", "", map[string]any{
			"username": "admin", "password": "otra",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 login malo, got %d", st)
		}
	}

	// Login correcto y acceso con Bearer
	st, body := doReq(t, ts.URL, "POST", "/login", "", map[string]any{
		"username": "admin", "password": "admin",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 login, got %d body=%s", st, string(body))
	}
	var resp struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Token == "" {
		t.Fatal("login sin token")
	}

	req, err := http.NewRequest("GET", ts.URL+"/patients", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 con token, got %d", res.StatusCode)
	}
}

func createPatient(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/patients", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create patient, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create patient: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
