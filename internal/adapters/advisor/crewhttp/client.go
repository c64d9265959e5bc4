// Package crewhttp implementa el port advisor.Advisor contra el servicio
// HTTP del agente de validación (crew de agentes LLM).
package crewhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"aij-connect/internal/platform/httpclient"
	"aij-connect/internal/ports/advisor"
)

const defaultAPIKeyHeader = "X-API-Key"

type Config struct {
	BaseURL      string
	APIKey       string
	APIKeyHeader string // por defecto X-API-Key
	Timeout      time.Duration
}

func (c Config) IsConfigured() bool {
	return strings.TrimSpace(c.BaseURL) != ""
}

type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

var _ advisor.Advisor = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	header := cfg.APIKeyHeader
	if strings.TrimSpace(header) == "" {
		header = defaultAPIKeyHeader
	}
	return &Client{
		http:         hc,
		apiKey:       cfg.APIKey,
		apiKeyHeader: header,
	}, nil
}

type validateRequest struct {
	Plan      string  `json:"plan"`
	PesoKg    float64 `json:"peso_kg"`
	PatientID string  `json:"patient_id"`
}

// Validate envía el plan al agente. El body de respuesta no tiene forma
// garantizada: si parsea como JSON estricto se devuelve la estructura
// (objeto o lista); si no, el texto crudo. En ambos casos decide la capa
// de normalización, aquí no se interpreta nada.
func (c *Client) Validate(ctx context.Context, plan string, pesoKg float64, patientID string) (any, error) {
	headers := map[string]string{}
	if c.apiKey != "" {
		headers[c.apiKeyHeader] = c.apiKey
	}

	body, err := c.http.DoText(ctx, http.MethodPost, "/validate", headers, validateRequest{
		Plan:      plan,
		PesoKg:    pesoKg,
		PatientID: patientID,
	})
	if err != nil {
		return nil, err
	}

	var parsed any
	if err := json.Unmarshal([]byte(body), &parsed); err == nil {
		switch parsed.(type) {
		case map[string]any, []any:
			return parsed, nil
		}
	}
	return body, nil
}
