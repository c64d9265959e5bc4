// Package raghttp implementa los ports de conocimiento contra el servicio
// HTTP de recuperación aumentada (RAG) con las guías clínicas indexadas.
package raghttp

import (
	"context"
	"net/http"
	"strings"
	"time"

	"aij-connect/internal/platform/httpclient"
	"aij-connect/internal/ports/knowledge"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func (c Config) IsConfigured() bool {
	return strings.TrimSpace(c.BaseURL) != ""
}

// Loader valida la disponibilidad del servicio una vez y devuelve el Store.
type Loader struct {
	http *httpclient.Client
}

var _ knowledge.Loader = (*Loader)(nil)

func NewLoader(cfg Config) (*Loader, error) {
	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Loader{http: hc}, nil
}

// Load comprueba que el índice remoto responde antes de entregar el Store.
// Así el coste y el posible fallo se pagan una vez por sesión.
func (l *Loader) Load(ctx context.Context) (knowledge.Store, error) {
	if err := l.http.DoJSON(ctx, http.MethodGet, "/health", nil, nil, nil); err != nil {
		return nil, err
	}
	return &store{http: l.http}, nil
}

type store struct {
	http *httpclient.Client
}

type queryRequest struct {
	Question string `json:"question"`
}

type queryResponse struct {
	Answer string `json:"answer"`
}

// Query consulta el índice. La convención del servicio es responder el
// centinela NO_CONTEXT cuando no hay pasajes relevantes; se devuelve tal
// cual, el que llama decide qué hacer con él.
func (s *store) Query(ctx context.Context, question string) (string, error) {
	var resp queryResponse
	err := s.http.DoJSON(ctx, http.MethodPost, "/query", nil, queryRequest{Question: question}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Answer, nil
}
