package advisor

import "context"

// Advisor es el agente externo de validación de planes terapéuticos.
// El resultado es deliberadamente `any`: el colaborador no garantiza forma
// (objeto anidado, objeto plano, texto con JSON embebido...). La capa de
// normalización (internal/domain/advisory) es quien lo absorbe.
type Advisor interface {
	Validate(ctx context.Context, plan string, pesoKg float64, patientID string) (any, error)
}
