package knowledge

import "context"

// NoContext es el centinela que devuelve el motor de consulta
// cuando no encuentra contexto relevante para la pregunta.
const NoContext = "NO_CONTEXT"

// Store es el almacén de conocimiento ya cargado (vectorstore, índice...).
type Store interface {
	Query(ctx context.Context, question string) (string, error)
}

// Loader construye el Store. La carga puede ser costosa; quien lo use
// debe cachear el resultado por sesión (ver chatbot.Session).
type Loader interface {
	Load(ctx context.Context) (Store, error)
}
