package chatbot

import (
	"context"
	"sync"

	"aij-connect/internal/ports/knowledge"
)

// Session mantiene el estado conversacional de un usuario. El store de
// conocimiento se carga una sola vez por sesión, de forma perezosa: las
// sesiones que nunca hacen preguntas generales no pagan el coste de indexar.
type Session struct {
	loader knowledge.Loader

	mu     sync.Mutex
	store  knowledge.Store
	loaded bool
}

// NewSession crea una sesión. loader puede ser nil cuando el motor de
// conocimiento no está configurado; la cascada sigue funcionando sin él.
func NewSession(loader knowledge.Loader) *Session {
	return &Session{loader: loader}
}

// knowledgeStore devuelve el store de la sesión, cargándolo la primera vez.
// Un fallo de carga se recuerda para no reintentar en cada pregunta.
func (s *Session) knowledgeStore(ctx context.Context) knowledge.Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.store
	}
	s.loaded = true

	if s.loader == nil {
		return nil
	}
	store, err := s.loader.Load(ctx)
	if err != nil {
		return nil
	}
	s.store = store
	return s.store
}

// SessionStore guarda una sesión por usuario autenticado.
type SessionStore struct {
	loader knowledge.Loader

	mu       sync.Mutex
	sesiones map[string]*Session
}

func NewSessionStore(loader knowledge.Loader) *SessionStore {
	return &SessionStore{
		loader:   loader,
		sesiones: make(map[string]*Session),
	}
}

// Get devuelve la sesión del usuario, creándola si no existe.
func (st *SessionStore) Get(userID string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.sesiones[userID]; ok {
		return s
	}
	s := NewSession(st.loader)
	st.sesiones[userID] = s
	return s
}
