package router

import (
	"database/sql"
	"net/http"
	"os"

	_ "aij-connect/docs" // registro OpenAPI en swaggo

	mem "aij-connect/internal/adapters/storage/memory"
	pg "aij-connect/internal/adapters/storage/postgres"
	lite "aij-connect/internal/adapters/storage/sqlite"
	"aij-connect/internal/domain/auth"
	"aij-connect/internal/domain/chatbot"
	"aij-connect/internal/domain/patients"
	"aij-connect/internal/domain/visits"
	"aij-connect/internal/middleware"
	"aij-connect/internal/platform/logger"
	"aij-connect/internal/ports/advisor"
	"aij-connect/internal/ports/knowledge"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Logger logger.Logger

	// AuthSecret vacío = modo dev (header X-Debug-User-ID).
	AuthSecret   string
	AuthUsername string
	AuthPassword string

	// Selección de almacenamiento: DB > SQLitePath > in-memory.
	DB         *sql.DB
	SQLitePath string

	Advisor   advisor.Advisor  // puede ser nil (modo Offline)
	Knowledge knowledge.Loader // puede ser nil (chatbot sin RAG)
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.New(logger.Options{App: "aij-connect"})
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthSecret))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	var (
		patientsRepo patients.Repository
		visitsRepo   visits.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("fallo abriendo postgres, se continúa sin DB", map[string]any{"error": err.Error()})
			}
		}
	}

	switch {
	case db != nil:
		patientsRepo = pg.NewPatientsRepo(db)
		visitsRepo = pg.NewVisitsRepo(db)
		log.Info("almacenamiento postgres", nil)
	case opts.SQLitePath != "":
		sdb, err := lite.Open(opts.SQLitePath)
		if err != nil {
			log.Error("fallo abriendo sqlite, se usa memoria", map[string]any{"error": err.Error(), "path": opts.SQLitePath})
			patientsRepo = mem.NewPatientsRepo()
			visitsRepo = mem.NewVisitsRepo()
		} else {
			patientsRepo = lite.NewPatientsRepo(sdb)
			visitsRepo = lite.NewVisitsRepo(sdb)
			log.Info("almacenamiento sqlite", map[string]any{"path": opts.SQLitePath})
		}
	default:
		patientsRepo = mem.NewPatientsRepo()
		visitsRepo = mem.NewVisitsRepo()
		log.Info("almacenamiento in-memory", nil)
	}

	// Services por módulo
	patientsSvc := patients.NewService(patientsRepo)
	visitsSvc := visits.NewService(visitsRepo, patientsSvc, opts.Advisor)
	authSvc := auth.NewService(opts.AuthUsername, opts.AuthPassword, opts.AuthSecret)
	sessions := chatbot.NewSessionStore(opts.Knowledge)

	// Rutas por módulo
	auth.RegisterRoutes(r, authSvc)
	patients.RegisterRoutes(r, patientsSvc)
	visits.RegisterRoutes(r, visitsSvc)
	chatbot.RegisterRoutes(r, sessions, patientsSvc, visitsSvc)

	return r
}
