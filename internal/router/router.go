package router

import (
	"database/sql"
	"net/http"
	"os"

	fileStore "pet-health-records/internal/adapters/storage/file"
	"pet-health-records/internal/adapters/storage/memory"
	pg "pet-health-records/internal/adapters/storage/postgres"
	"pet-health-records/internal/domain/pets"
	"pet-health-records/internal/domain/vaccinations"
	"pet-health-records/internal/domain/vaccines"
	"pet-health-records/internal/middleware"
	"pet-health-records/internal/platform/logger"
	"pet-health-records/internal/ports/auth"
	"pet-health-records/internal/ports/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev: X-Debug-User-ID)

	Logger logger.Logger // si es nil se crea desde env

	// Opcional: si viene, usa Postgres. Si no, decide por env (ver newStore).
	DB *sql.DB
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	st := newStore(opts, log)

	// Services por módulo. El ledger va primero: el registry lo necesita
	// para el borrado en cascada.
	vacSvc := vaccinations.NewService(st)
	petsSvc := pets.NewService(st, vacSvc)

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc)
	vaccinations.RegisterRoutes(r, vacSvc, petsSvc)
	vaccines.RegisterRoutes(r)

	return r
}

// newStore elige el backend de persistencia:
// - DB explícita u DB_DSN en env => Postgres (tabla de blobs)
// - DATA_DIR en env => archivos JSON locales
// - nada => in-memory (dev/tests)
// Los tres implementan exactamente el mismo contrato (blob por partición,
// last-write-wins, recuperación silenciosa ante corrupción).
func newStore(opts Options, log logger.Logger) store.Store {
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Error("postgres open failed, falling back", map[string]any{"error": err.Error()})
			}
		}
	}
	if db != nil {
		return pg.NewStore(db, log)
	}

	if dir := os.Getenv("DATA_DIR"); dir != "" {
		fs, err := fileStore.NewStore(dir, log)
		if err == nil {
			return fs
		}
		log.Error("file store init failed, falling back to memory", map[string]any{"error": err.Error()})
	}

	return memory.NewStore(log)
}
