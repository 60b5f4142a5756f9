package router

import (
	"net/http"

	_ "contact-notes/docs"
	mem "contact-notes/internal/adapters/storage/memory"
	"contact-notes/internal/domain/notes"
	"contact-notes/internal/middleware"
	"contact-notes/internal/platform/logger"
	"contact-notes/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: sin Service se arma uno in-memory.
	Service *notes.Service

	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	svc := opts.Service
	if svc == nil {
		svc = notes.NewService(mem.NewNoteRepo(), notes.WithLogger(log))
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier, log))
	r.Use(middleware.RequestLog(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	notes.RegisterRoutes(r, svc)

	return r
}
