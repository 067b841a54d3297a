package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"studyai-backend/internal/handlers"
	"studyai-backend/internal/middleware"
	"studyai-backend/internal/websocket"
)

// Deps holds the handlers to mount. StudyMaterials and Hub are optional and their routes are
// only registered when set.
type Deps struct {
	Process        *handlers.ProcessHandler
	StudyMaterials *handlers.StudyMaterialHandler
	Hub            *websocket.Hub
	Log            *zap.Logger
}

func New(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()

	// CORS runs first so preflight requests never reach routing.
	r.Use(middleware.CORS)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/process", func(r chi.Router) {
			r.Post("/", d.Process.Process)
			r.Post("/youtube", d.Process.ProcessYouTube)
		})

		if d.StudyMaterials != nil {
			r.Route("/study-materials", func(r chi.Router) {
				r.Post("/", d.StudyMaterials.Create)
				r.Get("/", d.StudyMaterials.List)
				r.Get("/{id}", d.StudyMaterials.Get)
			})
		}

		if d.Hub != nil {
			r.Get("/ws", d.Hub.HandleWebSocket)
		}
	})

	return r
}
