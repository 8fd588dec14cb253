package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.AllowAll().Handler)
	r.Use(c.sessionMw)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/room", func(r chi.Router) {
			r.Post("/", c.createRoom)
			r.Post("/join", c.joinRoom)
			r.Post("/leave", c.leaveRoom)
			r.Route("/{room-code}", func(r chi.Router) {
				r.Get("/", c.getRoom)
				r.Patch("/", c.updateRoom)
				r.Get("/song", c.currentSong)
				r.Put("/pause", c.pauseSong)
				r.Put("/play", c.playSong)
				r.Post("/skip", c.skipSong)
			})
		})
		r.Route("/auth", func(r chi.Router) {
			r.Get("/url", c.authURL)
			r.Get("/callback", c.authCallback)
			r.Get("/status", c.authStatus)
		})
	})

	r.Get("/ws/room/{room-code}/chat", c.roomChat)

	return r
}
