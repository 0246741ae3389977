package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/ageha-live/liver-front/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware фронт-сервиса.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/registration", h.RegisterApplicant)

		r.Group(func(r chi.Router) {
			r.Use(custommiddleware.Session)

			r.Get("/livers/transfer-request", h.GetTransferRequest)
			r.Post("/livers/transfer-request", h.PostTransferRequest)

			r.Get("/users/profile", h.GetProfile)
			r.Patch("/users/profile", h.PatchProfile)
			r.Get("/users/current", h.GetCurrentUser)

			r.Post("/broadcast/live", h.StartLive)
			r.Post("/broadcast/chat/message", h.SendChatMessage)
			r.Delete("/broadcast/chat", h.DisconnectChat)

			r.Delete("/session", h.ResetSession)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
