package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/daralachab/reservation-api/internal/auth"
	"github.com/daralachab/reservation-api/internal/logging"
	"github.com/daralachab/reservation-api/internal/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RegisterRoutes mounts the API on r. limiter may be nil to disable rate
// limiting of the public reservation form.
func RegisterRoutes(r *chi.Mux, gate *auth.Gate, statusHandler *StatusHandler, reservationHandler *ReservationHandler, limiter ratelimit.Limiter, log *zap.Logger) huma.API {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.AccessLog(log))
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("Reservation API", "1.0.0")
	config.Components.SecuritySchemes = auth.SecuritySchemes()
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	huma.Get(api, "/api/", statusHandler.HandleRoot)
	huma.Post(api, "/api/status", statusHandler.HandleCreate)
	huma.Get(api, "/api/status", statusHandler.HandleList)

	huma.Post(api, "/api/reservations", reservationHandler.HandleCreate, func(o *huma.Operation) {
		if limiter != nil {
			o.Middlewares = append(o.Middlewares, ratelimit.Middleware(api, limiter, log.Named("ratelimit")))
		}
	})

	// Admin routes
	huma.Post(api, "/api/admin/session", gate.HandleSession)
	huma.Get(api, "/api/reservations", reservationHandler.HandleList, auth.Security)
	huma.Get(api, "/api/reservations/export", reservationHandler.HandleExport, auth.Security)
	huma.Get(api, "/api/reservations/{id}", reservationHandler.HandleGet, auth.Security)
	huma.Patch(api, "/api/reservations/{id}/status", reservationHandler.HandleUpdateStatus, auth.Security)
	huma.Patch(api, "/api/reservations/{id}/persons", reservationHandler.HandleUpdatePersons, auth.Security)
	huma.Delete(api, "/api/reservations/{id}", reservationHandler.HandleDelete, auth.Security)

	return api
}
