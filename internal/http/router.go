package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	billHandler "github.com/MrJamesThe3rd/condobill/internal/http/bill"
	actor "github.com/MrJamesThe3rd/condobill/internal/http/middleware"
	notificationHandler "github.com/MrJamesThe3rd/condobill/internal/http/notification"
	configHandler "github.com/MrJamesThe3rd/condobill/internal/http/tenantconfig"
)

type Options struct {
	AllowedOrigins []string
	// JWTSecret enables bearer-token actor extraction when non-empty.
	JWTSecret string
}

func New(
	opts Options,
	billV1 *billHandler.Handler,
	notificationV1 *notificationHandler.Handler,
	configV1 *configHandler.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if opts.JWTSecret != "" {
		router.Use(actor.Actor(opts.JWTSecret))
	}

	router.Route("/bill", func(r chi.Router) {
		billV1.Routes(r)
		notificationV1.Routes(r)
	})

	router.Route("/app_customer_config", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		configV1.Routes(r)
	})

	return router
}
