// Package router maps REST routes onto handlers and middleware.
package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/dtroode/storefront-server/internal/api/http/handler"
	"github.com/dtroode/storefront-server/internal/api/http/middleware"
	"github.com/dtroode/storefront-server/internal/api/http/response"
)

// Handlers groups the endpoint handlers.
type Handlers struct {
	User    *handler.User
	Admin   *handler.Admin
	Product *handler.Product
}

// Middlewares groups the request middleware.
type Middlewares struct {
	Authenticate *middleware.Authenticate
	Authorize    *middleware.Authorize
	Logging      *middleware.Logging
	Recover      *middleware.Recover
}

// New builds the application handler: recover, logging and CORS wrap every route.
func New(h Handlers, m Middlewares, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	authed := func(f http.HandlerFunc) http.Handler {
		return m.Authenticate.Handle(f)
	}
	admin := func(f http.HandlerFunc) http.Handler {
		return m.Authenticate.Handle(m.Authorize.RequireAdmin(f))
	}

	r.HandleFunc("/healthz", handler.Health).Methods(http.MethodGet)

	r.HandleFunc("/users/register", h.User.Register).Methods(http.MethodPost)
	r.HandleFunc("/users/login", h.User.Login).Methods(http.MethodPost)
	r.Handle("/users/logout", authed(h.User.Logout)).Methods(http.MethodGet)
	r.Handle("/users/me", authed(h.User.Me)).Methods(http.MethodGet)
	r.Handle("/users/settings", authed(h.User.Settings)).Methods(http.MethodPut)
	r.Handle("/users/change-password", authed(h.User.ChangePassword)).Methods(http.MethodPut)

	r.Handle("/admins/verify", authed(h.Admin.Verify)).Methods(http.MethodPost)
	r.Handle("/admins/users", admin(h.Admin.Users)).Methods(http.MethodGet)

	r.Handle("/products", authed(h.Product.List)).Methods(http.MethodGet)
	r.Handle("/products", admin(h.Product.Create)).Methods(http.MethodPost)
	r.Handle("/products/{id}", authed(h.Product.Get)).Methods(http.MethodGet)
	r.Handle("/products/{id}/image", authed(h.Product.GetImage)).Methods(http.MethodGet)
	r.Handle("/products/{id}/image", admin(h.Product.UploadImage)).Methods(http.MethodPut)

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	return m.Recover.Handle(m.Logging.Handle(c.Handler(r)))
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	response.WriteJSON(w, http.StatusNotFound, response.ErrorBody{
		Error:   "not_found",
		Message: "route not found",
	})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	response.WriteJSON(w, http.StatusMethodNotAllowed, response.ErrorBody{
		Error:   "method_not_allowed",
		Message: "method not allowed",
	})
}
