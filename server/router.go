package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// VenueRoutes are the handlers behind the venue-finder API.
type VenueRoutes interface {
	Ping(w http.ResponseWriter, r *http.Request)
	CreateSession(w http.ResponseWriter, r *http.Request)
	CloseSession(w http.ResponseWriter, r *http.Request)
	GetVenues(w http.ResponseWriter, r *http.Request)
	GetVenuesMap(w http.ResponseWriter, r *http.Request)
	GetVenueStatus(w http.ResponseWriter, r *http.Request)
	GetFilters(w http.ResponseWriter, r *http.Request)
	PatchFilters(w http.ResponseWriter, r *http.Request)
	GetSelection(w http.ResponseWriter, r *http.Request)
	PutSelection(w http.ResponseWriter, r *http.Request)
	DeleteSelection(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	venueHandler VenueRoutes
	router       *mux.Router
}

// NewRouter creates a router with the app’s routes. Paths are matched in
// their escaped form so a venue name may carry an encoded "/".
func NewRouter(
	venueHandler VenueRoutes,
	router *mux.Router) *Router {
	router.UseEncodedPath()
	return &Router{
		venueHandler: venueHandler,
		router:       router,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.HandleFunc("/ping", r.venueHandler.Ping).Methods("GET")

	r.router.HandleFunc("/v1/sessions", r.venueHandler.CreateSession).Methods("POST")
	r.router.HandleFunc("/v1/sessions", r.venueHandler.CloseSession).Methods("DELETE")

	r.router.HandleFunc("/v1/venues", r.venueHandler.GetVenues).Methods("GET")
	// registered before {name} so "map" is never read as a venue name
	r.router.HandleFunc("/v1/venues/map", r.venueHandler.GetVenuesMap).Methods("GET")
	r.router.HandleFunc("/v1/venues/{name}/status", r.venueHandler.GetVenueStatus).Methods("GET")

	// accepts a JSON patch or ?min_rating=&district=&hours=&q=
	r.router.HandleFunc("/v1/filters", r.venueHandler.GetFilters).Methods("GET")
	r.router.HandleFunc("/v1/filters", r.venueHandler.PatchFilters).Methods("PATCH")

	r.router.HandleFunc("/v1/selection", r.venueHandler.GetSelection).Methods("GET")
	r.router.HandleFunc("/v1/selection", r.venueHandler.PutSelection).Methods("PUT")
	r.router.HandleFunc("/v1/selection", r.venueHandler.DeleteSelection).Methods("DELETE")
}
