// Package api exposes the energy-ratio computation over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"windratio/app"
	"windratio/domain/core"
	"windratio/domain/scada"
)

// ComputeRequest is the POST body for an energy-ratio run: the
// observation table, the run parameters and the bootstrap seed.
type ComputeRequest struct {
	Table  *scada.Table `json:"table"`
	Params app.Params   `json:"params"`
	Seed   int64        `json:"seed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server routes HTTP requests to the energy-ratio service.
type Server struct {
	service *app.EnergyRatioService
	router  chi.Router
}

// NewServer builds a server with logging and panic-recovery middleware.
func NewServer(service *app.EnergyRatioService) *Server {
	s := &Server{service: service}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/energy-ratio", s.handleCompute)
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.Table == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "table is required"})
		return
	}

	holder := scada.NewEnergyTable(req.Table, req.Seed)
	result, err := s.service.Compute(r.Context(), holder, req.Params)
	if err != nil {
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// statusFor maps domain errors to HTTP statuses: bad parameters and bad
// input data are client errors, everything else is a 500.
func statusFor(err error) int {
	switch {
	case core.IsConfigurationError(err):
		return http.StatusBadRequest
	case core.IsDataError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrExecution):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: write response: %v", err)
	}
}
