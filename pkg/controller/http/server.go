package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"

	"github.com/barriolab/vecino/pkg/domain/model"
	"github.com/barriolab/vecino/pkg/domain/types"
	"github.com/barriolab/vecino/pkg/usecase"
	"github.com/barriolab/vecino/pkg/utils/errutil"
	"github.com/barriolab/vecino/pkg/utils/logging"
	"github.com/barriolab/vecino/pkg/utils/safe"
)

type Server struct {
	router *chi.Mux
}

func New(uc *usecase.UseCases) *Server {
	r := chi.NewRouter()

	s := &Server{router: r}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	r.Post("/api/resolve", resolveHandler(uc))

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	safe.Write(r.Context(), w, []byte(`{"status":"ok"}`))
}

type resolveRequest struct {
	Query    string          `json:"query"`
	Zone     string          `json:"zone,omitempty"`
	Location *model.Location `json:"location,omitempty"`
}

type resolveCandidate struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Zone       string   `json:"zone"`
	Score      float64  `json:"score"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
	Open       string   `json:"open"`
}

type resolveResponse struct {
	Candidates []resolveCandidate `json:"candidates"`
}

// resolveHandler exposes the synchronous retrieval pipeline. It bypasses
// debouncing and history on purpose: this is the operational query surface,
// not the chat flow.
func resolveHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req resolveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}

		zone, err := types.ParseZone(req.Zone)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
			return
		}

		candidates, err := uc.Resolve.Resolve(ctx, req.Query, zone, req.Location, time.Now())
		if err != nil {
			if errors.Is(err, usecase.ErrEmptyQuery) {
				errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
				return
			}
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}

		resp := resolveResponse{Candidates: make([]resolveCandidate, len(candidates))}
		for i, cand := range candidates {
			resp.Candidates[i] = resolveCandidate{
				ID:         string(cand.Record.ID),
				Name:       cand.Record.Name,
				Kind:       cand.Record.Kind.String(),
				Zone:       cand.Record.Zone.String(),
				Score:      cand.Score,
				DistanceKm: cand.DistanceKm,
				Open:       cand.Open.String(),
			}
		}

		data, err := json.Marshal(resp)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal resolve response"), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		safe.Write(ctx, w, data)
	}
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
