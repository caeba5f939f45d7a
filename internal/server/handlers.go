package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/nutrilens/nutrilens/internal/analyzer"
	"github.com/nutrilens/nutrilens/internal/dataset"
	"github.com/nutrilens/nutrilens/internal/storage"
)

// Top-N bounds applied at the boundary; the engine itself stays total.
const (
	defaultTopN = 10
	maxTopN     = 100
)

// loadAnalyzer fetches a fresh dataset copy and wraps it in a session. There
// is no cached dataset state between requests, so source edits take effect
// on the next request.
func (s *Server) loadAnalyzer(r *http.Request) (*analyzer.Analyzer, error) {
	start := time.Now()

	raw, err := s.provider.Fetch(r.Context())
	if err != nil {
		return nil, err
	}

	ds, err := dataset.Load(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	s.metrics.loadDuration.Observe(time.Since(start).Seconds())
	s.metrics.datasetRows.Set(float64(ds.Len()))

	return analyzer.New(ds), nil
}

// runQuery loads a dataset, runs one operation and writes the JSON result.
func (s *Server) runQuery(w http.ResponseWriter, r *http.Request, operation string, query func(*analyzer.Analyzer) any) {
	a, err := s.loadAnalyzer(r)
	if err != nil {
		s.metrics.queriesTotal.WithLabelValues(operation, "error").Inc()
		log.Error().Err(err).Str("operation", operation).Msg("Failed to load dataset")
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "Failed to load dataset",
		})
		return
	}

	s.metrics.queriesTotal.WithLabelValues(operation, "ok").Inc()
	writeJSON(w, http.StatusOK, query(a))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.runQuery(w, r, "summary", func(a *analyzer.Analyzer) any {
		return a.Summary()
	})
}

func (s *Server) handleMacronutrients(w http.ResponseWriter, r *http.Request) {
	s.runQuery(w, r, "macronutrients", func(a *analyzer.Analyzer) any {
		return a.MacronutrientAverages()
	})
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	s.runQuery(w, r, "comparison", func(a *analyzer.Analyzer) any {
		return a.DietComparison()
	})
}

func (s *Server) handleTopRecipes(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("nutrient")
	if name == "" {
		name = string(analyzer.NutrientProtein)
	}
	nutrient, ok := analyzer.ParseNutrient(name)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": fmt.Sprintf("Unknown nutrient %q, expected one of Protein, Carbs, Fat", name),
		})
		return
	}

	n := defaultTopN
	if raw := r.URL.Query().Get("n"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			n = parsed
		}
	}
	n = clamp(n, 1, maxTopN)

	s.runQuery(w, r, "top-recipes", func(a *analyzer.Analyzer) any {
		return a.TopByNutrient(nutrient, n)
	})
}

func (s *Server) handleCuisineDistribution(w http.ResponseWriter, r *http.Request) {
	s.runQuery(w, r, "cuisine-distribution", func(a *analyzer.Analyzer) any {
		return a.CuisineDistribution()
	})
}

func (s *Server) handleNutrientRanges(w http.ResponseWriter, r *http.Request) {
	s.runQuery(w, r, "nutrient-ranges", func(a *analyzer.Analyzer) any {
		return a.NutrientRanges()
	})
}

func (s *Server) handleRecipesByDiet(w http.ResponseWriter, r *http.Request) {
	dietType := mux.Vars(r)["dietType"]

	s.runQuery(w, r, "recipes", func(a *analyzer.Analyzer) any {
		return a.RecipesByDietType(dietType)
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	if term == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Search term is required",
		})
		return
	}

	field := r.URL.Query().Get("field")
	if field == "" {
		field = string(analyzer.DefaultSearchField)
	}
	if !analyzer.IsSearchField(field) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": fmt.Sprintf("Unknown search field %q", field),
		})
		return
	}

	s.runQuery(w, r, "search", func(a *analyzer.Analyzer) any {
		return a.Search(term, field)
	})
}

// exportRequest names a result to compute and where to persist it.
type exportRequest struct {
	Operation string `json:"operation"`
	Target    string `json:"target"`
	Format    string `json:"format"`
}

// handleExport computes one result and persists it through the sink. The
// query path never depends on this succeeding.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": fmt.Sprintf("Invalid JSON: %v", err),
		})
		return
	}
	if req.Format == "" {
		req.Format = "json"
	}

	sink, name, err := storage.ParseTarget(req.Target)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	a, err := s.loadAnalyzer(r)
	if err != nil {
		s.metrics.queriesTotal.WithLabelValues("export", "error").Inc()
		log.Error().Err(err).Msg("Failed to load dataset")
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "Failed to load dataset",
		})
		return
	}

	result, ok := exportResult(a, req.Operation)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": fmt.Sprintf("Unknown operation %q", req.Operation),
		})
		return
	}

	content, contentType, err := storage.EncodeResult(result, req.Format)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	if err := sink.Store(r.Context(), name, content, contentType); err != nil {
		s.metrics.queriesTotal.WithLabelValues("export", "error").Inc()
		log.Error().Err(err).Str("target", req.Target).Msg("Failed to store result")
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "Failed to store result",
		})
		return
	}

	s.metrics.queriesTotal.WithLabelValues("export", "ok").Inc()
	s.metrics.exportsTotal.Inc()

	log.Info().
		Str("operation", req.Operation).
		Str("target", req.Target).
		Msg("Result exported")

	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "stored",
		"target":       req.Target,
		"content_type": contentType,
	})
}

// exportResult computes the parameterless result named by an export request.
func exportResult(a *analyzer.Analyzer, operation string) (any, bool) {
	switch operation {
	case "summary":
		return a.Summary(), true
	case "macronutrients":
		return a.MacronutrientAverages(), true
	case "comparison":
		return a.DietComparison(), true
	case "top-recipes":
		return a.TopByNutrient(analyzer.NutrientProtein, defaultTopN), true
	case "cuisine-distribution":
		return a.CuisineDistribution(), true
	case "nutrient-ranges":
		return a.NutrientRanges(), true
	}
	return nil, false
}

// handleIndex returns the welcome payload listing available operations.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to the nutrilens API",
		"status":  "running",
		"available_operations": []string{
			"/health",
			"/api/v1/summary",
			"/api/v1/macronutrients",
			"/api/v1/comparison",
			"/api/v1/top-recipes?nutrient=Protein&n=10",
			"/api/v1/cuisine-distribution",
			"/api/v1/nutrient-ranges",
			"/api/v1/recipes/{diet_type}",
			"/api/v1/search?term={search_term}&field=Recipe_name",
		},
	})
}

// healthCheck returns server health status
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"source":    s.provider.String(),
		"timestamp": time.Now(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
