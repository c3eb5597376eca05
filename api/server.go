package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"otodom_scraper/config"
	"otodom_scraper/models"
	"otodom_scraper/scraper"
	"otodom_scraper/storage"
)

// CategoryScraper is the scrape entry point the API exposes.
type CategoryScraper interface {
	ScrapeCategory(ctx context.Context, mainCategory, detailCategory, regionText string, pageSize, limit int, filters scraper.Filters) ([]models.Offer, error)
}

// ProfileRunner runs a preconfigured scrape profile.
type ProfileRunner interface {
	RunProfile(ctx context.Context, id string) ([]models.Offer, error)
}

// Server is the HTTP trigger surface of the daemon.
type Server struct {
	cfg     *config.Config
	scraper CategoryScraper
	runner  ProfileRunner
	store   *storage.SQLiteStore
	http    *http.Server
}

func NewServer(cfg *config.Config, s CategoryScraper, runner ProfileRunner, store *storage.SQLiteStore) *Server {
	srv := &Server{cfg: cfg, scraper: s, runner: runner, store: store}

	r := mux.NewRouter()
	r.HandleFunc("/api/health", srv.handleHealth).Methods("GET")
	r.HandleFunc("/api/profiles", srv.handleProfiles).Methods("GET")
	r.HandleFunc("/api/runs", srv.handleRuns).Methods("GET")
	r.HandleFunc("/api/scrape", srv.handleScrape).Methods("POST")
	r.HandleFunc("/api/scrape/{profile}", srv.handleScrapeProfile).Methods("POST")

	srv.http = &http.Server{
		Addr:         cfg.APIAddr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 15 * time.Minute, // scrapes are slow
	}
	return srv
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) ListenAndServe() error {
	log.Printf("API listening on %s", s.cfg.APIAddr)
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProfiles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Profiles)
}

func (s *Server) handleRuns(w http.ResponseWriter, _ *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, []models.ScrapeRun{})
		return
	}
	runs, err := s.store.RecentRuns(50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []models.ScrapeRun{}
	}
	writeJSON(w, http.StatusOK, runs)
}

type scrapeRequest struct {
	MainCategory   string          `json:"main_category"`
	DetailCategory string          `json:"detail_category"`
	Region         string          `json:"region"`
	PageSize       int             `json:"page_size"`
	Limit          int             `json:"limit"`
	Filters        scraper.Filters `json:"filters"`
}

type scrapeResponse struct {
	Count  int            `json:"count"`
	Offers []models.Offer `json:"offers"`
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MainCategory == "" {
		writeError(w, http.StatusBadRequest, "main_category is required")
		return
	}
	if req.Filters == nil {
		req.Filters = scraper.Filters{}
	}

	offers, err := s.scraper.ScrapeCategory(r.Context(), req.MainCategory, req.DetailCategory,
		req.Region, req.PageSize, req.Limit, req.Filters)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if req.Limit > 0 && len(offers) > req.Limit {
		offers = offers[:req.Limit]
	}

	writeJSON(w, http.StatusOK, scrapeResponse{Count: len(offers), Offers: offers})
}

func (s *Server) handleScrapeProfile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["profile"]
	if _, ok := s.cfg.Profiles[id]; !ok {
		writeError(w, http.StatusNotFound, "unknown profile")
		return
	}

	offers, err := s.runner.RunProfile(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, scrapeResponse{Count: len(offers), Offers: offers})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Warning: failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
