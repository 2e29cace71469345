package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"roster-tracker/internal/config"
	"roster-tracker/internal/store"
)

// server exposes stored match rows to the dashboard. Read-only: every
// mutation goes through the ingest command.
type server struct {
	db  *store.Store
	log *zap.SugaredLogger
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("configuration invalid", "err", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalw("database connect failed", "err", err)
	}
	defer db.Close()

	s := &server{db: db, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/roster", s.handleRoster)
	mux.HandleFunc("/api/winrates", s.handleWinRates)
	mux.HandleFunc("/api/stats", s.handleStats)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	log.Infow("server starting", "port", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalw("server failed", "err", err)
	}
}

// handleRoster returns the players of one team: /api/roster?team=NAME
func (s *server) handleRoster(w http.ResponseWriter, r *http.Request) {
	team := r.URL.Query().Get("team")
	if team == "" {
		http.Error(w, "team query param required", http.StatusBadRequest)
		return
	}

	players, err := s.db.RosterPlayers(r.Context(), team)
	if err != nil {
		s.log.Errorw("roster query failed", "team", team, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, players)
}

// handleWinRates returns per-champion win rates for one player, optionally
// filtered by role: /api/winrates?puuid=PUUID&role=JUNGLE
func (s *server) handleWinRates(w http.ResponseWriter, r *http.Request) {
	puuid := r.URL.Query().Get("puuid")
	if puuid == "" {
		http.Error(w, "puuid query param required", http.StatusBadRequest)
		return
	}
	role := r.URL.Query().Get("role")

	stats, err := s.db.ChampionWinRates(r.Context(), puuid, role)
	if err != nil {
		s.log.Errorw("win rate query failed", "puuid", puuid, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, stats)
}

// handleStats returns row and match counts for the whole table.
func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rowCount, err := s.db.RowCount(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	matchCount, err := s.db.MatchCount(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"rows":    rowCount,
		"matches": matchCount,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
