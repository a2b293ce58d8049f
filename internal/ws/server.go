package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/matchfit/backend/internal/activity"
	"github.com/matchfit/backend/internal/health"
	"github.com/matchfit/backend/internal/storage"
	"github.com/matchfit/backend/internal/training"
)

// Players is the player lifecycle surface the HTTP API needs beyond the
// training workflow.
type Players interface {
	CreatePlayer(displayName string) (*activity.Player, error)
	Player(id string) (*activity.Player, error)
}

// Server exposes the achievement engine over HTTP and pushes unlock
// events over websocket.
type Server struct {
	players        Players
	workflow       *training.Workflow
	broadcaster    *Broadcaster
	allowedOrigins map[string]bool
	allowedHosts   map[string]bool
	authToken      string
}

func NewServer(players Players, workflow *training.Workflow, broadcaster *Broadcaster, allowedOrigins []string, authToken string) *Server {
	s := &Server{
		players:        players,
		workflow:       workflow,
		broadcaster:    broadcaster,
		allowedOrigins: make(map[string]bool),
		allowedHosts:   make(map[string]bool),
		authToken:      authToken,
	}

	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		s.allowedOrigins[trimmed] = true
		if parsed, err := url.Parse(trimmed); err == nil && parsed.Host != "" {
			s.allowedHosts[parsed.Host] = true
		}
	}

	return s
}

func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/api/players", s.handlePlayers)
	mux.HandleFunc("/api/players/", s.handlePlayerRoutes)
	mux.HandleFunc("/api/health", s.handleHealth)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: s.checkOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	log.Printf("WebSocket client connected: %s", r.RemoteAddr)
	c := s.broadcaster.AddClient(conn)

	go func() {
		defer func() {
			s.broadcaster.RemoveClient(c)
			log.Printf("WebSocket client disconnected: %s", r.RemoteAddr)
		}()
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				return
			}
		}
	}()
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		DisplayName string `json:"displayName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	player, err := s.players.CreatePlayer(req.DisplayName)
	if err != nil {
		http.Error(w, fmt.Sprintf("creating player: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(player)
}

// handlePlayerRoutes dispatches /api/players/{id}[/achievements|/sessions].
func (s *Server) handlePlayerRoutes(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/players/")
	parts := strings.SplitN(path, "/", 2)

	playerID, err := url.PathUnescape(parts[0])
	if err != nil || playerID == "" {
		http.Error(w, "invalid player id", http.StatusBadRequest)
		return
	}

	switch {
	case len(parts) == 1:
		s.handleGetPlayer(w, r, playerID)
	case parts[1] == "achievements":
		s.handleAchievements(w, r, playerID)
	case parts[1] == "sessions":
		s.handleCompleteSession(w, r, playerID)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request, playerID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	player, err := s.players.Player(playerID)
	if err != nil {
		s.writeLookupError(w, playerID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(player)
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request, playerID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	statuses, player, err := s.workflow.Overview(playerID)
	if err != nil {
		s.writeLookupError(w, playerID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		TotalXP      int                          `json:"totalXp"`
		Achievements []training.AchievementStatus `json:"achievements"`
	}{
		TotalXP:      player.TotalXP,
		Achievements: statuses,
	})
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request, playerID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		StartedAt       time.Time `json:"startedAt"`
		DurationMinutes float64   `json:"durationMinutes"`
		Intensity       string    `json:"intensity"`
		Exercises       []struct {
			ExerciseID string `json:"exerciseId"`
			Rating     int    `json:"rating"`
		} `json:"exercises"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	session := &activity.Session{
		StartedAt:       req.StartedAt,
		DurationMinutes: req.DurationMinutes,
		Intensity:       req.Intensity,
	}
	for _, ex := range req.Exercises {
		session.Exercises = append(session.Exercises, activity.SessionExercise{
			ExerciseID: ex.ExerciseID,
			Rating:     ex.Rating,
		})
	}

	result, err := s.workflow.CompleteSession(playerID, session)
	if err != nil {
		s.writeLookupError(w, playerID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report, err := health.Collect()
	if err != nil {
		http.Error(w, fmt.Sprintf("collecting health: %v", err), http.StatusInternalServerError)
		return
	}
	report.WSClients = s.broadcaster.ClientCount()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

func (s *Server) writeLookupError(w http.ResponseWriter, playerID string, err error) {
	if errors.Is(err, storage.ErrPlayerNotFound) {
		http.Error(w, fmt.Sprintf("player not found: %s", playerID), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (s *Server) authorize(r *http.Request) bool {
	if s.authToken == "" {
		return true
	}

	if r.URL.Query().Get("token") == s.authToken {
		return true
	}

	if r.Header.Get("X-Matchfit-Token") == s.authToken {
		return true
	}

	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.authToken {
		return true
	}

	return false
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if len(s.allowedOrigins) > 0 {
		if s.allowedOrigins[origin] {
			return true
		}
		if parsed, err := url.Parse(origin); err == nil && parsed.Host != "" {
			return s.allowedHosts[parsed.Host]
		}
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}

	host := parsed.Host
	if host == "" {
		return false
	}

	if host == r.Host {
		return true
	}

	if strings.HasPrefix(host, "localhost:") || host == "localhost" {
		return true
	}
	if strings.HasPrefix(host, "127.0.0.1:") || host == "127.0.0.1" {
		return true
	}
	if strings.HasPrefix(host, "[::1]:") || host == "::1" {
		return true
	}

	return false
}

func ListenAndServe(host string, port int, mux *http.ServeMux) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	log.Printf("Server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
