// Package hiscore serves the public high-score board over HTTP and pushes
// every saved score to websocket subscribers.
package hiscore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/retrohub/internal/storage"
)

const (
	defaultLimit = 10
	maxNameRunes = 32
	maxBodyBytes = 64 << 10
)

// Board is the score table behind the endpoint. *storage.Store implements it.
type Board interface {
	SubmitBest(ctx context.Context, name string, score int, now time.Time) (storage.BoardEntry, error)
	TopBoard(ctx context.Context, limit int) ([]storage.BoardEntry, error)
}

// Server is the high-score endpoint.
type Server struct {
	board  Board
	hub    *Hub
	logger *log.Logger
	now    func() time.Time

	upgrader websocket.Upgrader
}

// NewServer creates a Server over board.
func NewServer(board Board, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		board:  board,
		hub:    NewHub(logger),
		logger: logger,
		now:    time.Now,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Same open CORS policy as the JSON endpoint.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Hub returns the subscriber hub. Run must be running for broadcasts to
// reach anyone.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the HTTP routes: the board at /highscores (and the legacy
// /highscores.php path) and the live feed at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/highscores", s.handleScores)
	mux.HandleFunc("/highscores.php", s.handleScores)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.Run(hubCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("high-score endpoint listening", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("hiscore: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down high-score endpoint")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("hiscore: shutdown: %w", err)
	}
	return nil
}

type listResponse struct {
	Status string               `json:"status"`
	Count  int                  `json:"count"`
	Scores []storage.BoardEntry `json:"scores"`
}

type saveResponse struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Entry   storage.BoardEntry `json:"entry"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ScoreEvent is what websocket subscribers receive for every saved score.
type ScoreEvent struct {
	Type  string             `json:"type"`
	Entry storage.BoardEntry `json:"entry"`
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
	case http.MethodGet:
		s.list(w, r)
	case http.MethodPost:
		s.save(w, r)
	default:
		h.Set("Allow", "GET, POST, OPTIONS")
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{"error", "Method not allowed."})
	}
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}

	scores, err := s.board.TopBoard(r.Context(), limit)
	if err != nil {
		s.logger.Error("cannot read board", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{"error", "Failed to read scores."})
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Status: "ok", Count: len(scores), Scores: scores})
}

func (s *Server) save(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	name, score, ok := readSubmission(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{"error", "Invalid payload. Expect {name, score}."})
		return
	}

	entry, err := s.board.SubmitBest(r.Context(), name, score, s.now())
	if err != nil {
		s.logger.Error("cannot save score", "name", name, "score", score, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{"error", "Failed to write scores."})
		return
	}

	s.logger.Info("score submitted", "name", entry.Name, "score", entry.Score)
	s.hub.Broadcast(ScoreEvent{Type: "score", Entry: entry})
	writeJSON(w, http.StatusOK, saveResponse{Status: "ok", Message: "Score saved.", Entry: entry})
}

// readSubmission decodes a JSON or form body into a clean name and score.
// The name is trimmed, cut to maxNameRunes and HTML-escaped.
func readSubmission(r *http.Request) (string, int, bool) {
	var rawName string
	var rawScore any

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var body map[string]any
		data, err := io.ReadAll(r.Body)
		if err != nil || json.Unmarshal(data, &body) != nil {
			return "", 0, false
		}
		if n, ok := body["name"]; ok && n != nil {
			rawName = fmt.Sprint(n)
		}
		rawScore = body["score"]
	} else {
		if err := r.ParseForm(); err != nil {
			return "", 0, false
		}
		rawName = r.PostForm.Get("name")
		if r.PostForm.Has("score") {
			rawScore = r.PostForm.Get("score")
		}
	}

	name := strings.TrimSpace(rawName)
	score, ok := parseScore(rawScore)
	if name == "" || !ok {
		return "", 0, false
	}
	return html.EscapeString(cutRunes(name, maxNameRunes)), score, true
}

// parseScore accepts a JSON number or a numeric string. Fractions are
// truncated toward zero.
func parseScore(v any) (int, bool) {
	switch s := v.(type) {
	case float64:
		if math.IsNaN(s) || math.IsInf(s, 0) || math.Abs(s) > math.MaxInt32 {
			return 0, false
		}
		return int(s), true
	case string:
		s = strings.TrimSpace(s)
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return parseScore(f)
		}
	}
	return 0, false
}

func cutRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newClient(s.hub, conn)
	if !s.hub.add(c) {
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
