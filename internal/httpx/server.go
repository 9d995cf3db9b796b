package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MaxLeedham/Chess/internal/archive"
	"github.com/MaxLeedham/Chess/internal/game"
	"github.com/MaxLeedham/Chess/internal/store"
)

// ResultStore is the part of the results database the server uses.
type ResultStore interface {
	SaveResult(ctx context.Context, r store.Result) (int64, error)
	Result(ctx context.Context, id int64) (store.Result, error)
	RecentResults(ctx context.Context, limit int) ([]store.Result, error)
	Standings(ctx context.Context, limit int) ([]store.Standing, error)
}

// Players names the two sides for recorded results and PGN headers. Site,
// when set, becomes the PGN Site tag.
type Players struct {
	White string
	Black string
	Site  string
}

// Server wires the HTTP layer to one chess board and the results store.
type Server struct {
	engineMu sync.Mutex
	board    *game.Board
	custom   bool
	resigned *game.Color
	recorded bool

	players Players
	results ResultStore

	srvMu sync.Mutex
	srv   *http.Server
}

const (
	maxJSONBodyBytes int64 = 1 << 20
	apiCSP                 = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"

	defaultResultsLimit = 20
	maxResultsLimit     = 200
)

// NewServer serves board. results may be nil, in which case finished games
// are not recorded and the results endpoints answer 503.
func NewServer(board *game.Board, results ResultStore, players Players) *Server {
	return &Server{
		board:   board,
		results: results,
		players: players,
	}
}

// Listen starts the HTTP server.
func (s *Server) Listen(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	log.Printf("HTTP listening on %s", addr)
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close attempts a graceful shutdown of the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/state", s.withJSON(s.handleState))
	mux.HandleFunc("/api/select", s.withJSON(s.handleSelect))
	mux.HandleFunc("/api/move", s.withJSON(s.handleMove))
	mux.HandleFunc("/api/legal", s.withJSON(s.handleLegal))
	mux.HandleFunc("/api/reset", s.withJSON(s.handleReset))
	mux.HandleFunc("/api/resign", s.withJSON(s.handleResign))
	mux.HandleFunc("/api/pgn", s.withJSON(s.handlePGN))
	mux.HandleFunc("/api/results", s.withJSON(s.handleResults))
	mux.HandleFunc("/api/standings", s.withJSON(s.handleStandings))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// ---- JSON helpers ----

func (s *Server) withJSON(h func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applyAPISecurityHeaders(w.Header())
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	writeJSON(w, map[string]string{"error": msg})
}

func applyAPISecurityHeaders(h http.Header) {
	h.Set("Content-Security-Policy", apiCSP)
	h.Set("Cross-Origin-Opener-Policy", "same-origin")
	h.Set("Cross-Origin-Embedder-Policy", "require-corp")
	h.Set("X-Content-Type-Options", "nosniff")
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// decodeBody reports false after writing the error response itself.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if isBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "request too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// stateLocked must be called with engineMu held.
func (s *Server) stateLocked() map[string]any {
	out := map[string]any{"state": s.board.State()}
	if s.resigned != nil {
		out["resigned"] = s.resigned.String()
	}
	return out
}

// ---- API: state ----

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.engineMu.Lock()
	payload := s.stateLocked()
	s.engineMu.Unlock()
	writeJSON(w, payload)
}

// ---- API: select ----

type selectBody struct {
	Square string `json:"square"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body selectBody
	if !decodeBody(w, r, &body) {
		return
	}

	s.engineMu.Lock()
	defer s.engineMu.Unlock()

	sq, ok := s.board.ParseCoord(body.Square)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid square")
		return
	}
	if s.gameOverLocked() {
		writeError(w, http.StatusConflict, game.ErrGameOver.Error())
		return
	}
	moved := s.board.Select(sq)
	if moved {
		s.recordIfFinishedLocked(r.Context())
	}
	payload := s.stateLocked()
	payload["moved"] = moved
	writeJSON(w, payload)
}

// ---- API: move ----

type moveBody struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body moveBody
	if !decodeBody(w, r, &body) {
		return
	}

	s.engineMu.Lock()
	defer s.engineMu.Unlock()

	from, ok := s.board.ParseCoord(body.From)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid from square")
		return
	}
	to, ok := s.board.ParseCoord(body.To)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid to square")
		return
	}

	var err error
	if s.resigned != nil {
		err = game.ErrGameOver
	} else {
		err = s.board.Move(game.MoveRequest{From: from, To: to})
	}
	switch {
	case errors.Is(err, game.ErrGameOver):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.recordIfFinishedLocked(r.Context())
	writeJSON(w, s.stateLocked())
}

// ---- API: legal ----

func (s *Server) handleLegal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.engineMu.Lock()
	defer s.engineMu.Unlock()

	sq, ok := s.board.ParseCoord(r.URL.Query().Get("square"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid square")
		return
	}
	moves := []string{}
	if pc := s.board.PieceAt(sq); pc != nil && !s.gameOverLocked() {
		for _, to := range s.board.LegalMoves(pc) {
			moves = append(moves, s.board.Coord(to))
		}
	}
	writeJSON(w, map[string]any{
		"square": s.board.Coord(sq),
		"moves":  moves,
	})
}

// ---- API: reset ----

type resetBody struct {
	Size   int    `json:"size"`
	Layout string `json:"layout"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body resetBody
	if r.ContentLength != 0 {
		if !decodeBody(w, r, &body) {
			return
		}
	}

	s.engineMu.Lock()
	defer s.engineMu.Unlock()

	size := body.Size
	if size == 0 {
		size = s.board.Size()
	}

	var (
		board *game.Board
		err   error
	)
	custom := strings.TrimSpace(body.Layout) != ""
	if custom {
		var layout game.Layout
		layout, err = game.ParseLayout(body.Layout)
		if err == nil {
			board, err = game.NewBoard(size, layout)
		}
	} else {
		board, err = game.NewStandardBoard(size)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.board = board
	s.custom = custom
	s.resigned = nil
	// A layout that starts finished has no game to record.
	s.recorded = board.Status().Terminal()
	writeJSON(w, s.stateLocked())
}

// ---- API: resign ----

type resignBody struct {
	Color string `json:"color"`
}

func (s *Server) handleResign(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body resignBody
	if !decodeBody(w, r, &body) {
		return
	}
	color, ok := game.ParseColor(body.Color)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid color")
		return
	}

	s.engineMu.Lock()
	defer s.engineMu.Unlock()

	if s.gameOverLocked() {
		writeError(w, http.StatusConflict, game.ErrGameOver.Error())
		return
	}
	s.resigned = &color
	s.recordIfFinishedLocked(r.Context())
	writeJSON(w, s.stateLocked())
}

// ---- API: pgn ----

func (s *Server) handlePGN(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.engineMu.Lock()
	pgn, err := s.pgnLocked()
	var fen string
	if err == nil {
		fen, err = archive.FEN(s.board.Size(), s.board.Records())
	}
	s.engineMu.Unlock()

	out := map[string]string{"pgn": pgn}
	switch {
	case pgn == "":
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		// The moves left orthodox rules, so there is no FEN to offer.
		log.Printf("fen: %v", err)
	default:
		out["fen"] = fen
	}
	writeJSON(w, out)
}

func (s *Server) pgnLocked() (string, error) {
	if s.custom {
		return "", errors.New("games from a custom layout cannot be exported")
	}
	return archive.PGN(s.board.Size(), s.board.Records(), archive.Tags{
		Event:  "Casual game",
		Site:   s.players.Site,
		White:  s.players.White,
		Black:  s.players.Black,
		Date:   time.Now(),
		Result: archive.ResultOf(s.board, s.resigned),
	})
}

// ---- API: results ----

type resultJSON struct {
	ID        int64     `json:"id"`
	White     string    `json:"white"`
	Black     string    `json:"black"`
	BoardSize int       `json:"boardSize"`
	Winner    string    `json:"winner"`
	Reason    string    `json:"reason"`
	Moves     []string  `json:"moves"`
	PGN       string    `json:"pgn,omitempty"`
	PlayedAt  time.Time `json:"playedAt"`
}

type standingJSON struct {
	Player string `json:"player"`
	Rating int    `json:"rating"`
	Games  int    `json:"games"`
	Wins   int    `json:"wins"`
	Draws  int    `json:"draws"`
	Losses int    `json:"losses"`
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.results == nil {
		writeError(w, http.StatusServiceUnavailable, "results are not being recorded")
		return
	}
	if raw := r.URL.Query().Get("id"); raw != "" {
		s.handleResult(w, r, raw)
		return
	}
	limit, ok := parseLimit(r.URL.Query().Get("limit"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	results, err := s.results.RecentResults(r.Context(), limit)
	if err != nil {
		log.Printf("list results: %v", err)
		writeError(w, http.StatusInternalServerError, "could not load results")
		return
	}
	out := make([]resultJSON, 0, len(results))
	for _, res := range results {
		out = append(out, toResultJSON(res))
	}
	writeJSON(w, map[string]any{"results": out})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request, raw string) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	res, err := s.results.Result(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "result not found")
		return
	case err != nil:
		log.Printf("load result %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "could not load result")
		return
	}
	writeJSON(w, map[string]any{"result": toResultJSON(res)})
}

func toResultJSON(res store.Result) resultJSON {
	return resultJSON{
		ID:        res.ID,
		White:     res.White,
		Black:     res.Black,
		BoardSize: res.BoardSize,
		Winner:    string(res.Winner),
		Reason:    string(res.Reason),
		Moves:     res.Moves,
		PGN:       res.PGN,
		PlayedAt:  res.PlayedAt,
	}
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.results == nil {
		writeError(w, http.StatusServiceUnavailable, "results are not being recorded")
		return
	}
	limit, ok := parseLimit(r.URL.Query().Get("limit"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	standings, err := s.results.Standings(r.Context(), limit)
	if err != nil {
		log.Printf("list standings: %v", err)
		writeError(w, http.StatusInternalServerError, "could not load standings")
		return
	}
	out := make([]standingJSON, 0, len(standings))
	for _, st := range standings {
		out = append(out, standingJSON(st))
	}
	writeJSON(w, map[string]any{"standings": out})
}

func parseLimit(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultResultsLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	if n > maxResultsLimit {
		n = maxResultsLimit
	}
	return n, true
}

// ---- result recording ----

func (s *Server) gameOverLocked() bool {
	return s.resigned != nil || s.board.Status().Terminal()
}

// recordIfFinishedLocked stores the result of a finished game once. Store
// failures are logged; the game itself has already ended.
func (s *Server) recordIfFinishedLocked(ctx context.Context) {
	if s.recorded || s.results == nil {
		return
	}

	var (
		winner store.Winner
		reason store.Reason
	)
	switch {
	case s.resigned != nil:
		winner = winnerFor(s.resigned.Opposite())
		reason = store.ReasonResignation
	case s.board.Status() == game.StatusCheckmate:
		color, _ := s.board.Winner()
		winner = winnerFor(color)
		reason = store.ReasonCheckmate
	case s.board.Status() == game.StatusStalemate:
		winner = store.WinnerDraw
		reason = store.ReasonStalemate
	default:
		return
	}
	s.recorded = true

	pgn, err := s.pgnLocked()
	if err != nil && !s.custom && !errors.Is(err, archive.ErrUnsupportedSize) {
		log.Printf("pgn export: %v", err)
	}
	id, err := s.results.SaveResult(ctx, store.Result{
		White:     s.players.White,
		Black:     s.players.Black,
		BoardSize: s.board.Size(),
		Winner:    winner,
		Reason:    reason,
		Moves:     s.board.MoveHistory(),
		PGN:       pgn,
		PlayedAt:  time.Now(),
	})
	if err != nil {
		log.Printf("save result: %v", err)
		return
	}
	log.Printf("recorded game %d: %s (%s)", id, winner, reason)
}

func winnerFor(c game.Color) store.Winner {
	if c == game.White {
		return store.WinnerWhite
	}
	return store.WinnerBlack
}
