package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/MaxLeedham/Chess/internal/game"
	"github.com/MaxLeedham/Chess/internal/store"
)

type memoryResults struct {
	mu      sync.Mutex
	results []store.Result
}

func (m *memoryResults) SaveResult(_ context.Context, r store.Result) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = int64(len(m.results) + 1)
	m.results = append(m.results, r)
	return r.ID, nil
}

func (m *memoryResults) Result(_ context.Context, id int64) (store.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id < 1 || id > int64(len(m.results)) {
		return store.Result{}, store.ErrNotFound
	}
	return m.results[id-1], nil
}

func (m *memoryResults) RecentResults(_ context.Context, limit int) ([]store.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.Result
	for i := len(m.results) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.results[i])
	}
	return out, nil
}

func (m *memoryResults) Standings(_ context.Context, limit int) ([]store.Standing, error) {
	return []store.Standing{{Player: "Max", Rating: 1050, Games: 1, Wins: 1}}, nil
}

func (m *memoryResults) saved() []store.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]store.Result(nil), m.results...)
}

func newTestServer(t *testing.T, size int) (*Server, *memoryResults) {
	t.Helper()
	board, err := game.NewStandardBoard(size)
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	results := &memoryResults{}
	return NewServer(board, results, Players{White: "Max", Black: "Ada", Site: "Club room"}), results
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

type statePayload struct {
	State    game.BoardState `json:"state"`
	Moved    bool            `json:"moved"`
	Resigned string          `json:"resigned"`
	Error    string          `json:"error"`
}

func decodeState(t *testing.T, rr *httptest.ResponseRecorder) statePayload {
	t.Helper()
	var payload statePayload
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return payload
}

func move(t *testing.T, h http.Handler, from, to string) statePayload {
	t.Helper()
	rr := do(t, h, http.MethodPost, "/api/move", `{"from":"`+from+`","to":"`+to+`"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("move %s%s: status %d body %s", from, to, rr.Code, rr.Body.String())
	}
	return decodeState(t, rr)
}

func TestHandleStateReturnsBoard(t *testing.T) {
	srv, _ := newTestServer(t, 10)
	h := srv.routes()

	rr := do(t, h, http.MethodGet, "/api/state", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if csp := rr.Header().Get("Content-Security-Policy"); csp != apiCSP {
		t.Fatalf("missing security headers, got %q", csp)
	}
	payload := decodeState(t, rr)
	if payload.State.Size != 10 || len(payload.State.Pieces) != 40 {
		t.Fatalf("unexpected state: size %d, %d pieces", payload.State.Size, len(payload.State.Pieces))
	}

	if rr := do(t, h, http.MethodDelete, "/api/state", ""); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestHandleMove(t *testing.T) {
	srv, _ := newTestServer(t, 8)
	h := srv.routes()

	payload := move(t, h, "e2", "e4")
	if payload.State.Turn != "black" || payload.State.MoveCount != 1 {
		t.Fatalf("unexpected state after e4: %+v", payload.State)
	}
	if len(payload.State.History) != 1 || payload.State.History[0] != "e4" {
		t.Fatalf("unexpected history %v", payload.State.History)
	}

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "IllegalMove", body: `{"from":"e7","to":"e4"}`, status: http.StatusBadRequest},
		{name: "WrongTurn", body: `{"from":"d2","to":"d4"}`, status: http.StatusBadRequest},
		{name: "BadSquare", body: `{"from":"z9","to":"e5"}`, status: http.StatusBadRequest},
		{name: "BadJSON", body: `{"from":`, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/api/move", tt.body)
			if rr.Code != tt.status {
				t.Fatalf("expected %d, got %d (%s)", tt.status, rr.Code, rr.Body.String())
			}
		})
	}

	large := `{"from":"` + strings.Repeat("e", int(maxJSONBodyBytes)) + `"}`
	if rr := do(t, h, http.MethodPost, "/api/move", large); rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
}

func TestHandleSelect(t *testing.T) {
	srv, _ := newTestServer(t, 8)
	h := srv.routes()

	rr := do(t, h, http.MethodPost, "/api/select", `{"square":"g1"}`)
	payload := decodeState(t, rr)
	if payload.Moved || payload.State.Selected != "g1" {
		t.Fatalf("expected g1 selected without a move: %+v", payload)
	}
	if len(payload.State.SelectedMoves) != 2 {
		t.Fatalf("expected 2 knight moves, got %v", payload.State.SelectedMoves)
	}

	rr = do(t, h, http.MethodPost, "/api/select", `{"square":"f3"}`)
	payload = decodeState(t, rr)
	if !payload.Moved || payload.State.Turn != "black" {
		t.Fatalf("expected Nf3 to be played: %+v", payload)
	}
	if payload.State.History[0] != "Nf3" {
		t.Fatalf("unexpected history %v", payload.State.History)
	}
}

func TestHandleLegal(t *testing.T) {
	srv, _ := newTestServer(t, 8)
	h := srv.routes()

	rr := do(t, h, http.MethodGet, "/api/legal?square=b1", "")
	var payload struct {
		Square string   `json:"square"`
		Moves  []string `json:"moves"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Square != "b1" || len(payload.Moves) != 2 {
		t.Fatalf("unexpected legal moves: %+v", payload)
	}

	if rr := do(t, h, http.MethodGet, "/api/legal?square=k11", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for off-board square, got %d", rr.Code)
	}
}

func TestCheckmateIsRecordedOnce(t *testing.T) {
	srv, results := newTestServer(t, 8)
	h := srv.routes()

	move(t, h, "f2", "f3")
	move(t, h, "e7", "e5")
	move(t, h, "g2", "g4")
	payload := move(t, h, "d8", "h4")

	if payload.State.Status != game.StatusCheckmate || payload.State.Winner != "black" {
		t.Fatalf("expected black to mate: %+v", payload.State)
	}

	rr := do(t, h, http.MethodPost, "/api/move", `{"from":"a2","to":"a3"}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 after mate, got %d", rr.Code)
	}
	if rr := do(t, h, http.MethodPost, "/api/resign", `{"color":"white"}`); rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 resigning a finished game, got %d", rr.Code)
	}

	saved := results.saved()
	if len(saved) != 1 {
		t.Fatalf("expected one recorded result, got %d", len(saved))
	}
	got := saved[0]
	if got.Winner != store.WinnerBlack || got.Reason != store.ReasonCheckmate {
		t.Fatalf("unexpected result %+v", got)
	}
	if got.White != "Max" || got.Black != "Ada" || got.BoardSize != 8 {
		t.Fatalf("unexpected players %+v", got)
	}
	if !strings.Contains(got.PGN, "Qh4#") {
		t.Fatalf("expected PGN with the mating move, got %q", got.PGN)
	}
	if strings.Join(got.Moves, " ") != "f3 e5 g4 Qh4" {
		t.Fatalf("unexpected moves %v", got.Moves)
	}
}

func TestResignation(t *testing.T) {
	srv, results := newTestServer(t, 10)
	h := srv.routes()

	move(t, h, "e2", "e4")
	rr := do(t, h, http.MethodPost, "/api/resign", `{"color":"black"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}
	if payload := decodeState(t, rr); payload.Resigned != "black" {
		t.Fatalf("expected resignation in payload, got %+v", payload)
	}

	rr = do(t, h, http.MethodPost, "/api/move", `{"from":"e9","to":"e7"}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 after resignation, got %d", rr.Code)
	}

	saved := results.saved()
	if len(saved) != 1 || saved[0].Winner != store.WinnerWhite || saved[0].Reason != store.ReasonResignation {
		t.Fatalf("unexpected results %+v", saved)
	}
	if saved[0].PGN != "" {
		t.Fatalf("10x10 games have no PGN, got %q", saved[0].PGN)
	}

	if rr := do(t, h, http.MethodPost, "/api/resign", `{"color":"purple"}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad color, got %d", rr.Code)
	}
}

func TestResetAndStalemateLayout(t *testing.T) {
	srv, results := newTestServer(t, 8)
	h := srv.routes()
	move(t, h, "e2", "e4")

	rr := do(t, h, http.MethodPost, "/api/reset", `{"size":10}`)
	payload := decodeState(t, rr)
	if payload.State.Size != 10 || payload.State.MoveCount != 0 || payload.State.LastNote != "New game" {
		t.Fatalf("unexpected state after reset: %+v", payload.State)
	}

	layout := "8 8 8 8 8 8 8 8"
	if rr := do(t, h, http.MethodPost, "/api/reset", `{"size":8,"layout":"`+layout+`"}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad layout, got %d", rr.Code)
	}
	if rr := do(t, h, http.MethodPost, "/api/reset", `{"size":9}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for 9x9, got %d", rr.Code)
	}

	// White king on h1 steps to g1 into a queen-and-king stalemate net.
	layout = ". . . . . . . ./. . . . . . . ./. . . . . . . ./. . . . . . . ./" +
		". . . . . . . ./. . . . . bK . ./. . . . bQ . . ./. . . . . . . wK"
	rr = do(t, h, http.MethodPost, "/api/reset", `{"size":8,"layout":"`+layout+`"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("reset with layout: %d %s", rr.Code, rr.Body.String())
	}

	payload = move(t, h, "h1", "g1")
	if payload.State.Status != game.StatusOngoing {
		t.Fatalf("expected game to continue, got %s", payload.State.Status)
	}
	payload = move(t, h, "e2", "f2")
	if payload.State.Status != game.StatusCheck {
		t.Fatalf("expected check after Qf2, got %s", payload.State.Status)
	}
	payload = move(t, h, "g1", "h1")
	payload = move(t, h, "f3", "g3")
	if payload.State.Status != game.StatusStalemate {
		t.Fatalf("expected stalemate, got %s", payload.State.Status)
	}

	saved := results.saved()
	if len(saved) != 1 || saved[0].Winner != store.WinnerDraw || saved[0].Reason != store.ReasonStalemate {
		t.Fatalf("unexpected results %+v", saved)
	}

	if rr := do(t, h, http.MethodGet, "/api/pgn", ""); rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("custom layouts cannot be exported, got %d", rr.Code)
	}
}

func TestHandlePGN(t *testing.T) {
	srv, _ := newTestServer(t, 8)
	h := srv.routes()
	move(t, h, "e2", "e4")
	move(t, h, "e7", "e5")

	rr := do(t, h, http.MethodGet, "/api/pgn", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}
	var payload struct {
		PGN string `json:"pgn"`
		FEN string `json:"fen"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(payload.PGN, `[White "Max"]`) || !strings.Contains(payload.PGN, "1. e4 e5 *") {
		t.Fatalf("unexpected pgn %q", payload.PGN)
	}
	if !strings.Contains(payload.PGN, `[Site "Club room"]`) {
		t.Fatalf("pgn is missing the site tag: %q", payload.PGN)
	}
	if want := "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq"; !strings.HasPrefix(payload.FEN, want) {
		t.Fatalf("fen = %q, want prefix %q", payload.FEN, want)
	}
}

func TestResignedPGNKeepsResignationAfterRepetition(t *testing.T) {
	srv, results := newTestServer(t, 8)
	h := srv.routes()
	for i := 0; i < 4; i++ {
		move(t, h, "g1", "f3")
		move(t, h, "g8", "f6")
		move(t, h, "f3", "g1")
		move(t, h, "f6", "g8")
	}
	if rr := do(t, h, http.MethodPost, "/api/resign", `{"color":"white"}`); rr.Code != http.StatusOK {
		t.Fatalf("resign: %d %s", rr.Code, rr.Body.String())
	}

	saved := results.saved()
	if len(saved) != 1 {
		t.Fatalf("expected one recorded result, got %d", len(saved))
	}
	if !strings.Contains(saved[0].PGN, `[Result "0-1"]`) || strings.Contains(saved[0].PGN, "1/2-1/2") {
		t.Fatalf("recorded pgn lost the resignation: %q", saved[0].PGN)
	}
}

func TestResultsEndpoints(t *testing.T) {
	srv, results := newTestServer(t, 8)
	h := srv.routes()
	if _, err := results.SaveResult(context.Background(), store.Result{White: "Max", Black: "Ada", Winner: store.WinnerWhite, Reason: store.ReasonResignation}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rr := do(t, h, http.MethodGet, "/api/results?limit=5", "")
	var list struct {
		Results []resultJSON `json:"results"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Results) != 1 || list.Results[0].Winner != "white" {
		t.Fatalf("unexpected results %+v", list.Results)
	}

	if rr := do(t, h, http.MethodGet, "/api/results?limit=-1", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative limit, got %d", rr.Code)
	}

	rr = do(t, h, http.MethodGet, "/api/results?id=1", "")
	var one struct {
		Result resultJSON `json:"result"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &one); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rr.Code != http.StatusOK || one.Result.ID != 1 || one.Result.Reason != "resignation" {
		t.Fatalf("unexpected result %d %+v", rr.Code, one.Result)
	}
	if rr := do(t, h, http.MethodGet, "/api/results?id=42", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", rr.Code)
	}
	if rr := do(t, h, http.MethodGet, "/api/results?id=abc", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rr.Code)
	}

	rr = do(t, h, http.MethodGet, "/api/standings", "")
	var standings struct {
		Standings []standingJSON `json:"standings"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &standings); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(standings.Standings) != 1 || standings.Standings[0].Player != "Max" {
		t.Fatalf("unexpected standings %+v", standings.Standings)
	}

	bare := NewServer(nil, nil, Players{})
	if rr := do(t, bare.routes(), http.MethodGet, "/api/results", ""); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a store, got %d", rr.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, 8)
	rr := do(t, srv.routes(), http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("unexpected health response %d %q", rr.Code, rr.Body.String())
	}
}
