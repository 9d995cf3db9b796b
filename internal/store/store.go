// Package store keeps finished games and per-player standings in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = errors.New("result not found")

// Winner of a finished game.
type Winner string

const (
	WinnerWhite Winner = "white"
	WinnerBlack Winner = "black"
	WinnerDraw  Winner = "draw"
)

// Reason a game ended.
type Reason string

const (
	ReasonCheckmate   Reason = "checkmate"
	ReasonStalemate   Reason = "stalemate"
	ReasonResignation Reason = "resignation"
)

const (
	initialRating  = 1000
	equalRatingGap = 50
	maxRatingGap   = 150
)

// Result is one finished game.
type Result struct {
	ID        int64
	White     string
	Black     string
	BoardSize int
	Winner    Winner
	Reason    Reason
	Moves     []string
	PGN       string
	PlayedAt  time.Time
}

// Standing is a player's record across every stored game.
type Standing struct {
	Player string
	Rating int
	Games  int
	Wins   int
	Draws  int
	Losses int
}

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS players (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	rating INTEGER NOT NULL DEFAULT 1000,
	games_played INTEGER NOT NULL DEFAULT 0,
	wins INTEGER NOT NULL DEFAULT 0,
	draws INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS games (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	white_player_id INTEGER NOT NULL,
	black_player_id INTEGER NOT NULL,
	board_size INTEGER NOT NULL,
	result TEXT NOT NULL,
	result_reason TEXT NOT NULL,
	moves TEXT NOT NULL DEFAULT '',
	pgn TEXT NOT NULL DEFAULT '',
	played_at INTEGER NOT NULL,
	FOREIGN KEY(white_player_id) REFERENCES players(id),
	FOREIGN KEY(black_player_id) REFERENCES players(id)
);
CREATE INDEX IF NOT EXISTS idx_games_played_at ON games(played_at);
`

// Open opens or creates the database at path and brings its schema up to
// date.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// SQLite serialises writers; one connection also keeps ":memory:"
	// databases from splitting across the pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// SaveResult stores r, updates both players' counters and, for a decisive
// game, moves rating points from the loser to the winner. It returns the
// new result ID.
func (s *Store) SaveResult(ctx context.Context, r Result) (int64, error) {
	if err := r.validate(); err != nil {
		return 0, err
	}
	if r.PlayedAt.IsZero() {
		r.PlayedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	whiteID, whiteRating, err := ensurePlayer(ctx, tx, r.White)
	if err != nil {
		return 0, err
	}
	blackID, blackRating, err := ensurePlayer(ctx, tx, r.Black)
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO games (white_player_id, black_player_id, board_size, result, result_reason, moves, pgn, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		whiteID, blackID, r.BoardSize, string(r.Winner), string(r.Reason),
		strings.Join(r.Moves, " "), r.PGN, r.PlayedAt.UTC().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("insert game: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert game: %w", err)
	}

	switch r.Winner {
	case WinnerDraw:
		err = bumpPlayer(ctx, tx, whiteID, false, true, 0)
		if err == nil {
			err = bumpPlayer(ctx, tx, blackID, false, true, 0)
		}
	case WinnerWhite:
		gap := ratingGap(whiteRating, blackRating)
		err = bumpPlayer(ctx, tx, whiteID, true, false, gap)
		if err == nil {
			err = bumpPlayer(ctx, tx, blackID, false, false, -gap)
		}
	case WinnerBlack:
		gap := ratingGap(whiteRating, blackRating)
		err = bumpPlayer(ctx, tx, blackID, true, false, gap)
		if err == nil {
			err = bumpPlayer(ctx, tx, whiteID, false, false, -gap)
		}
	}
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

func (r Result) validate() error {
	if strings.TrimSpace(r.White) == "" || strings.TrimSpace(r.Black) == "" {
		return errors.New("result needs both player names")
	}
	if strings.TrimSpace(r.White) == strings.TrimSpace(r.Black) {
		return fmt.Errorf("%q cannot play both sides", r.White)
	}
	switch r.Winner {
	case WinnerWhite, WinnerBlack, WinnerDraw:
	default:
		return fmt.Errorf("unknown winner %q", r.Winner)
	}
	switch r.Reason {
	case ReasonCheckmate, ReasonStalemate, ReasonResignation:
	default:
		return fmt.Errorf("unknown reason %q", r.Reason)
	}
	return nil
}

// ratingGap is the number of points a decisive game moves between two
// players: a flat amount for equal ratings, otherwise a fifth of the
// difference, capped.
func ratingGap(a, b int) int {
	if a == b {
		return equalRatingGap
	}
	d := a - b
	if d < 0 {
		d = -d
	}
	gap := d / 5
	if gap > maxRatingGap {
		gap = maxRatingGap
	}
	return gap
}

func ensurePlayer(ctx context.Context, tx *sql.Tx, name string) (int64, int, error) {
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO players (name, rating) VALUES (?, ?)`, name, initialRating); err != nil {
		return 0, 0, fmt.Errorf("insert player %q: %w", name, err)
	}
	var (
		id     int64
		rating int
	)
	err := tx.QueryRowContext(ctx, `SELECT id, rating FROM players WHERE name = ?`, name).Scan(&id, &rating)
	if err != nil {
		return 0, 0, fmt.Errorf("load player %q: %w", name, err)
	}
	return id, rating, nil
}

func bumpPlayer(ctx context.Context, tx *sql.Tx, id int64, won, drew bool, ratingDelta int) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE players
		SET games_played = games_played + 1,
			wins = wins + ?,
			draws = draws + ?,
			rating = rating + ?
		WHERE id = ?`,
		boolInt(won), boolInt(drew), ratingDelta, id)
	if err != nil {
		return fmt.Errorf("update player %d: %w", id, err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

const resultColumns = `
	g.id, w.name, b.name, g.board_size, g.result, g.result_reason, g.moves, g.pgn, g.played_at
	FROM games g
	JOIN players w ON w.id = g.white_player_id
	JOIN players b ON b.id = g.black_player_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (Result, error) {
	var (
		r        Result
		winner   string
		reason   string
		moves    string
		playedAt int64
	)
	if err := row.Scan(&r.ID, &r.White, &r.Black, &r.BoardSize, &winner, &reason, &moves, &r.PGN, &playedAt); err != nil {
		return Result{}, err
	}
	r.Winner = Winner(winner)
	r.Reason = Reason(reason)
	if moves != "" {
		r.Moves = strings.Split(moves, " ")
	}
	r.PlayedAt = time.UnixMilli(playedAt).UTC()
	return r, nil
}

// Result loads one stored game.
func (s *Store) Result(ctx context.Context, id int64) (Result, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+resultColumns+` WHERE g.id = ?`, id)
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return Result{}, fmt.Errorf("load result %d: %w", id, err)
	}
	return r, nil
}

// RecentResults returns up to limit games, newest first.
func (s *Store) RecentResults(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+resultColumns+` ORDER BY g.played_at DESC, g.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Standings returns up to limit players ordered by rating, then wins, then
// draws.
func (s *Store) Standings(ctx context.Context, limit int) ([]Standing, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, rating, games_played, wins, draws
		FROM players
		ORDER BY rating DESC, wins DESC, draws DESC, name ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	defer rows.Close()

	var out []Standing
	for rows.Next() {
		var st Standing
		if err := rows.Scan(&st.Player, &st.Rating, &st.Games, &st.Wins, &st.Draws); err != nil {
			return nil, fmt.Errorf("scan standing: %w", err)
		}
		st.Losses = st.Games - st.Wins - st.Draws
		out = append(out, st)
	}
	return out, rows.Err()
}
