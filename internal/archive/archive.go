// Package archive exports finished or running 8x8 games as PGN and FEN by
// replaying their move records through github.com/notnil/chess.
package archive

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/notnil/chess"

	"github.com/MaxLeedham/Chess/internal/game"
)

var ErrUnsupportedSize = errors.New("archive: only 8x8 games can be exported")

// PGN result tokens.
const (
	ResultWhiteWins = "1-0"
	ResultBlackWins = "0-1"
	ResultDraw      = "1/2-1/2"
	ResultUnknown   = "*"
)

// Tags are the PGN header values. Empty fields are left out, except Result
// which defaults to "*".
type Tags struct {
	Event  string
	Site   string
	White  string
	Black  string
	Date   time.Time
	Result string
}

// ResultOf is the PGN result of b, given the side that resigned, if any.
// Only the engine's own verdict counts: draws by repetition or the move
// counters are not part of this game's rules.
func ResultOf(b *game.Board, resigned *game.Color) string {
	if resigned != nil {
		return winToken(resigned.Opposite())
	}
	switch b.Status() {
	case game.StatusCheckmate:
		winner, _ := b.Winner()
		return winToken(winner)
	case game.StatusStalemate:
		return ResultDraw
	}
	return ResultUnknown
}

func winToken(c game.Color) string {
	if c == game.White {
		return ResultWhiteWins
	}
	return ResultBlackWins
}

// Replay plays records from the standard starting position and returns the
// resulting game. Every record must be legal in the replayed position.
func Replay(size int, records []game.MoveRecord) (*chess.Game, error) {
	if size != 8 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrUnsupportedSize, size, size)
	}
	g := chess.NewGame()
	for _, rec := range records {
		uci := rec.UCI(size)
		mv, err := chess.UCINotation{}.Decode(g.Position(), uci)
		if err != nil {
			return nil, fmt.Errorf("move %d (%s): %w", rec.Number, rec.Notation, err)
		}
		if err := g.Move(mv); err != nil {
			return nil, fmt.Errorf("move %d (%s): %w", rec.Number, rec.Notation, err)
		}
	}
	return g, nil
}

// PGN renders records as a PGN document headed by tags. Moves are written
// in standard algebraic notation when the game replays under orthodox
// rules. A game that does not (castling out of or through check is
// allowed here) falls back to the engine's own notation.
func PGN(size int, records []game.MoveRecord, tags Tags) (string, error) {
	if size != 8 {
		return "", fmt.Errorf("%w: got %dx%d", ErrUnsupportedSize, size, size)
	}
	sans, err := standardMoves(records)
	if err != nil {
		sans = engineMoves(records)
	}

	result := tags.Result
	if result == "" {
		result = ResultUnknown
	}

	var sb strings.Builder
	writeTag(&sb, "Event", tags.Event)
	writeTag(&sb, "Site", tags.Site)
	if !tags.Date.IsZero() {
		writeTag(&sb, "Date", tags.Date.Format("2006.01.02"))
	}
	writeTag(&sb, "White", tags.White)
	writeTag(&sb, "Black", tags.Black)
	writeTag(&sb, "Result", result)
	sb.WriteByte('\n')

	for i, san := range sans {
		if i%2 == 0 {
			fmt.Fprintf(&sb, "%d. ", i/2+1)
		}
		sb.WriteString(san)
		sb.WriteByte(' ')
	}
	sb.WriteString(result)
	sb.WriteByte('\n')
	return sb.String(), nil
}

// standardMoves replays records and encodes each move against the position
// it was played from.
func standardMoves(records []game.MoveRecord) ([]string, error) {
	g, err := Replay(8, records)
	if err != nil {
		return nil, err
	}
	positions := g.Positions()
	moves := g.Moves()
	out := make([]string, len(moves))
	for i, mv := range moves {
		out[i] = chess.AlgebraicNotation{}.Encode(positions[i], mv)
	}
	return out, nil
}

func engineMoves(records []game.MoveRecord) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.Notation
	}
	return out
}

// FEN returns the position reached after records.
func FEN(size int, records []game.MoveRecord) (string, error) {
	g, err := Replay(size, records)
	if err != nil {
		return "", err
	}
	return g.FEN(), nil
}

func writeTag(sb *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	value = strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
	fmt.Fprintf(sb, "[%s \"%s\"]\n", key, value)
}
