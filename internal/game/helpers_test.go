package game

import (
	"strings"
	"testing"
)

func newStandard(t *testing.T, size int) *Board {
	t.Helper()
	b, err := NewStandardBoard(size)
	if err != nil {
		t.Fatalf("new %dx%d board: %v", size, size, err)
	}
	return b
}

func newFromLayout(t *testing.T, size int, rows ...string) *Board {
	t.Helper()
	layout, err := ParseLayout(strings.Join(rows, "\n"))
	if err != nil {
		t.Fatalf("parse layout: %v", err)
	}
	b, err := NewBoard(size, layout)
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	return b
}

func square(t *testing.T, b *Board, coord string) Square {
	t.Helper()
	sq, ok := b.ParseCoord(coord)
	if !ok {
		t.Fatalf("invalid coordinate %q", coord)
	}
	return sq
}

// play commits moves written as "e2e4"-style from/to pairs.
func play(t *testing.T, b *Board, moves ...string) {
	t.Helper()
	for _, mv := range moves {
		from, to := splitMove(t, b, mv)
		if !b.AttemptMove(from, to) {
			t.Fatalf("move %s rejected (history %v)", mv, b.MoveHistory())
		}
	}
}

func splitMove(t *testing.T, b *Board, mv string) (Square, Square) {
	t.Helper()
	// Coordinates are a letter and one or two digits.
	for i := 2; i < len(mv); i++ {
		if mv[i] >= 'a' && mv[i] <= 'p' {
			return square(t, b, mv[:i]), square(t, b, mv[i:])
		}
	}
	t.Fatalf("malformed move %q", mv)
	return Square{}, Square{}
}

func coords(b *Board, squares []Square) []string {
	out := make([]string, len(squares))
	for i, sq := range squares {
		out[i] = b.Coord(sq)
	}
	return out
}

func containsCoord(b *Board, squares []Square, coord string) bool {
	for _, sq := range squares {
		if b.Coord(sq) == coord {
			return true
		}
	}
	return false
}

func legalMoveCount(b *Board, color Color) int {
	n := 0
	for _, pc := range b.grid.Pieces(color) {
		n += len(b.LegalMoves(pc))
	}
	return n
}

type cellSnapshot struct {
	square      Square
	piece       *Piece
	pieceSquare Square
	hasMoved    bool
	enPassant   bool
}

func snapshotGrid(b *Board) []cellSnapshot {
	var out []cellSnapshot
	b.grid.each(func(c *Cell) {
		snap := cellSnapshot{square: c.square, piece: c.occupant}
		if c.occupant != nil {
			snap.pieceSquare = c.occupant.Square
			snap.hasMoved = c.occupant.HasMoved
			snap.enPassant = c.occupant.EnPassant
		}
		out = append(out, snap)
	})
	return out
}

func assertSameGrid(t *testing.T, want, got []cellSnapshot) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("grid size changed: %d cells, want %d", len(got), len(want))
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("cell %v changed: got %+v, want %+v", want[i].square, got[i], want[i])
		}
	}
}
