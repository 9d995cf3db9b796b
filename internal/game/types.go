package game

import (
	"fmt"
	"strconv"
	"strings"
)

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) Index() int { return int(c) }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

func (c Color) letter() byte {
	if c == White {
		return 'w'
	}
	return 'b'
}

func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, true
	case "black", "b":
		return Black, true
	default:
		return White, false
	}
}

// PieceType is the closed catalogue of movement variants.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	// Amazon moves as a queen and a knight. Only the 10x10 layout uses it.
	Amazon
)

func (p PieceType) String() string {
	switch p {
	case Pawn:
		return "P"
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Amazon:
		return "W"
	default:
		return fmt.Sprintf("piece(%d)", p)
	}
}

// Symbol is the character written in move notation. Pawns have none.
func (p PieceType) Symbol() byte {
	if p == Pawn {
		return ' '
	}
	s := p.String()
	if len(s) != 1 {
		return '?'
	}
	return s[0]
}

func (p PieceType) Name() string {
	switch p {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	case Amazon:
		return "amazon"
	default:
		return "?"
	}
}

func ParsePieceType(letter byte) (PieceType, bool) {
	switch letter {
	case 'P', 'p':
		return Pawn, true
	case 'N', 'n':
		return Knight, true
	case 'B', 'b':
		return Bishop, true
	case 'R', 'r':
		return Rook, true
	case 'Q', 'q':
		return Queen, true
	case 'K', 'k':
		return King, true
	case 'W', 'w':
		return Amazon, true
	default:
		return Pawn, false
	}
}

// files names the columns; its length bounds the board size.
const files = "abcdefghijklmnop"

const (
	MinBoardSize = 8
	MaxBoardSize = len(files)
)

// Square addresses a cell. X grows toward the kingside file, Y grows from
// the black back rank (0) toward white's (size-1).
type Square struct {
	X int
	Y int
}

func Sq(x, y int) Square { return Square{X: x, Y: y} }

func (s Square) Add(dx, dy int) Square { return Square{X: s.X + dx, Y: s.Y + dy} }

// Coord renders the square as file letter plus rank number on a board of
// the given size. Rank numbers count down from size at the black side.
func (s Square) Coord(size int) string {
	if s.X < 0 || s.X >= len(files) || s.Y < 0 || s.Y >= size {
		return "?"
	}
	return string(files[s.X]) + strconv.Itoa(size-s.Y)
}

// ParseCoord is the inverse of Coord.
func ParseCoord(coord string, size int) (Square, bool) {
	coord = strings.ToLower(strings.TrimSpace(coord))
	if len(coord) < 2 {
		return Square{}, false
	}
	x := strings.IndexByte(files, coord[0])
	if x < 0 || x >= size {
		return Square{}, false
	}
	rank, err := strconv.Atoi(coord[1:])
	if err != nil || rank < 1 || rank > size {
		return Square{}, false
	}
	return Square{X: x, Y: size - rank}, true
}

type CastlingSide uint8

const (
	CastleQueenside CastlingSide = iota
	CastleKingside
)

func (cs CastlingSide) String() string {
	switch cs {
	case CastleKingside:
		return "kingside"
	case CastleQueenside:
		return "queenside"
	default:
		return "?"
	}
}

// Status classifies the position for the side to move.
type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCheck     Status = "check"
	StatusCheckmate Status = "checkmate"
	StatusStalemate Status = "stalemate"
)

func (s Status) Terminal() bool { return s == StatusCheckmate || s == StatusStalemate }

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
