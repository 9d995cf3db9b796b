// Package game implements the chess rules engine: board state, legal move
// generation, check detection, special moves and move notation.
package game

import "fmt"

// Board owns the grid and the turn state of one game. It is not safe for
// concurrent use.
type Board struct {
	grid        *Grid
	turn        Color
	moveCount   int
	history     []string
	records     []MoveRecord
	selected    *Piece
	nextPieceID int
	status      Status
	lastNote    string
}

// NewBoard creates a size x size board populated from layout.
func NewBoard(size int, layout Layout) (*Board, error) {
	if size < MinBoardSize {
		return nil, fmt.Errorf("%w: board must be at least %dx%d, got %d", ErrInvalidConfig, MinBoardSize, MinBoardSize, size)
	}
	if size > MaxBoardSize {
		return nil, fmt.Errorf("%w: board must be at most %dx%d, got %d", ErrInvalidConfig, MaxBoardSize, MaxBoardSize, size)
	}
	if err := layout.validate(size); err != nil {
		return nil, err
	}

	b := &Board{
		grid:        newGrid(size),
		turn:        White,
		nextPieceID: 1,
		lastNote:    "New game",
	}
	for y, row := range layout {
		for x, entry := range row {
			if entry == "" || entry == "." {
				continue
			}
			color, pt, err := parseLayoutEntry(entry)
			if err != nil {
				return nil, err
			}
			b.placePiece(color, pt, Square{X: x, Y: y})
		}
	}
	b.updateGameStatus()
	return b, nil
}

// NewStandardBoard creates a board with the built-in layout for size.
func NewStandardBoard(size int) (*Board, error) {
	if size < MinBoardSize {
		return nil, fmt.Errorf("%w: board must be at least %dx%d, got %d", ErrInvalidConfig, MinBoardSize, MinBoardSize, size)
	}
	layout, err := StandardLayout(size)
	if err != nil {
		return nil, err
	}
	return NewBoard(size, layout)
}

func (b *Board) Size() int { return b.grid.size }

func (b *Board) Grid() *Grid { return b.grid }

func (b *Board) Turn() Color { return b.turn }

func (b *Board) Selected() *Piece { return b.selected }

func (b *Board) LastNote() string { return b.lastNote }

func (b *Board) PieceAt(sq Square) *Piece { return b.grid.PieceAt(sq) }

// Coord renders sq on this board.
func (b *Board) Coord(sq Square) string { return sq.Coord(b.grid.size) }

// ParseCoord parses a coordinate such as "e4" for this board.
func (b *Board) ParseCoord(coord string) (Square, bool) {
	return ParseCoord(coord, b.grid.size)
}

func appendNote(dst *string, note string) {
	if *dst == "" || *dst == "New game" {
		*dst = note
	} else {
		*dst += "; " + note
	}
}
